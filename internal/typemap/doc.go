// Package typemap resolves semantic type keys (device classes, domains,
// integration-specific attributes) to human-readable labels.
//
// Resolution walks a four-tier priority chain, first hit wins:
//
//  1. User mapping - a single language-agnostic string the user chose,
//     persisted in SQLite and applied immediately.
//  2. Integration default - per-integration tables (zigbee2mqtt, hue,
//     esphome), keyed by language with an "en" fallback.
//  3. System device-class default - the standard multilingual tables.
//  4. Domain default - the same tables keyed by the entity's domain.
//
// When nothing matches, the key itself is title-cased with underscores
// expanded ("signal_strength" -> "Signal Strength"). Translation never
// fails: non-empty input always yields a non-empty label.
package typemap
