// Package refs extracts and rewrites entity-ID references inside
// decoded automation, scene and script documents.
//
// Documents arrive as generic trees (maps, lists and scalars decoded
// from JSON or YAML). The package models them as an explicit tagged
// union (Node) so the traversal rules - which keys are skipped, which
// strings are scanned, how breadcrumb paths are built - operate over a
// closed set of shapes instead of reflection at every step.
//
// Two traversals share the same rules:
//
//   - Extract walks a document and returns every entity-ID reference
//     together with a human-readable breadcrumb path such as
//     "trigger[0] -> entity_id".
//   - Replace walks the same way and rewrites references to one entity
//     ID in place: exact matches under entity_id keys, and occurrences
//     embedded in template expressions ("{{ ... }}"). Plain prose that
//     merely contains the ID is never touched.
//
// Strings that look like file paths and suffixes that name service
// calls (light.turn_on) match the entity-ID pattern but are not
// references; the fixed rules here exclude them deterministically.
package refs
