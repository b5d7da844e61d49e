// Package hierarchy manages the Area -> Device -> Entity name
// hierarchy with cascade updates.
//
// Names inherit downwards:
//
//   - Area names are standalone ("Büro").
//   - Device display names inherit the area ("Büro Homepod"); the
//     stored device name is the base name with the area prefix
//     stripped ("Homepod").
//   - Entity display names inherit both ("Büro Homepod Lautstärke"),
//     composed from the device display name and the entity's effective
//     base name.
//
// Entity IDs are always derived from the composed display name:
// {domain}.{normalize(display name)}. A change at any level cascades
// to every descendant's computed names.
//
// The manager holds the only authoritative copy of the node graph.
// Cascade updates are previews: they mutate the in-memory graph and
// return the recomputed names, but applying them against the platform
// registry is the caller's responsibility, followed by a reload.
package hierarchy
