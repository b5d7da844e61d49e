// Package overrides persists user-chosen entity base names.
//
// An override is keyed by the entity's registry ID - the immutable
// identifier that survives renames - so overrides outlive structure
// reloads and entity-ID changes. The store is a flat key-value table;
// device and area names are never overridden here, they come from the
// platform registry directly.
package overrides
