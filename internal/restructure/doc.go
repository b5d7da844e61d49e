// Package restructure orchestrates the rename workflow.
//
// The service ties the hierarchy manager, reference checker and
// dependency updater to the platform registry: it loads the structure,
// previews computed names, applies entity/device/area renames with
// cascade and dependency propagation, and repairs broken references.
//
// # Responsibilities
//
//   - Load areas, devices and entities from the registry into the
//     hierarchy manager (each load is best-effort; a failed list call
//     is logged and treated as empty)
//   - Preview the computed entity IDs and friendly names before any
//     change is applied
//   - Apply renames: external registry update first, then the cascade,
//     then dependency propagation, then cache invalidation
//   - Repair broken references found by the checker
//   - Publish change events over MQTT and record scan/rename metrics
//     to InfluxDB (both optional collaborators)
//
// # Error Handling
//
// Batch operations never abort on a single failure: every affected
// entity and document is attempted, and the result itemises successes
// and failures. The reference cache is invalidated only after all
// update attempts completed.
//
// # Thread Safety
//
// The service serialises structural mutations through the hierarchy
// manager's lock. It is intended to run as the single writer against
// one platform instance.
package restructure
