// Package depend propagates entity renames into the documents that
// reference them: scenes, scripts and automations.
//
// Propagation is best-effort. Every referencing document is attempted
// independently; one failure never aborts the run, it lands in the
// per-kind failed list while the others proceed. Callers decide how
// to surface partial success.
package depend
