// Package refcheck scans automation, scene and script documents for
// references to entities that no longer exist, and proposes
// replacement candidates ranked by similarity.
//
// The checker owns a cache of entity states and scan results. The
// cache is never invalidated implicitly; callers invalidate it after
// rename operations so the next scan sees fresh registry state.
//
// Scanning is best-effort per document kind: a failure to fetch one
// kind is logged and skipped, the other kinds are still scanned. Only
// a failure to load the entity universe aborts the scan, since
// without it every reference would look broken.
package refcheck
