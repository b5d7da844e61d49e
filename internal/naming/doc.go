// Package naming provides the pure string transforms used by every
// naming computation in the restructurer.
//
// Two operations are exposed:
//
//   - Normalize converts a display name into the token form used in
//     entity IDs ("Büro Café" -> "buro_cafe").
//   - StripPrefix removes a leading ancestor name from a display
//     string ("Büro Homepod" with prefix "Büro" -> "Homepod").
//
// Both functions are total: they never fail, and Normalize is
// idempotent. All hierarchy name derivation is built on these two
// primitives so the rules live in exactly one place.
package naming
