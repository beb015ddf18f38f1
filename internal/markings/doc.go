// Package markings turns a pet photo into compact descriptors used to tell
// individual animals apart by coat and marking pattern.
//
// The engine is a set of pure functions over decoded images:
//
//   - Fingerprint64: 64-bit perceptual hash of low-frequency structure
//   - ColorHistogram: Lab color distribution, 3*bins density values
//   - TextureHistogram: Local Binary Pattern distribution, 256 values
//   - GradientMap: per-pixel edge magnitude, the saliency proxy
//   - SelectPatches: highly textured, mostly non-overlapping square regions
//
// Analyze runs all of them. Nothing in the package holds state, performs I/O
// or logs, so every function may be called concurrently on different images.
// There is no cancellation; callers that need a latency bound should limit
// input size before calling in.
//
// # Errors
//
// Zero-sized images, malformed grids and out-of-range configuration fail with
// an error wrapping ErrInvalidInput. A search that finds no window (the
// working image is smaller than the window) returns an empty patch slice,
// not an error.
package markings
