// Package imaging holds the pixel plumbing shared by the markings engine and
// the server: decoding and caching photos, luminance grids, resampling and
// cropping.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rectangles follow
// image.Rectangle semantics: Min is inclusive, Max is exclusive.
//
// # Resampling
//
// Resize and ResizeShortSide always use a box filter. The perceptual hash and
// the patch selector both depend on it, so results are reproducible across
// callers only as long as every resize goes through these helpers.
//
// # Thread Safety
//
// PhotoCache is safe for concurrent use. Everything else is a pure function
// of its inputs and may be called concurrently on different images.
package imaging
