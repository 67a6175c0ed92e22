// Package overlay renders PAGE layout regions as a transparent raster layer.
//
// Each drawable region is painted as a semi-transparent polygon (alpha 100)
// in its palette color, outlined with opaque 3 pixel strokes, marked with a
// 5 pixel disc at every vertex and labelled at its vertex mean with
// "<type> (<n>/<total>)". Labels get a black halo and black or white text
// depending on the luminance of the region color.
//
// The layer is meant to be alpha-composited over the scan by the caller; the
// package does no file I/O.
//
// # Fonts
//
// LoadFont walks an ordered list of TrueType candidates and falls back to the
// embedded Go Regular font. Faces are not safe for concurrent use, so each
// worker owns one Font and one Renderer. Palettes are immutable and can be
// shared freely.
package overlay
