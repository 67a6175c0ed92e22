// Package imaging handles scan images for the overlay tool.
//
// It loads scans from disk, composites a rendered overlay layer on top of a
// scan and writes the result. All operations work with standard Go
// image.Image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Pixel Formats
//
// Scans arrive in whatever model their decoder produces (*image.YCbCr for
// JPEG, *image.Gray for bilevel TIFF, and so on). Composite converts the
// scan to *image.NRGBA before blending so the output does not depend on the
// input's color model.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O errors during image loading
//   - Undecodable image data
//   - Encoding or write errors during image output
package imaging
