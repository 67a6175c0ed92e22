package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used by Save when quality is outside 1-100.
const DefaultJPEGQuality = 95

// Composite alpha-composites layer over scan and returns the result.
//
// The scan is first converted to non-premultiplied RGBA so every input,
// whether grayscale, paletted or YCbCr, is blended the same way. The layer
// is placed at the scan's origin at full opacity.
func Composite(scan, layer image.Image) *image.NRGBA {
	base := imaging.Clone(scan)
	return imaging.Overlay(base, layer, base.Bounds().Min, 1.0)
}

// Save writes img to path, creating the parent directory if needed. Paths
// ending in ".png" are written as PNG, everything else as JPEG with the given
// quality.
func Save(path string, img image.Image, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	enc := imgio.JPEGEncoder(quality)
	if strings.EqualFold(filepath.Ext(path), ".png") {
		enc = imgio.PNGEncoder()
	}

	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
