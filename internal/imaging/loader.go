package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Load decodes the scan at path. Supported formats are those registered with
// the image package plus the ones disintegration/imaging adds (JPEG, PNG,
// GIF, TIFF, BMP).
//
// EXIF orientation is deliberately not applied: region coordinates refer to
// the pixels as stored.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return img, nil
}

// ImageInfo contains metadata about a scan file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format guessed from the file extension: "png", "jpeg",
	// "gif", "tiff", "bmp" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Info loads an image and returns its dimensions, format and file size.
func Info(path string) (*ImageInfo, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	b := img.Bounds()
	return &ImageInfo{
		Width:         b.Dx(),
		Height:        b.Dy(),
		Format:        formatFromExt(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	}
	return "unknown"
}
