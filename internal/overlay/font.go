package overlay

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ironsheep/page-overlay/internal/logging"
)

// Font sources reported by Font.Source when no candidate file was usable.
const (
	SourceGoRegular = "builtin:goregular"
	SourceBasic     = "builtin:basicfont"
)

// Font is a label face together with where it came from.
//
// A font.Face caches glyph data and is not safe for concurrent use, so every
// worker loads its own Font and closes it when done.
type Font struct {
	Face   font.Face
	Source string
	Size   float64
}

// Close releases the face.
func (f *Font) Close() error {
	if f == nil || f.Face == nil {
		return nil
	}
	return f.Face.Close()
}

// LoadFont acquires a label font of the given pixel size.
//
// Candidates are tried in order, first success wins. Each candidate is tried
// as given (absolute, or relative to the working directory), then as
// <dir>/<candidate> and <dir>/*/<candidate> for each dir. If no candidate
// loads, the embedded Go Regular font is used, and if that cannot be parsed
// the fixed-size basicfont face.
func LoadFont(candidates, dirs []string, size float64) *Font {
	for _, name := range candidates {
		for _, path := range candidatePaths(name, dirs) {
			face, err := loadFace(path, size)
			if err != nil {
				logging.Debugf("font %s: %v", path, err)
				continue
			}
			logging.Debugf("Using font %s at size %.0f", path, size)
			return &Font{Face: face, Source: path, Size: size}
		}
	}

	logging.Warnf("Could not find a suitable TrueType font. Using default font, which may affect text display.")

	face, err := newFace(goregular.TTF, size)
	if err == nil {
		return &Font{Face: face, Source: SourceGoRegular, Size: size}
	}
	logging.Warnf("Built-in font unavailable: %v", err)
	return &Font{Face: basicfont.Face7x13, Source: SourceBasic, Size: 13}
}

func candidatePaths(name string, dirs []string) []string {
	paths := []string{name}
	if filepath.IsAbs(name) {
		return paths
	}
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, name))
		// Debian and friends keep fonts one level down, e.g. truetype/dejavu/.
		if matches, err := filepath.Glob(filepath.Join(dir, "*", name)); err == nil {
			paths = append(paths, matches...)
		}
	}
	return paths
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return newFace(data, size)
}

func newFace(data []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	return face, nil
}
