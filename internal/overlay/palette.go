package overlay

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/ironsheep/page-overlay/internal/logging"
)

// Palette maps region types to base colors. A Palette is immutable once
// built and may be shared between workers.
type Palette struct {
	names        map[string]string
	defaultName  string
	defaultColor color.NRGBA
}

// NewPalette builds a palette from region type -> color name entries.
//
// Color names are CSS names ("red", "orange", ...) or hex ("#f80", "#ff8800").
// Types without an entry, and entries whose color does not resolve, use
// defaultColor. An unresolvable defaultColor is an error.
func NewPalette(colors map[string]string, defaultColor string) (Palette, error) {
	def, err := ParseColor(defaultColor)
	if err != nil {
		return Palette{}, fmt.Errorf("invalid default color: %w", err)
	}

	names := make(map[string]string, len(colors))
	for k, v := range colors {
		names[strings.ToLower(k)] = v
	}

	return Palette{
		names:        names,
		defaultName:  defaultColor,
		defaultColor: def,
	}, nil
}

// Color returns the opaque base color for a region type.
func (p Palette) Color(regionType string) color.NRGBA {
	name, ok := p.names[regionType]
	if !ok {
		return p.defaultColor
	}
	c, err := ParseColor(name)
	if err != nil {
		logging.Warnf("Invalid color '%s' for region type '%s'. Using default.", name, regionType)
		return p.defaultColor
	}
	return c
}

// DefaultColor returns the color used for unmapped region types.
func (p Palette) DefaultColor() color.NRGBA {
	return p.defaultColor
}

// ParseColor resolves a CSS color name or a "#rgb"/"#rrggbb" hex string to
// an opaque color.
func ParseColor(name string) (color.NRGBA, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color name")
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", name, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	}

	c, ok := colornames.Map[s]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("unknown color name %q", name)
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
}

// Luminance returns the perceived brightness of c on a 0-255 scale using
// the ITU-R BT.601 weights (299, 587, 114)/1000.
func Luminance(c color.NRGBA) float64 {
	return float64(299*int(c.R)+587*int(c.G)+114*int(c.B)) / 1000
}

// TextColor picks black or white label text for readability against base.
func TextColor(base color.NRGBA) color.NRGBA {
	if Luminance(base) > 128 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}
