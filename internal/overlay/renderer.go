package overlay

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/page-overlay/internal/logging"
	"github.com/ironsheep/page-overlay/internal/pagexml"
)

// Alpha values for region fills and for outlines and vertex markers.
const (
	FillAlpha    = 100
	OutlineAlpha = 255
)

// haloOffsets are the eight neighbour positions used to draw a black halo
// behind each label.
var haloOffsets = []image.Point{
	{-2, -2}, {-2, 0}, {-2, 2},
	{0, -2}, {0, 2},
	{2, -2}, {2, 0}, {2, 2},
}

var haloColor = color.NRGBA{A: 255}

// Renderer draws region overlays. A Renderer owns its font face and must not
// be used from more than one goroutine at a time.
type Renderer struct {
	palette Palette
	font    *Font
}

// NewRenderer creates a renderer that colors regions with p and labels them
// with f.
func NewRenderer(p Palette, f *Font) *Renderer {
	return &Renderer{palette: p, font: f}
}

// Render draws regions onto a new transparent layer of the given size.
//
// Regions are drawn in order. Each region with at least three points gets a
// semi-transparent fill, an opaque outline of StrokeWidth, a marker of
// MarkerRadius at every vertex and a label at the mean of its vertices.
// Regions with fewer points are skipped with a warning. The label's
// reading-order denominator is len(regions).
func (r *Renderer) Render(size image.Point, regions []pagexml.Region) *image.RGBA {
	layer := image.NewRGBA(image.Rectangle{Max: size})
	s := newShaper(layer)
	total := len(regions)

	for i := range regions {
		reg := &regions[i]
		switch {
		case !reg.HasCoords:
			logging.Warnf("No Coords element found for region %s", reg.DisplayID())
			continue
		case len(reg.Points) == 0:
			logging.Warnf("No valid points found for region %s", reg.DisplayID())
			continue
		case len(reg.Points) < 3:
			logging.Warnf("Not enough points (%d) to draw region %s", len(reg.Points), reg.DisplayID())
			continue
		}
		r.drawRegion(s, layer, reg, total)
	}

	return layer
}

func (r *Renderer) drawRegion(s *shaper, layer *image.RGBA, reg *pagexml.Region, total int) {
	base := r.palette.Color(reg.Type)
	fill := color.NRGBA{R: base.R, G: base.G, B: base.B, A: FillAlpha}
	outline := color.NRGBA{R: base.R, G: base.G, B: base.B, A: OutlineAlpha}

	s.polygon(reg.Points, fill)
	s.outline(reg.Points, StrokeWidth, outline)
	for _, p := range reg.Points {
		s.disc(p, MarkerRadius, outline)
	}

	r.drawLabel(layer, Anchor(reg.Points), Label(*reg, total), outline)
}

// drawLabel draws text with its top-left corner at at: first a black halo
// from haloOffsets, then the text itself in black or white depending on the
// luminance of base.
func (r *Renderer) drawLabel(layer *image.RGBA, at image.Point, text string, base color.NRGBA) {
	if r.font == nil || r.font.Face == nil {
		return
	}
	ascent := r.font.Face.Metrics().Ascent

	d := &font.Drawer{Dst: layer, Face: r.font.Face}
	drawAt := func(p image.Point, c color.Color) {
		d.Src = image.NewUniform(c)
		d.Dot = fixed.Point26_6{X: fixed.I(p.X), Y: fixed.I(p.Y) + ascent}
		d.DrawString(text)
	}

	for _, off := range haloOffsets {
		drawAt(at.Add(off), haloColor)
	}
	drawAt(at, TextColor(base))
}

// Anchor returns the integer mean of pts. pts must not be empty.
func Anchor(pts []image.Point) image.Point {
	var sx, sy int
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	return image.Point{X: floorDiv(sx, len(pts)), Y: floorDiv(sy, len(pts))}
}

// floorDiv divides rounding toward negative infinity so anchors of regions
// hanging off the top or left edge stay consistent.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Label formats a region's label, e.g. "header (1/8)", or just the type when
// the region has no reading order.
func Label(reg pagexml.Region, total int) string {
	if reg.HasReadingOrder {
		return fmt.Sprintf("%s (%d/%d)", reg.Type, reg.ReadingOrder, total)
	}
	return reg.Type
}
