package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Fixed drawing dimensions in pixels.
const (
	StrokeWidth  = 3
	MarkerRadius = 5
)

// circleKappa places cubic Bézier control points for a quarter circle.
const circleKappa = 0.5522847498

type vec struct{ x, y float32 }

// pixel maps an integer point to the center of its pixel.
func pixel(p image.Point) vec {
	return vec{float32(p.X) + 0.5, float32(p.Y) + 0.5}
}

// bounds returns the pixel rectangle covering vs.
func bounds(vs ...vec) image.Rectangle {
	minX, minY := vs[0].x, vs[0].y
	maxX, maxY := minX, minY
	for _, v := range vs[1:] {
		minX = min(minX, v.x)
		minY = min(minY, v.y)
		maxX = max(maxX, v.x)
		maxY = max(maxY, v.y)
	}
	return image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX)))+1, int(math.Ceil(float64(maxY)))+1,
	)
}

// shaper draws filled shapes onto an RGBA layer. Shapes replace what is
// under them (draw.Src) so overlapping regions do not compound their alpha.
//
// The rasterizer only covers each shape's bounding box; a full-page mask per
// stroke would make large scans very slow.
type shaper struct {
	dst  *image.RGBA
	z    *vector.Rasterizer
	area image.Rectangle
}

func newShaper(dst *image.RGBA) *shaper {
	return &shaper{dst: dst, z: vector.NewRasterizer(0, 0)}
}

// begin prepares the rasterizer for a shape whose vertices are vs. It
// returns false when the shape lies entirely off the layer.
func (s *shaper) begin(vs ...vec) bool {
	s.area = bounds(vs...).Intersect(s.dst.Bounds())
	if s.area.Empty() {
		return false
	}
	s.z.Reset(s.area.Dx(), s.area.Dy())
	// Reset restores draw.Over.
	s.z.DrawOp = draw.Src
	return true
}

func (s *shaper) rel(v vec) (float32, float32) {
	return v.x - float32(s.area.Min.X), v.y - float32(s.area.Min.Y)
}

func (s *shaper) moveTo(v vec) { s.z.MoveTo(s.rel(v)) }
func (s *shaper) lineTo(v vec) { s.z.LineTo(s.rel(v)) }

func (s *shaper) cubeTo(a, b, c vec) {
	ax, ay := s.rel(a)
	bx, by := s.rel(b)
	cx, cy := s.rel(c)
	s.z.CubeTo(ax, ay, bx, by, cx, cy)
}

func (s *shaper) paint(c color.Color) {
	s.z.ClosePath()
	s.z.Draw(s.dst, s.area, image.NewUniform(c), image.Point{})
}

// fill fills the closed polygon through vs.
func (s *shaper) fill(vs []vec, c color.Color) {
	if len(vs) < 3 || !s.begin(vs...) {
		return
	}
	s.moveTo(vs[0])
	for _, v := range vs[1:] {
		s.lineTo(v)
	}
	s.paint(c)
}

// polygon fills the polygon through pts.
func (s *shaper) polygon(pts []image.Point, c color.Color) {
	vs := make([]vec, len(pts))
	for i, p := range pts {
		vs[i] = pixel(p)
	}
	s.fill(vs, c)
}

// line draws a segment of the given width as a filled quad.
func (s *shaper) line(a, b image.Point, width float32, c color.Color) {
	pa, pb := pixel(a), pixel(b)
	dx, dy := pb.x-pa.x, pb.y-pa.y
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	// unit normal scaled to half the width
	nx, ny := -dy/length*width/2, dx/length*width/2

	s.fill([]vec{
		{pa.x + nx, pa.y + ny},
		{pb.x + nx, pb.y + ny},
		{pb.x - nx, pb.y - ny},
		{pa.x - nx, pa.y - ny},
	}, c)
}

// outline strokes the closed polygon through pts, wrapping last to first.
func (s *shaper) outline(pts []image.Point, width float32, c color.Color) {
	for i := range pts {
		s.line(pts[i], pts[(i+1)%len(pts)], width, c)
	}
}

// disc fills a circle of radius r centered on p.
func (s *shaper) disc(p image.Point, r float32, c color.Color) {
	o := pixel(p)
	k := r * circleKappa

	if !s.begin(vec{o.x - r, o.y - r}, vec{o.x + r, o.y + r}) {
		return
	}
	s.moveTo(vec{o.x + r, o.y})
	s.cubeTo(vec{o.x + r, o.y + k}, vec{o.x + k, o.y + r}, vec{o.x, o.y + r})
	s.cubeTo(vec{o.x - k, o.y + r}, vec{o.x - r, o.y + k}, vec{o.x - r, o.y})
	s.cubeTo(vec{o.x - r, o.y - k}, vec{o.x - k, o.y - r}, vec{o.x, o.y - r})
	s.cubeTo(vec{o.x + k, o.y - r}, vec{o.x + r, o.y - k}, vec{o.x + r, o.y})
	s.paint(c)
}
