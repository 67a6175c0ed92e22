package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/page-overlay/internal/pagexml"
)

func testPalette(t *testing.T) Palette {
	t.Helper()
	p, err := NewPalette(map[string]string{
		"header":      "red",
		"paragraph":   "blue",
		"page-number": "yellow",
	}, "pink")
	if err != nil {
		t.Fatalf("NewPalette failed: %v", err)
	}
	return p
}

func square(id, typ string, x1, y1, x2, y2 int) pagexml.Region {
	return pagexml.Region{
		ID:        id,
		Type:      typ,
		Points:    []image.Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}},
		HasCoords: true,
	}
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func countOpaque(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestRender_FillOutlineAndMarkers(t *testing.T) {
	r := NewRenderer(testPalette(t), nil)
	layer := r.Render(image.Pt(100, 100), []pagexml.Region{square("r1", "header", 10, 10, 90, 90)})

	if layer.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Fatalf("layer bounds = %v", layer.Bounds())
	}

	// interior: semi-transparent red
	c := nrgbaAt(layer, 30, 60)
	if c.A != FillAlpha || c.R < 250 || c.G != 0 || c.B != 0 {
		t.Errorf("fill pixel = %v, want red with alpha %d", c, FillAlpha)
	}

	// on the top edge: opaque outline
	if c := nrgbaAt(layer, 50, 10); c.A != OutlineAlpha || c.R != 255 {
		t.Errorf("outline pixel = %v, want opaque red", c)
	}

	// outside the polygon but inside the vertex marker
	if c := nrgbaAt(layer, 6, 10); c.A != OutlineAlpha {
		t.Errorf("marker pixel = %v, want opaque", c)
	}

	// well clear of everything
	if c := nrgbaAt(layer, 3, 3); c.A != 0 {
		t.Errorf("background pixel = %v, want transparent", c)
	}
	if c := nrgbaAt(layer, 95, 50); c.A != 0 {
		t.Errorf("background pixel = %v, want transparent", c)
	}
}

func TestRender_SkipsUndrawableRegions(t *testing.T) {
	r := NewRenderer(testPalette(t), nil)

	regions := []pagexml.Region{
		{ID: "two", Type: "header", Points: []image.Point{{10, 10}, {50, 50}}, HasCoords: true},
		{ID: "none", Type: "header", HasCoords: true},
		{ID: "nocoords", Type: "header"},
	}
	layer := r.Render(image.Pt(64, 64), regions)

	if n := countOpaque(layer); n != 0 {
		t.Errorf("%d pixels drawn for undrawable regions, want 0", n)
	}
}

func TestRender_ContinuesAfterSkippedRegion(t *testing.T) {
	r := NewRenderer(testPalette(t), nil)

	regions := []pagexml.Region{
		{ID: "bad", Type: "header", Points: []image.Point{{1, 1}}, HasCoords: true},
		square("good", "paragraph", 20, 20, 60, 60),
	}
	layer := r.Render(image.Pt(80, 80), regions)

	if c := nrgbaAt(layer, 30, 45); c.A != FillAlpha || c.B < 250 {
		t.Errorf("fill pixel = %v, want blue with alpha %d", c, FillAlpha)
	}
}

func TestRender_OverlapDoesNotCompoundAlpha(t *testing.T) {
	r := NewRenderer(testPalette(t), nil)

	regions := []pagexml.Region{
		square("a", "header", 10, 10, 70, 70),
		square("b", "paragraph", 30, 30, 90, 90),
	}
	layer := r.Render(image.Pt(100, 100), regions)

	c := nrgbaAt(layer, 50, 55)
	if c.A != FillAlpha {
		t.Errorf("overlap alpha = %d, want %d", c.A, FillAlpha)
	}
	if c.B < 250 || c.R != 0 {
		t.Errorf("overlap color = %v, want the later region's blue", c)
	}
}

func TestRender_RegionPartlyOffCanvas(t *testing.T) {
	r := NewRenderer(testPalette(t), nil)

	layer := r.Render(image.Pt(50, 50), []pagexml.Region{square("r", "header", -40, -40, 30, 30)})

	if c := nrgbaAt(layer, 10, 20); c.A != FillAlpha {
		t.Errorf("fill pixel = %v, want alpha %d", c, FillAlpha)
	}
	if c := nrgbaAt(layer, 45, 45); c.A != 0 {
		t.Errorf("pixel outside region = %v, want transparent", c)
	}
}

func TestRender_LabelColors(t *testing.T) {
	f := LoadFont(nil, nil, 20)
	defer f.Close()
	r := NewRenderer(testPalette(t), f)

	reg := square("p", "paragraph", 0, 0, 199, 119)
	reg.ReadingOrder, reg.HasReadingOrder = 1, true
	layer := r.Render(image.Pt(200, 120), []pagexml.Region{reg})

	var white, black int
	for y := 55; y < 90; y++ {
		for x := 95; x < 200; x++ {
			c := nrgbaAt(layer, x, y)
			switch {
			case c == color.NRGBA{255, 255, 255, 255}:
				white++
			case c == color.NRGBA{0, 0, 0, 255}:
				black++
			}
		}
	}
	if white == 0 {
		t.Error("no white text pixels for a dark (blue) region")
	}
	if black == 0 {
		t.Error("no black halo pixels")
	}
}

func TestLabel(t *testing.T) {
	reg := pagexml.Region{Type: "header", ReadingOrder: 1, HasReadingOrder: true}
	if got := Label(reg, 8); got != "header (1/8)" {
		t.Errorf("Label = %q, want %q", got, "header (1/8)")
	}

	reg = pagexml.Region{Type: "catch-word"}
	if got := Label(reg, 8); got != "catch-word" {
		t.Errorf("Label = %q, want %q", got, "catch-word")
	}
}

func TestAnchor(t *testing.T) {
	tests := []struct {
		pts  []image.Point
		want image.Point
	}{
		{[]image.Point{{10, 10}, {20, 10}, {20, 21}, {10, 21}}, image.Pt(15, 15)},
		{[]image.Point{{0, 0}, {1, 0}, {1, 1}}, image.Pt(0, 0)},
		{[]image.Point{{-3, -3}, {0, 0}}, image.Pt(-2, -2)},
	}

	for _, tt := range tests {
		if got := Anchor(tt.pts); got != tt.want {
			t.Errorf("Anchor(%v) = %v, want %v", tt.pts, got, tt.want)
		}
	}
}
