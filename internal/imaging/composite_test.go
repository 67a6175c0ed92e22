package imaging

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func solid(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestComposite(t *testing.T) {
	scan := solid(20, 20, color.RGBA{255, 255, 255, 255})
	layer := image.NewRGBA(scan.Bounds())
	// semi-transparent red on the left half, nothing on the right
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			layer.Set(x, y, color.NRGBA{255, 0, 0, 100})
		}
	}

	out := Composite(scan, layer)

	if out.Bounds() != scan.Bounds() {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), scan.Bounds())
	}

	// 100/255 red over white: green and blue drop to about 155
	c := out.NRGBAAt(5, 5)
	if c.R != 255 || c.A != 255 || absDiff(c.G, 155) > 2 || absDiff(c.B, 155) > 2 {
		t.Errorf("blended pixel = %v, want about {255 155 155 255}", c)
	}

	if c := out.NRGBAAt(15, 5); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("untouched pixel = %v, want white", c)
	}
}

func TestComposite_OpaqueLayerWins(t *testing.T) {
	scan := image.NewGray(image.Rect(0, 0, 8, 8))
	layer := image.NewRGBA(scan.Bounds())
	layer.Set(3, 3, color.RGBA{0, 0, 255, 255})

	out := Composite(scan, layer)

	if c := out.NRGBAAt(3, 3); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("opaque layer pixel = %v, want blue", c)
	}
	if c := out.NRGBAAt(0, 0); c != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("gray scan pixel = %v, want black", c)
	}
}

func TestSave_JPEGAndPNG(t *testing.T) {
	dir := t.TempDir()
	img := solid(16, 12, color.RGBA{10, 200, 30, 255})

	for _, name := range []string{"nested/out_overlay.jpg", "out.png"} {
		path := filepath.Join(dir, name)
		if err := Save(path, img, 0); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}

		info, err := Info(path)
		if err != nil {
			t.Fatalf("Info(%s) failed: %v", name, err)
		}
		if info.Width != 16 || info.Height != 12 {
			t.Errorf("%s: got %dx%d, want 16x12", name, info.Width, info.Height)
		}
	}

	// PNG is lossless
	back, err := Load(filepath.Join(dir, "out.png"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	r, g, b, _ := back.At(4, 4).RGBA()
	if r>>8 != 10 || g>>8 != 200 || b>>8 != 30 {
		t.Errorf("png round trip pixel = (%d,%d,%d), want (10,200,30)", r>>8, g>>8, b>>8)
	}
}

func TestSave_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := Save(blocker+".png", solid(2, 2, color.White), 90); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// a regular file where a directory is expected
	if err := Save(filepath.Join(blocker+".png", "x.jpg"), solid(2, 2, color.White), 90); err == nil {
		t.Error("Save should fail when the parent path is a file")
	}
}
