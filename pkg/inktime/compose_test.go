package inktime

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/google/go-cmp/cmp"

	"github.com/tstromberg/inktime/pkg/epd"
)

// fakeOrienter reports a fixed orientation for every file.
type fakeOrienter int

func (f fakeOrienter) Orientation(string) int { return int(f) }

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// near reports whether two colors differ by at most 2 per channel, which
// absorbs resampling round-off.
func near(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return max(x, y)-min(x, y) <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B)
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := imgio.Save(p, img, imgio.PNGEncoder()); err != nil {
		t.Fatalf("save %s: %v", p, err)
	}
	return p
}

func TestFillCoversArea(t *testing.T) {
	red := color.RGBA{200, 30, 30, 0xFF}
	sizes := []image.Point{
		{1200, 1400}, {4000, 3000}, {3000, 4000}, {600, 700}, {17, 9}, {1, 1000}, {1000, 1}, {1201, 1399},
	}
	for _, s := range sizes {
		out, err := fill(solid(s.X, s.Y, red), epd.Width, epd.Height-TextAreaHeight)
		if err != nil {
			t.Fatalf("fill %v: %v", s, err)
		}
		if out.Bounds().Dx() != 1200 || out.Bounds().Dy() != 1400 {
			t.Errorf("fill %v = %v, want 1200x1400", s, out.Bounds().Size())
		}
	}
}

func TestFillRejectsEmpty(t *testing.T) {
	if _, err := fill(image.NewRGBA(image.Rect(0, 0, 0, 10)), 10, 10); err == nil {
		t.Error("expected error for zero-width image")
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	green := color.RGBA{0, 255, 0, 0xFF}
	p := writePNG(t, dir, "wide.png", solid(300, 100, green))

	c := NewCompositor("", nil)
	canvas, err := c.Render(PhotoRecord{
		Path: p, Date: "2012-05-06", Caption: "a day at the lake", City: "Bled",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if canvas.Bounds() != image.Rect(0, 0, epd.Width, epd.Height) {
		t.Fatalf("canvas = %v, want 1200x1600", canvas.Bounds())
	}

	for _, pt := range []image.Point{{0, 0}, {1199, 0}, {600, 700}, {0, 1399}, {1199, 1399}} {
		if got := canvas.RGBAAt(pt.X, pt.Y); !near(got, green) {
			t.Errorf("photo pixel %v = %v, want %v", pt, got, green)
		}
	}

	white := color.RGBA{255, 255, 255, 0xFF}
	for _, pt := range []image.Point{{0, 1400}, {1199, 1599}, {10, 1500}} {
		if got := canvas.RGBAAt(pt.X, pt.Y); got != white {
			t.Errorf("text strip margin %v = %v, want white", pt, got)
		}
	}

	var inked bool
	for y := 1420; y < 1600 && !inked; y++ {
		for x := 60; x < 1140; x++ {
			if canvas.RGBAAt(x, y) != white {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("no text was drawn in the caption strip")
	}
}

func TestRenderAppliesOrientation(t *testing.T) {
	dir := t.TempDir()
	img := solid(200, 100, color.RGBA{0, 0, 255, 0xFF})
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 0, 0, 0xFF})
		}
	}
	p := writePNG(t, dir, "halves.png", img)

	// Mirrored: the red half moves to the right.
	canvas, err := NewCompositor("", fakeOrienter(2)).Render(PhotoRecord{Path: p, Date: "2012-05-06"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := canvas.RGBAAt(1199, 700); !near(got, color.RGBA{255, 0, 0, 0xFF}) {
		t.Errorf("right edge = %v, want red", got)
	}
	if got := canvas.RGBAAt(0, 700); !near(got, color.RGBA{0, 0, 255, 0xFF}) {
		t.Errorf("left edge = %v, want blue", got)
	}
}

func TestRenderMissingPhoto(t *testing.T) {
	c := NewCompositor("", nil)
	if _, err := c.Render(PhotoRecord{Path: filepath.Join(t.TempDir(), "gone.jpg")}); err == nil {
		t.Error("expected error for missing photo")
	}
}

func TestUprightIdentity(t *testing.T) {
	img := solid(3, 2, color.RGBA{1, 2, 3, 0xFF})
	for _, o := range []int{0, 1, 9} {
		if got := upright(img, o); got != image.Image(img) {
			t.Errorf("upright(%d) changed the image", o)
		}
	}
}

func TestFillKeepsCenter(t *testing.T) {
	// Thirds of red, green and blue. Covering 1200x1400 keeps only the middle.
	img := solid(300, 100, color.RGBA{0, 255, 0, 0xFF})
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 0, 0, 0xFF})
			img.SetRGBA(x+200, y, color.RGBA{0, 0, 255, 0xFF})
		}
	}

	out, err := fill(img, 1200, 1400)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	green := color.RGBA{0, 255, 0, 0xFF}
	for _, pt := range []image.Point{{0, 0}, {1199, 0}, {600, 700}, {0, 1399}, {1199, 1399}} {
		if got := out.RGBAAt(pt.X, pt.Y); !near(got, green) {
			t.Errorf("pixel %v = %v, want %v", pt, got, green)
		}
	}
}

func TestRenderFlattensAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 300, 350))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, 0
	}
	p := writePNG(t, t.TempDir(), "clear.png", img)

	canvas, err := NewCompositor("", nil).Render(PhotoRecord{Path: p, Date: "2012-05-06"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	white := color.RGBA{255, 255, 255, 0xFF}
	if got := canvas.RGBAAt(600, 700); !near(got, white) || got.A != 0xFF {
		t.Errorf("transparent white pixel = %v, want opaque white", got)
	}
}

func TestUpright(t *testing.T) {
	// 4x2 source, pixel values 0..7 in row-major order:
	//	0 1 2 3
	//	4 5 6 7
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := 0; i < 8; i++ {
		src.SetRGBA(i%4, i/4, color.RGBA{uint8(i * 30), 0, 0, 0xFF})
	}

	tests := []struct {
		orientation int
		want        [][]int
	}{
		{2, [][]int{{3, 2, 1, 0}, {7, 6, 5, 4}}},
		{3, [][]int{{7, 6, 5, 4}, {3, 2, 1, 0}}},
		{4, [][]int{{4, 5, 6, 7}, {0, 1, 2, 3}}},
		{5, [][]int{{0, 4}, {1, 5}, {2, 6}, {3, 7}}},
		{6, [][]int{{4, 0}, {5, 1}, {6, 2}, {7, 3}}},
		{7, [][]int{{7, 3}, {6, 2}, {5, 1}, {4, 0}}},
		{8, [][]int{{3, 7}, {2, 6}, {1, 5}, {0, 4}}},
	}
	for _, tt := range tests {
		out := upright(src, tt.orientation)
		b := out.Bounds()
		var got [][]int
		for y := b.Min.Y; y < b.Max.Y; y++ {
			var row []int
			for x := b.Min.X; x < b.Max.X; x++ {
				r, _, _, _ := out.At(x, y).RGBA()
				row = append(row, int(r>>8)/30)
			}
			got = append(got, row)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("upright(%d) mismatch (-want +got):\n%s", tt.orientation, diff)
		}
	}
}
