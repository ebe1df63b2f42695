package epd

import "image"

// Floyd-Steinberg weights, in sixteenths.
const (
	weightRight     = 7.0 / 16.0
	weightDownLeft  = 3.0 / 16.0
	weightDown      = 5.0 / 16.0
	weightDownRight = 1.0 / 16.0
)

// rowError holds the pending per-channel error for one scanline.
type rowError struct {
	r, g, b []float64
}

func newRowError(w int) *rowError {
	return &rowError{r: make([]float64, w), g: make([]float64, w), b: make([]float64, w)}
}

func (e *rowError) add(x int, er, eg, eb, weight float64) {
	e.r[x] += er * weight
	e.g[x] += eg * weight
	e.b[x] += eb * weight
}

func (e *rowError) reset() {
	clear(e.r)
	clear(e.g)
	clear(e.b)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Dither reduces img to the six panel colors in place using Floyd-Steinberg
// error diffusion. Pixels are visited row by row, left to right. After it
// returns, every pixel is exactly one of the Palette colors with full alpha.
func Dither(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	cur := newRowError(w)
	next := newRowError(w)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			px := img.Pix[o : o+4 : o+4]

			r := clamp(float64(px[0]) + cur.r[x])
			g := clamp(float64(px[1]) + cur.g[x])
			bl := clamp(float64(px[2]) + cur.b[x])

			c := IndexColor(NearestIndex(r, g, bl))
			px[0], px[1], px[2], px[3] = c.R, c.G, c.B, 0xFF

			er := r - float64(c.R)
			eg := g - float64(c.G)
			eb := bl - float64(c.B)

			if x+1 < w {
				cur.add(x+1, er, eg, eb, weightRight)
			}
			if y+1 < h {
				if x > 0 {
					next.add(x-1, er, eg, eb, weightDownLeft)
				}
				next.add(x, er, eg, eb, weightDown)
				if x+1 < w {
					next.add(x+1, er, eg, eb, weightDownRight)
				}
			}
		}

		cur, next = next, cur
		next.reset()
	}
}
