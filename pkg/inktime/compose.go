package inktime

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/font"
	"k8s.io/klog/v2"

	"github.com/tstromberg/inktime/pkg/epd"
)

// Layout of the caption strip below the photo, in canvas pixels.
const (
	TextAreaHeight = 200

	paddingX       = 60
	textTopMargin  = 20
	captionSize    = 44
	captionLineH   = 48
	captionLines   = 2
	detailSize     = 40
	detailLineDrop = 108
)

// Compositor lays a photo and its caption out on a panel-sized canvas.
type Compositor struct {
	caption font.Face
	detail  font.Face
	orient  Orienter
}

// NewCompositor loads the caption fonts. A missing or invalid font falls
// back to a built-in face. orient may be nil to skip orientation fixes.
func NewCompositor(fontPath string, orient Orienter) *Compositor {
	return &Compositor{
		caption: faceOrDefault(fontPath, captionSize),
		detail:  faceOrDefault(fontPath, detailSize),
		orient:  orient,
	}
}

// newCanvas returns a white panel-sized canvas.
func newCanvas() *image.RGBA {
	c := image.NewRGBA(image.Rect(0, 0, epd.Width, epd.Height))
	draw.Draw(c, c.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return c
}

// fill scales img uniformly so it covers a w x h area and keeps the center.
// The crop happens in source coordinates, so only a w x h image is ever
// resampled regardless of the source's aspect ratio.
func fill(img image.Image, w, h int) (*image.RGBA, error) {
	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	if iw == 0 || ih == 0 {
		return nil, fmt.Errorf("image has no area: %dx%d", iw, ih)
	}

	scale := math.Max(float64(w)/float64(iw), float64(h)/float64(ih))
	cw := min(max(int(math.Round(float64(w)/scale)), 1), iw)
	ch := min(max(int(math.Round(float64(h)/scale)), 1), ih)

	left := b.Min.X + (iw-cw)/2
	top := b.Min.Y + (ih-ch)/2
	cropped := transform.Crop(img, image.Rect(left, top, left+cw, top+ch))
	return transform.Resize(cropped, w, h, transform.Lanczos), nil
}

// flatten drops any alpha channel, keeping the straight color of each pixel
// as if the photo had been saved without transparency.
func flatten(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		}
	}
	return out
}

// Render composites the photo for r with its caption, date, and location.
func (c *Compositor) Render(r PhotoRecord) (*image.RGBA, error) {
	if _, err := os.Stat(r.Path); err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}

	img, err := imgio.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}
	img = flatten(img)
	if c.orient != nil {
		if o := c.orient.Orientation(r.Path); o != 1 {
			klog.V(1).Infof("%s: applying orientation %d", r.Path, o)
			img = upright(img, o)
		}
	}

	photo, err := fill(img, epd.Width, epd.Height-TextAreaHeight)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Path, err)
	}

	canvas := newCanvas()
	draw.Draw(canvas, image.Rect(0, 0, epd.Width, epd.Height-TextAreaHeight), photo, photo.Bounds().Min, draw.Src)
	c.drawCaption(canvas, r)
	return canvas, nil
}

// drawCaption draws the text strip under the photo.
func (c *Compositor) drawCaption(canvas *image.RGBA, r PhotoRecord) {
	textTop := epd.Height - TextAreaHeight + textTopMargin
	avail := epd.Width - 2*paddingX

	y := textTop
	for _, line := range WrapText(c.caption, r.Caption, avail, captionLines) {
		drawText(canvas, c.caption, paddingX, y, line)
		y += captionLineH
	}

	detailY := textTop + detailLineDrop
	drawText(canvas, c.detail, paddingX, detailY, FormatDate(r.Date))

	loc := FormatLocation(r.Latitude, r.Longitude, r.City)
	locX := max(paddingX+avail-textWidth(c.detail, loc), paddingX)
	drawText(canvas, c.detail, locX, detailY, loc)
}
