package epd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Panel geometry.
const (
	Width     = 1200
	Height    = 1600
	HalfWidth = Width / 2

	// HalfFrameSize is the byte length of a packed 600x1600 half frame.
	HalfFrameSize = HalfWidth * Height / 2
	// FullFrameSize is the byte length of a packed 1200x1600 frame.
	FullFrameSize = Width * Height / 2
)

var (
	// ErrBadCanvas is returned when the canvas is not exactly Width x Height.
	ErrBadCanvas = errors.New("epd: canvas must be 1200x1600")
	// ErrBadOffset is returned for a half frame offset other than 0 or HalfWidth.
	ErrBadOffset = errors.New("epd: half frame offset must be 0 or 600")
)

// Frame is a packed panel image. Each byte holds 2 pixels:
// low nibble = left pixel, high nibble = right pixel.
type Frame struct {
	Pix    []byte          // Packed device codes (2 pixels per byte)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewFrame creates an empty Frame. The width must be even.
func NewFrame(r image.Rectangle) *Frame {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Frame{Rect: r}
	}
	if w%2 != 0 {
		panic("epd: width must be even")
	}
	stride := w / 2
	return &Frame{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// Decode wraps packed frame bytes as a w x h Frame without copying.
func Decode(data []byte, w, h int) (*Frame, error) {
	if w <= 0 || h <= 0 || w%2 != 0 {
		return nil, fmt.Errorf("epd: invalid frame size %dx%d", w, h)
	}
	if len(data) != w*h/2 {
		return nil, fmt.Errorf("epd: got %d bytes, want %d for %dx%d", len(data), w*h/2, w, h)
	}
	return &Frame{Pix: data, Stride: w / 2, Rect: image.Rect(0, 0, w, h)}, nil
}

// ColorModel returns the panel color model.
func (f *Frame) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (f *Frame) Bounds() image.Rectangle {
	return f.Rect
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return Color(f.IndexAt(x, y))
}

// IndexAt returns the device code of the pixel at (x, y).
func (f *Frame) IndexAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(f.Rect)) {
		return 0
	}
	offset, shift := f.pixOffset(x, y)
	return (f.Pix[offset] >> shift) & 0x0F
}

// SetIndex stores a device code at (x, y).
func (f *Frame) SetIndex(x, y int, idx uint8) {
	if !(image.Point{X: x, Y: y}.In(f.Rect)) {
		return
	}
	offset, shift := f.pixOffset(x, y)
	f.Pix[offset] = (f.Pix[offset] &^ (0x0F << shift)) | ((idx & 0x0F) << shift)
}

// pixOffset returns the byte offset and bit shift for the pixel at (x, y).
// Even x sits in the low nibble, odd x in the high nibble.
func (f *Frame) pixOffset(x, y int) (offset int, shift uint) {
	offset = (y-f.Rect.Min.Y)*f.Stride + (x-f.Rect.Min.X)/2
	shift = uint(4 * ((x - f.Rect.Min.X) & 1))
	return
}

// pack serializes the w columns of img starting at column x0.
// Every pixel is expected to already be a palette color.
func pack(img *image.RGBA, x0, w int) []byte {
	b := img.Bounds()
	f := NewFrame(image.Rect(0, 0, w, b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(b.Min.X+x0+x, b.Min.Y+y)
			f.SetIndex(x, y, ExactOrNearest(c.R, c.G, c.B))
		}
	}
	return f.Pix
}

func checkCanvas(img *image.RGBA) error {
	if img.Bounds().Dx() != Width || img.Bounds().Dy() != Height {
		return fmt.Errorf("%w: got %dx%d", ErrBadCanvas, img.Bounds().Dx(), img.Bounds().Dy())
	}
	return nil
}

// PackHalf exports the 600 pixel wide half of img starting at xOffset,
// which must be 0 (left) or 600 (right). The result is HalfFrameSize bytes.
func PackHalf(img *image.RGBA, xOffset int) ([]byte, error) {
	if err := checkCanvas(img); err != nil {
		return nil, err
	}
	if xOffset != 0 && xOffset != HalfWidth {
		return nil, fmt.Errorf("%w: got %d", ErrBadOffset, xOffset)
	}
	return pack(img, xOffset, HalfWidth), nil
}

// PackFull exports the whole of img. The result is FullFrameSize bytes.
func PackFull(img *image.RGBA) ([]byte, error) {
	if err := checkCanvas(img); err != nil {
		return nil, err
	}
	return pack(img, 0, Width), nil
}
