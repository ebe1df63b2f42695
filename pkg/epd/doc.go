// Package epd converts full-color images into the packed frame format of a
// 13.3" six-color e-paper panel.
//
// The panel understands six colors. Their device codes are not contiguous:
// code 4 is reserved by the controller and never appears in a frame.
//
//	Code  Color   RGB
//	0     black   0,0,0
//	1     white   255,255,255
//	2     yellow  255,255,0
//	3     red     255,0,0
//	5     blue    0,0,255
//	6     green   0,255,0
//
// Frames are stored with two pixels per byte. The first (left) pixel of each
// pair is in the low nibble, the second (right) pixel is in the high nibble.
// Rows follow each other top to bottom with no padding and no header.
//
// Memory layout example for a 4-pixel row:
//
//	Pixels: 0  1  2  3
//	Codes:  3  5  1  0
//	Bytes:  0x53  0x01
//	        (0x53 = low nibble: 3, high nibble: 5)
//	        (0x01 = low nibble: 1, high nibble: 0)
//
// The panel is written in two 600 pixel wide halves, so a 1200x1600 canvas
// is exported as two 480,000 byte half frames, plus a 960,000 byte full frame
// for offline inspection.
//
// Example usage:
//
//	canvas := image.NewRGBA(image.Rect(0, 0, epd.Width, epd.Height))
//	// ... draw onto canvas ...
//	epd.Dither(canvas)
//	left, err := epd.PackHalf(canvas, 0)
//	right, err := epd.PackHalf(canvas, epd.HalfWidth)
package epd
