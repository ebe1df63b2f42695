package inktime

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"k8s.io/klog/v2"
)

// loadFace opens a TrueType/OpenType font at the given pixel size.
func loadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return nil, errors.New("no font configured")
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(bs)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

// faceOrDefault is loadFace, falling back to the built-in bitmap face.
func faceOrDefault(path string, size float64) font.Face {
	face, err := loadFace(path, size)
	if err != nil {
		klog.Warningf("font %q unavailable, using built-in face: %v", path, err)
		return basicfont.Face7x13
	}
	return face
}

// textWidth returns the rendered advance of s in whole pixels, rounded up.
func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// WrapText breaks text into at most maxLines lines, one character at a time,
// so each line's rendered width stays within maxWidth pixels. Text that does
// not fit in maxLines is dropped.
func WrapText(face font.Face, text string, maxWidth, maxLines int) []string {
	if text == "" || maxLines < 1 {
		return nil
	}
	limit := fixed.I(maxWidth)

	var lines []string
	line := ""
	for _, ch := range text {
		test := line + string(ch)
		if font.MeasureString(face, test) <= limit {
			line = test
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = string(ch)
		if len(lines) >= maxLines {
			break
		}
	}
	if line != "" && len(lines) < maxLines {
		lines = append(lines, line)
	}
	return lines
}

// drawText draws s with its top-left corner at (x, y).
func drawText(dst draw.Image, face font.Face, x, y int, s string) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
