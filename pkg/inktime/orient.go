package inktime

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// Orienter reports the EXIF orientation (1-8) of an image file.
// 1, or any unknown value, means the pixels are already upright.
type Orienter interface {
	Orientation(path string) int
}

// ExifOrienter reads orientation tags with exiftool.
type ExifOrienter struct {
	et *exiftool.Exiftool
}

// NewExifOrienter starts an exiftool process. Close it when done.
func NewExifOrienter() (*ExifOrienter, error) {
	et, err := exiftool.NewExiftool(exiftool.NoPrintConversion())
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExifOrienter{et: et}, nil
}

// Orientation implements Orienter.
func (o *ExifOrienter) Orientation(path string) int {
	fis := o.et.ExtractMetadata(path)
	if len(fis) == 0 || fis[0].Err != nil {
		klog.V(1).Infof("no metadata for %s", path)
		return 1
	}
	v, err := fis[0].GetInt("Orientation")
	if err != nil {
		klog.V(2).Infof("no orientation for %s: %v", path, err)
		return 1
	}
	return int(v)
}

// Close stops the exiftool process.
func (o *ExifOrienter) Close() error {
	return o.et.Close()
}

// upright undoes an EXIF orientation so the image displays as intended.
func upright(img image.Image, orientation int) image.Image {
	cw := func(deg float64, i image.Image) image.Image {
		return transform.Rotate(i, deg, &transform.RotationOptions{ResizeBounds: true})
	}

	switch orientation {
	case 2:
		return transform.FlipH(img)
	case 3:
		return cw(180, img)
	case 4:
		return transform.FlipV(img)
	case 5:
		return transform.FlipH(cw(90, img))
	case 6:
		return cw(90, img)
	case 7:
		return transform.FlipV(cw(90, img))
	case 8:
		return cw(270, img)
	}
	return img
}
