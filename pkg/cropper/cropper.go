package cropper

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/instaframe/instaframe/pkg/types"
)

// Cropper maps a crop selection made on a scaled on-screen rendering back
// to native pixel coordinates and extracts that sub-region 1:1, with no
// resampling beyond the scale correction.
type Cropper struct{}

// New creates a new Cropper.
func New() *Cropper {
	return &Cropper{}
}

// Crop extracts the native-resolution sub-region of src that corresponds to
// region, where region is expressed in the coordinate space of a rendering
// with the given displayed dimensions. The output bitmap is exactly
// floor(region.Width*scaleX) x floor(region.Height*scaleY) pixels.
//
// The region must already lie within the displayed bounds; the interactive
// selection is responsible for clamping. A region exceeding them fails with
// types.ErrOutOfBounds. Zero-area regions mean "no crop performed" and must
// be filtered by the caller before invoking Crop.
func (c *Cropper) Crop(src image.Image, displayed types.Displayed, region types.Region) (image.Image, error) {
	if displayed.Width <= 0 || displayed.Height <= 0 {
		return nil, fmt.Errorf("displayed dimensions %gx%g: %w",
			displayed.Width, displayed.Height, types.ErrOutOfBounds)
	}
	if !region.Within(displayed) {
		return nil, fmt.Errorf("region %g,%g %gx%g exceeds displayed %gx%g: %w",
			region.X, region.Y, region.Width, region.Height,
			displayed.Width, displayed.Height, types.ErrOutOfBounds)
	}

	bounds := src.Bounds()
	scaleX := float64(bounds.Dx()) / displayed.Width
	scaleY := float64(bounds.Dy()) / displayed.Height

	x0 := int(math.Floor(region.X * scaleX))
	y0 := int(math.Floor(region.Y * scaleY))
	w := int(math.Floor(region.Width * scaleX))
	h := int(math.Floor(region.Height * scaleY))

	rect := image.Rect(x0, y0, x0+w, y0+h).Add(bounds.Min)
	return imaging.Crop(src, rect), nil
}
