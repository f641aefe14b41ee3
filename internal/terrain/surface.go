// Package terrain samples raster map surfaces and scores them for
// location placement suitability.
package terrain

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// Surface is a read-only RGBA view over a raster image. The engine borrows
// the underlying image for the duration of one analysis; it never mutates it.
type Surface struct {
	img image.Image
}

// NewSurface wraps an image as an analyzable surface.
func NewSurface(img image.Image) *Surface {
	if img == nil {
		return nil
	}
	return &Surface{img: img}
}

// LoadPNG reads a PNG file into a surface.
func LoadPNG(path string) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open surface: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode surface: %w", err)
	}
	return NewSurface(img), nil
}

// Size returns the pixel dimensions of the surface.
func (s *Surface) Size() (width, height int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// At returns the 8-bit RGB channels at the given pixel, clamped to the
// surface bounds.
func (s *Surface) At(x, y int) (r, g, b uint8) {
	bounds := s.img.Bounds()
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if x >= bounds.Max.X {
		x = bounds.Max.X - 1
	}
	if y < bounds.Min.Y {
		y = bounds.Min.Y
	}
	if y >= bounds.Max.Y {
		y = bounds.Max.Y - 1
	}
	r16, g16, b16, _ := s.img.At(x, y).RGBA()
	return uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8)
}
