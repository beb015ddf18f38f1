package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Gray is a single-channel grid of float samples stored row-major.
//
// Intensity grids produced by ToGray hold values in 0-255. Derived grids
// (gradient magnitudes, for instance) reuse the type with their own range.
// Consumers treat a Gray as read-only and derive new grids instead of
// mutating one they did not create.
type Gray struct {
	Width  int
	Height int
	Pix    []float64
}

// NewGray allocates a zeroed grid.
func NewGray(width, height int) *Gray {
	return &Gray{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// At returns the sample at (x, y). Coordinates must be inside the grid.
func (g *Gray) At(x, y int) float64 {
	return g.Pix[y*g.Width+x]
}

// Set stores v at (x, y).
func (g *Gray) Set(x, y int, v float64) {
	g.Pix[y*g.Width+x] = v
}

// Clamped returns the sample at (x, y) with coordinates clamped to the grid,
// which replicates edge pixels outward.
func (g *Gray) Clamped(x, y int) float64 {
	return g.At(clampInt(x, 0, g.Width-1), clampInt(y, 0, g.Height-1))
}

// Image renders the grid as an 8-bit grayscale image, rounding and clamping
// samples to 0-255.
func (g *Gray) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for i, v := range g.Pix {
		img.Pix[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return img
}

// ToGray converts img to an 8-bit luminance grid using ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B), rounded to integer levels.
func ToGray(img image.Image) *Gray {
	lum := imaging.Grayscale(img)
	w, h := lum.Rect.Dx(), lum.Rect.Dy()

	g := NewGray(w, h)
	for y := 0; y < h; y++ {
		row := lum.Pix[y*lum.Stride:]
		for x := 0; x < w; x++ {
			g.Pix[y*w+x] = float64(row[x*4])
		}
	}
	return g
}

// Resize resamples img to exactly width x height with a box filter.
//
// Every resize in the fingerprint pipeline goes through this function so the
// resampling policy is identical everywhere.
func Resize(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Box)
}

// ResizeShortSide scales img, preserving aspect ratio, so that its shorter
// side equals size. The longer side is truncated toward zero but never drops
// below one pixel.
func ResizeShortSide(img image.Image, size int) *image.NRGBA {
	w, h := ShortSideDims(img.Bounds().Dx(), img.Bounds().Dy(), size)
	return Resize(img, w, h)
}

// ShortSideDims returns the dimensions ResizeShortSide produces for a
// width x height source.
func ShortSideDims(width, height, size int) (int, int) {
	short := width
	if height < short {
		short = height
	}
	scale := float64(size) / float64(short)

	w := int(float64(width) * scale)
	h := int(float64(height) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
