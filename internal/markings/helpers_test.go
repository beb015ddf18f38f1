package markings

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/ironsheep/markings-mcp/internal/imaging"
)

// createSolidImage creates an in-memory image filled with one color.
func createSolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createSquareImage creates a flat mid-gray image with one black square.
func createSquareImage(width, height int, square image.Rectangle) *image.RGBA {
	img := createSolidImage(width, height, color.RGBA{128, 128, 128, 255})
	for y := square.Min.Y; y < square.Max.Y; y++ {
		for x := square.Min.X; x < square.Max.X; x++ {
			img.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	return img
}

// createCoatImage creates a deterministic blotchy pattern resembling a
// spotted coat: large soft spots on a warm background.
func createCoatImage(width, height int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := createSolidImage(width, height, color.RGBA{200, 160, 110, 255})
	for i := 0; i < 12; i++ {
		cx := rng.Intn(width)
		cy := rng.Intn(height)
		r := 10 + rng.Intn(width/6+1)
		for y := cy - r; y < cy+r; y++ {
			for x := cx - r; x < cx+r; x++ {
				if x < 0 || y < 0 || x >= width || y >= height {
					continue
				}
				if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
					img.Set(x, y, color.RGBA{40, 30, 20, 255})
				}
			}
		}
	}
	return img
}

// shiftImage returns a copy of img moved dx pixels right, replicating the
// left column into the gap.
func shiftImage(img *image.RGBA, dx int) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			sx := x - dx
			if sx < b.Min.X {
				sx = b.Min.X
			}
			out.Set(x, y, img.At(sx, y))
		}
	}
	return out
}

// grayOf returns the luminance grid of img.
func grayOf(img image.Image) *imaging.Gray {
	return imaging.ToGray(img)
}
