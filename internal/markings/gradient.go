package markings

import (
	"math"

	"github.com/ironsheep/markings-mcp/internal/imaging"
)

// GradientMap returns the per-pixel gradient magnitude of g, used as a
// saliency proxy.
//
// Central differences are taken along each axis: gx = (I[x+1] - I[x-1]) / 2
// and gy = (I[y+1] - I[y-1]) / 2. Where a neighbor along an axis is missing
// (first and last column for gx, first and last row for gy) that component is
// zero. A grid with no interior pixels yields an all-zero map.
func GradientMap(g *imaging.Gray) (*imaging.Gray, error) {
	if err := checkGray(g); err != nil {
		return nil, err
	}

	w, h := g.Width, g.Height
	mag := imaging.NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var gx, gy float64
			if x > 0 && x < w-1 {
				gx = (g.At(x+1, y) - g.At(x-1, y)) * 0.5
			}
			if y > 0 && y < h-1 {
				gy = (g.At(x, y+1) - g.At(x, y-1)) * 0.5
			}
			mag.Set(x, y, math.Sqrt(gx*gx+gy*gy))
		}
	}
	return mag, nil
}
