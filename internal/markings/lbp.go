package markings

import (
	"fmt"

	"github.com/ironsheep/markings-mcp/internal/imaging"
)

// TextureBins is the length of a texture histogram: one bin per 8-bit LBP code.
const TextureBins = 256

// lbpNeighbors lists neighbor offsets clockwise starting directly above the
// center. The first neighbor sets the most significant bit of the code.
var lbpNeighbors = [8][2]int{
	{0, -1},  // up
	{1, -1},  // up-right
	{1, 0},   // right
	{1, 1},   // down-right
	{0, 1},   // down
	{-1, 1},  // down-left
	{-1, 0},  // left
	{-1, -1}, // up-left
}

// LBPCodes computes the Local Binary Pattern code of every pixel in g.
//
// A neighbor contributes a 1 bit when it is greater than or equal to the
// center. Pixels outside the grid replicate the nearest edge pixel.
func LBPCodes(g *imaging.Gray) ([]uint8, error) {
	if err := checkGray(g); err != nil {
		return nil, err
	}

	codes := make([]uint8, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.At(x, y)
			var code uint8
			for _, off := range lbpNeighbors {
				code <<= 1
				if g.Clamped(x+off[0], y+off[1]) >= c {
					code |= 1
				}
			}
			codes[y*g.Width+x] = code
		}
	}
	return codes, nil
}

// TextureHistogram returns the normalized histogram of LBP codes over g.
// The result has TextureBins entries summing to 1.
func TextureHistogram(g *imaging.Gray) ([]float64, error) {
	codes, err := LBPCodes(g)
	if err != nil {
		return nil, err
	}

	hist := make([]float64, TextureBins)
	for _, c := range codes {
		hist[c]++
	}
	normalizeDensity(hist, float64(len(codes)), 1)
	return hist, nil
}

func checkGray(g *imaging.Gray) error {
	if g == nil {
		return fmt.Errorf("%w: grid is nil", ErrInvalidInput)
	}
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: grid is %dx%d", ErrInvalidInput, g.Width, g.Height)
	}
	if len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: grid %dx%d holds %d samples, want one channel (%d)",
			ErrInvalidInput, g.Width, g.Height, len(g.Pix), g.Width*g.Height)
	}
	return nil
}
