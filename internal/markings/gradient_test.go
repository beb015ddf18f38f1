package markings

import (
	"errors"
	"testing"

	"github.com/ironsheep/markings-mcp/internal/imaging"
)

func TestGradientMap_HorizontalRamp(t *testing.T) {
	// I(x, y) = 2x on a 5x3 grid.
	g := imaging.NewGray(5, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			g.Set(x, y, float64(2*x))
		}
	}

	mag, err := GradientMap(g)
	if err != nil {
		t.Fatalf("GradientMap failed: %v", err)
	}
	if mag.Width != 5 || mag.Height != 3 {
		t.Fatalf("shape = %dx%d, want 5x3", mag.Width, mag.Height)
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			want := 2.0
			if x == 0 || x == 4 {
				want = 0
			}
			if got := mag.At(x, y); got != want {
				t.Errorf("mag(%d,%d) = %g, want %g", x, y, got, want)
			}
		}
	}
}

func TestGradientMap_Diagonal(t *testing.T) {
	// I(x, y) = 3x + 4y: interior gx = 3, gy = 4, magnitude 5.
	g := imaging.NewGray(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			g.Set(x, y, float64(3*x+4*y))
		}
	}

	mag, err := GradientMap(g)
	if err != nil {
		t.Fatalf("GradientMap failed: %v", err)
	}
	if got := mag.At(1, 1); got != 5 {
		t.Errorf("interior magnitude = %g, want 5", got)
	}
	// First row: no vertical neighbor above, so only gx contributes.
	if got := mag.At(1, 0); got != 3 {
		t.Errorf("top row magnitude = %g, want 3", got)
	}
	if got := mag.At(0, 0); got != 0 {
		t.Errorf("corner magnitude = %g, want 0", got)
	}
}

func TestGradientMap_NoInterior(t *testing.T) {
	g := &imaging.Gray{Width: 2, Height: 2, Pix: []float64{0, 255, 255, 0}}

	mag, err := GradientMap(g)
	if err != nil {
		t.Fatalf("GradientMap failed: %v", err)
	}
	for i, v := range mag.Pix {
		if v != 0 {
			t.Errorf("mag[%d] = %g, want 0", i, v)
		}
	}
}

func TestGradientMap_InvalidInput(t *testing.T) {
	if _, err := GradientMap(&imaging.Gray{Width: 3, Height: 3, Pix: make([]float64, 4)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}
