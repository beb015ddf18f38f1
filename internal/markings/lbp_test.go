package markings

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/markings-mcp/internal/imaging"
)

func gridFrom(width, height int, vals ...float64) *imaging.Gray {
	return &imaging.Gray{Width: width, Height: height, Pix: vals}
}

func TestLBPCodes_CenterPixel(t *testing.T) {
	// Clockwise from the top: 2 3 4 9 6 7 8 1 against center 5 gives
	// bits 0 0 0 1 1 1 1 0.
	g := gridFrom(3, 3,
		1, 2, 3,
		8, 5, 4,
		7, 6, 9,
	)

	codes, err := LBPCodes(g)
	if err != nil {
		t.Fatalf("LBPCodes failed: %v", err)
	}
	if got := codes[4]; got != 0x1E {
		t.Errorf("center code = %08b, want 00011110", got)
	}
}

func TestLBPCodes_EqualNeighborsSetBits(t *testing.T) {
	g := gridFrom(2, 2, 7, 7, 7, 7)

	codes, err := LBPCodes(g)
	if err != nil {
		t.Fatalf("LBPCodes failed: %v", err)
	}
	for i, c := range codes {
		if c != 0xFF {
			t.Errorf("code %d = %08b, want 11111111", i, c)
		}
	}
}

func TestLBPCodes_EdgeReplication(t *testing.T) {
	// Single pixel: every neighbor is the pixel itself.
	codes, err := LBPCodes(gridFrom(1, 1, 42))
	if err != nil {
		t.Fatalf("LBPCodes failed: %v", err)
	}
	if codes[0] != 0xFF {
		t.Errorf("code = %08b, want 11111111", codes[0])
	}

	// Top-left of a ramp: up, up-left and left replicate the center, the
	// others are brighter.
	g := gridFrom(2, 2,
		0, 1,
		1, 2,
	)
	codes, err = LBPCodes(g)
	if err != nil {
		t.Fatalf("LBPCodes failed: %v", err)
	}
	if codes[0] != 0xFF {
		t.Errorf("top-left code = %08b, want 11111111", codes[0])
	}
	// Bottom-right (2): only down, down-right and right replicate it.
	// Bits: up(1)=0 up-right(1)=0 right(2)=1 down-right(2)=1 down(2)=1
	// down-left(1)=0 left(1)=0 up-left(0)=0.
	if codes[3] != 0x38 {
		t.Errorf("bottom-right code = %08b, want 00111000", codes[3])
	}
}

func TestTextureHistogram_UniformImage(t *testing.T) {
	img := createSolidImage(64, 64, color.RGBA{128, 128, 128, 255})

	hist, err := TextureHistogram(grayOf(img))
	if err != nil {
		t.Fatalf("TextureHistogram failed: %v", err)
	}
	if len(hist) != TextureBins {
		t.Fatalf("len = %d, want %d", len(hist), TextureBins)
	}
	if hist[255] != 1 {
		t.Errorf("hist[255] = %g, want 1", hist[255])
	}
}

func TestTextureHistogram_Mass(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		hist, err := TextureHistogram(grayOf(createCoatImage(97, 61, seed)))
		if err != nil {
			t.Fatalf("TextureHistogram failed: %v", err)
		}
		if len(hist) != TextureBins {
			t.Fatalf("len = %d, want %d", len(hist), TextureBins)
		}
		var sum float64
		for _, v := range hist {
			if v < 0 {
				t.Fatalf("negative bin %g", v)
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-4 {
			t.Errorf("seed %d: mass = %g, want 1", seed, sum)
		}
	}
}

func TestTextureHistogram_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		g    *imaging.Gray
	}{
		{"nil grid", nil},
		{"zero width", &imaging.Gray{Width: 0, Height: 3}},
		{"three channels", &imaging.Gray{Width: 2, Height: 2, Pix: make([]float64, 12)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := TextureHistogram(tt.g); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}
