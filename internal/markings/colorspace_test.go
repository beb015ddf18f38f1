package markings

import (
	"image/color"
	"math"
	"testing"
)

func TestSRGBToLab_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    Lab
	}{
		{"black", 0, 0, 0, Lab{0, 0, 0}},
		{"white", 1, 1, 1, Lab{100, 0, 0}},
		{"mid gray", 0.5, 0.5, 0.5, Lab{53.39, 0, 0}},
		{"pure red", 1, 0, 0, Lab{53.24, 80.09, 67.20}},
		{"pure green", 0, 1, 0, Lab{87.73, -86.18, 83.18}},
		{"pure blue", 0, 0, 1, Lab{32.30, 79.19, -107.86}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SRGBToLab(tt.r, tt.g, tt.b)
			if math.Abs(got.L-tt.want.L) > 0.1 ||
				math.Abs(got.A-tt.want.A) > 0.1 ||
				math.Abs(got.B-tt.want.B) > 0.1 {
				t.Errorf("SRGBToLab(%g,%g,%g) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestSRGBToLab_LinearSegment(t *testing.T) {
	// 0.04045 sits on the boundary of the gamma curve; both branches must
	// agree there.
	below := SRGBToLab(0.04045, 0.04045, 0.04045)
	above := SRGBToLab(0.040451, 0.040451, 0.040451)
	if math.Abs(below.L-above.L) > 1e-3 {
		t.Errorf("discontinuity at gamma knee: %g vs %g", below.L, above.L)
	}
}

func TestLabF_Continuous(t *testing.T) {
	lo := labF(labEpsilon)
	hi := labF(labEpsilon + 1e-12)
	if math.Abs(lo-hi) > 1e-6 {
		t.Errorf("labF discontinuous at epsilon: %g vs %g", lo, hi)
	}
}

func TestImageToLab(t *testing.T) {
	img := createSolidImage(4, 3, color.RGBA{255, 0, 0, 255})

	labs := ImageToLab(img)
	if len(labs) != 12 {
		t.Fatalf("len = %d, want 12", len(labs))
	}
	want := SRGBToLab(1, 0, 0)
	for i, l := range labs {
		if l != want {
			t.Fatalf("pixel %d = %+v, want %+v", i, l, want)
		}
	}
}
