package markings

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestFingerprint64_Deterministic(t *testing.T) {
	img := createCoatImage(200, 150, 7)

	a, err := Fingerprint64(img)
	if err != nil {
		t.Fatalf("Fingerprint64 failed: %v", err)
	}
	b, err := Fingerprint64(img)
	if err != nil {
		t.Fatalf("Fingerprint64 failed: %v", err)
	}
	if a != b {
		t.Errorf("fingerprint not deterministic: %s vs %s", a.Hex(), b.Hex())
	}
}

func TestFingerprint64_DifferentCoats(t *testing.T) {
	a, _ := Fingerprint64(createCoatImage(256, 256, 1))
	b, _ := Fingerprint64(createCoatImage(256, 256, 99))
	if a == b {
		t.Errorf("different coat patterns produced the same fingerprint %s", a.Hex())
	}
}

func TestFingerprint64_NearInvariance(t *testing.T) {
	base := createCoatImage(256, 256, 3)
	fp, err := Fingerprint64(base)
	if err != nil {
		t.Fatalf("Fingerprint64 failed: %v", err)
	}

	speckled := image.NewRGBA(base.Bounds())
	copy(speckled.Pix, base.Pix)
	speckled.Set(101, 77, color.RGBA{255, 255, 255, 255})

	tests := []struct {
		name string
		img  image.Image
	}{
		{"single pixel speckle", speckled},
		{"one pixel shift", shiftImage(base, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fingerprint64(tt.img)
			if err != nil {
				t.Fatalf("Fingerprint64 failed: %v", err)
			}
			if d := fp.Distance(got); d >= 10 {
				t.Errorf("distance = %d, want < 10", d)
			}
		})
	}
}

func TestFingerprint64_ResizeInvariance(t *testing.T) {
	// Both sizes downsample to the same 32x32 grid: blocks are uniform at
	// either scale.
	small := createSquareImage(64, 64, image.Rect(16, 16, 48, 48))
	large := createSquareImage(256, 256, image.Rect(64, 64, 192, 192))

	a, _ := Fingerprint64(small)
	b, _ := Fingerprint64(large)
	if d := a.Distance(b); d > 4 {
		t.Errorf("distance between scaled copies = %d, want <= 4", d)
	}
}

func TestFingerprint64_InvalidInput(t *testing.T) {
	empty := image.NewRGBA(image.Rect(0, 0, 0, 10))
	if _, err := Fingerprint64(empty); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero-width image: got %v, want ErrInvalidInput", err)
	}
	if _, err := Fingerprint64(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil image: got %v, want ErrInvalidInput", err)
	}
}

func TestFingerprint_Bytes(t *testing.T) {
	fp := Fingerprint(0x0102030405060708)

	got := fp.Bytes()
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %v, want %v", got, want)
	}

	back, err := ParseFingerprint(got)
	if err != nil {
		t.Fatalf("ParseFingerprint failed: %v", err)
	}
	if back != fp {
		t.Errorf("ParseFingerprint = %s, want %s", back.Hex(), fp.Hex())
	}

	if _, err := ParseFingerprint([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("short input: got %v, want ErrInvalidInput", err)
	}
}

func TestFingerprint_Hex(t *testing.T) {
	fp := Fingerprint(0xab)
	if got := fp.Hex(); got != "00000000000000ab" {
		t.Errorf("Hex() = %s, want 00000000000000ab", got)
	}
	back, err := ParseFingerprintHex(fp.Hex())
	if err != nil || back != fp {
		t.Errorf("ParseFingerprintHex = %v, %v; want %v", back, err, fp)
	}
	if _, err := ParseFingerprintHex("not-hex"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad hex: got %v, want ErrInvalidInput", err)
	}
}

func TestFingerprint_Distance(t *testing.T) {
	tests := []struct {
		name string
		a, b Fingerprint
		want int
	}{
		{"identical", 0xdeadbeef, 0xdeadbeef, 0},
		{"one byte", 0x00, 0xff, 8},
		{"all bits", 0, ^Fingerprint(0), 64},
		{"msb only", 1 << 63, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Distance(tt.b); got != tt.want {
				t.Errorf("Distance = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.in); got != tt.want {
				t.Errorf("median(%v) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
}

func TestDFTMagnitude_DC(t *testing.T) {
	g := createSolidImage(8, 8, color.Gray{Y: 10})
	mag := dftMagnitude(grayOf(g))
	// DC of a constant grid is the sum of its samples.
	if d := mag[0] - 640; d > 1e-9 || d < -1e-9 {
		t.Errorf("DC magnitude = %g, want 640", mag[0])
	}
	for i := 1; i < len(mag); i++ {
		if mag[i] > 1e-9 {
			t.Fatalf("non-DC magnitude %d = %g, want 0", i, mag[i])
		}
	}
}
