package markings

import (
	"encoding/binary"
	"fmt"
	"image"
	"math/cmplx"
	"sort"
	"strconv"

	"github.com/corona10/goimagehash"
	"github.com/ironsheep/markings-mcp/internal/imaging"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	hashSize    = 32
	hashLowFreq = 8
)

// Fingerprint is a 64-bit perceptual hash. Bit 63 corresponds to the
// top-left low-frequency coefficient, bit 0 to the bottom-right one.
type Fingerprint uint64

// Bytes returns the fingerprint packed big-endian into 8 bytes.
func (f Fingerprint) Bytes() []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(f))
	return out
}

// Hex returns the fingerprint as 16 lowercase hex digits.
func (f Fingerprint) Hex() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Distance returns the Hamming distance between two fingerprints.
func (f Fingerprint) Distance(other Fingerprint) int {
	a := goimagehash.NewImageHash(uint64(f), goimagehash.PHash)
	b := goimagehash.NewImageHash(uint64(other), goimagehash.PHash)
	// Both hashes share a kind, so Distance cannot fail.
	d, _ := a.Distance(b)
	return d
}

// ParseFingerprint decodes the 8-byte big-endian form produced by Bytes.
func ParseFingerprint(b []byte) (Fingerprint, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: fingerprint must be 8 bytes, got %d", ErrInvalidInput, len(b))
	}
	return Fingerprint(binary.BigEndian.Uint64(b)), nil
}

// ParseFingerprintHex decodes the form produced by Hex.
func ParseFingerprintHex(s string) (Fingerprint, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: fingerprint hex %q: %v", ErrInvalidInput, s, err)
	}
	return Fingerprint(v), nil
}

// Fingerprint64 computes the perceptual hash of img.
//
// # Algorithm
//
//  1. Luminance conversion, then box resampling to 32x32.
//  2. 2-D discrete Fourier transform of the grid, magnitudes only.
//  3. The top-left 8x8 block of magnitudes is kept; its DC term is replaced
//     by the median of the block.
//  4. Each of the 64 values yields a 1 bit when strictly greater than the
//     block median (taken after the DC replacement), scanned row-major and
//     packed most-significant bit first.
func Fingerprint64(img image.Image) (Fingerprint, error) {
	if err := checkImage(img); err != nil {
		return 0, err
	}

	small := imaging.ToGray(imaging.Resize(imaging.ToGray(img).Image(), hashSize, hashSize))
	mag := dftMagnitude(small)

	low := make([]float64, 0, hashLowFreq*hashLowFreq)
	for v := 0; v < hashLowFreq; v++ {
		low = append(low, mag[v*hashSize:v*hashSize+hashLowFreq]...)
	}
	low[0] = median(low)
	m := median(low)

	var out uint64
	for _, c := range low {
		out <<= 1
		if c > m {
			out |= 1
		}
	}
	return Fingerprint(out), nil
}

// dftMagnitude returns |F(u,v)| of the 2-D DFT of g, row-major in g's shape.
// The transform runs as 1-D FFTs over rows and then over columns.
func dftMagnitude(g *imaging.Gray) []float64 {
	w, h := g.Width, g.Height
	grid := make([]complex128, w*h)
	for i, v := range g.Pix {
		grid[i] = complex(v, 0)
	}

	rowFFT := fourier.NewCmplxFFT(w)
	row := make([]complex128, w)
	for y := 0; y < h; y++ {
		rowFFT.Coefficients(row, grid[y*w:(y+1)*w])
		copy(grid[y*w:], row)
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	out := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = grid[y*w+x]
		}
		colFFT.Coefficients(out, col)
		for y := 0; y < h; y++ {
			grid[y*w+x] = out[y]
		}
	}

	mag := make([]float64, w*h)
	for i, c := range grid {
		mag[i] = cmplx.Abs(c)
	}
	return mag
}

// median returns the median of vals, averaging the two middle elements for
// even lengths. vals is not modified.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
