package markings

import (
	"fmt"
	"image"
)

// Lab channel ranges used for binning. Values outside a range are clamped
// into it, so every pixel lands in some bin.
var labRanges = [3][2]float64{
	{0, 100},    // L
	{-128, 127}, // a
	{-128, 127}, // b
}

// ColorHistogram builds the Lab color descriptor of img: three density
// histograms of bins bins each, concatenated as [L, a, b].
//
// Each channel segment is a probability density estimate: bin counts are
// divided by pixelCount*binWidth, so sum(segment)*binWidth == 1. The result
// always has length 3*bins.
func ColorHistogram(img image.Image, bins int) ([]float64, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bins must be positive, got %d", ErrInvalidInput, bins)
	}

	labs := ImageToLab(img)
	out := make([]float64, 3*bins)
	for ch := 0; ch < 3; ch++ {
		seg := out[ch*bins : (ch+1)*bins]
		lo, hi := labRanges[ch][0], labRanges[ch][1]
		for _, p := range labs {
			v := p.L
			switch ch {
			case 1:
				v = p.A
			case 2:
				v = p.B
			}
			seg[binIndex(v, lo, hi, bins)]++
		}
		normalizeDensity(seg, float64(len(labs)), (hi-lo)/float64(bins))
	}
	return out, nil
}

// binIndex maps v to one of bins equal-width bins over [lo, hi]. The upper
// edge belongs to the last bin.
func binIndex(v, lo, hi float64, bins int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	i := int((v - lo) / (hi - lo) * float64(bins))
	if i >= bins {
		i = bins - 1
	}
	return i
}

// normalizeDensity turns raw counts into a density. A segment with no mass
// is left all zero.
func normalizeDensity(counts []float64, total, binWidth float64) {
	if total <= 0 || binWidth <= 0 {
		return
	}
	for i := range counts {
		counts[i] /= total * binWidth
	}
}
