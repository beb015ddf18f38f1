package markings

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Lab is a CIE L*a*b* triple under the D65 white point.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// D65 reference white.
const (
	whiteX = 0.95047
	whiteY = 1.00000
	whiteZ = 1.08883
)

const (
	labEpsilon = (6.0 / 29.0) * (6.0 / 29.0) * (6.0 / 29.0)
	labKappa   = (29.0 / 3.0) * (29.0 / 3.0) * (29.0 / 3.0) / 3.0
)

// SRGBToLab converts gamma-encoded sRGB components in [0,1] to Lab.
//
// The pipeline is sRGB -> linear RGB -> XYZ -> Lab. Inputs outside [0,1] are
// not clamped and give undefined (but finite) results.
func SRGBToLab(r, g, b float64) Lab {
	lr, lg, lb := colorful.Color{R: r, G: g, B: b}.LinearRgb()
	x, y, z := linearToXYZ(lr, lg, lb)
	return xyzToLab(x, y, z)
}

// linearToXYZ applies the sRGB (D65) to XYZ matrix.
func linearToXYZ(r, g, b float64) (x, y, z float64) {
	x = 0.4124564*r + 0.3575761*g + 0.1804375*b
	y = 0.2126729*r + 0.7151522*g + 0.0721750*b
	z = 0.0193339*r + 0.1191920*g + 0.9503041*b
	return x, y, z
}

func xyzToLab(x, y, z float64) Lab {
	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)
	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return labKappa*t + 4.0/29.0
}

// ImageToLab converts every pixel of img to Lab, row-major. Alpha is
// dropped without premultiplying.
func ImageToLab(img image.Image) []Lab {
	b := img.Bounds()
	out := make([]Lab, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out = append(out, SRGBToLab(
				float64(c.R)/255.0,
				float64(c.G)/255.0,
				float64(c.B)/255.0,
			))
		}
	}
	return out
}
