package embedding

import (
	"fmt"
	"image"

	"github.com/ironsheep/markings-mcp/internal/imaging"
)

// DefaultInputSize is the side of the square tensor fed to embedders.
const DefaultInputSize = 224

// Tensor is a dense float32 tensor in NCHW layout.
type Tensor struct {
	Shape [4]int
	Data  []float32
}

// Len returns the number of elements the shape describes.
func (t Tensor) Len() int {
	return t.Shape[0] * t.Shape[1] * t.Shape[2] * t.Shape[3]
}

// Preprocess resizes img to size x size and converts it to a 1x3xHxW tensor
// with every channel mapped from [0,255] to [-1,1] via (x/255 - 0.5) / 0.5.
func Preprocess(img image.Image, size int) (Tensor, error) {
	if img == nil {
		return Tensor{}, fmt.Errorf("preprocess: image is nil")
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return Tensor{}, fmt.Errorf("preprocess: image is %dx%d", b.Dx(), b.Dy())
	}
	if size <= 0 {
		return Tensor{}, fmt.Errorf("preprocess: size must be positive, got %d", size)
	}

	resized := imaging.Resize(img, size, size)
	plane := size * size
	t := Tensor{
		Shape: [4]int{1, 3, size, size},
		Data:  make([]float32, 3*plane),
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := resized.NRGBAAt(x, y)
			i := y*size + x
			t.Data[i] = normalizeSample(c.R)
			t.Data[plane+i] = normalizeSample(c.G)
			t.Data[2*plane+i] = normalizeSample(c.B)
		}
	}
	return t, nil
}

func normalizeSample(v uint8) float32 {
	return (float32(v)/255.0 - 0.5) / 0.5
}
