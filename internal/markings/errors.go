package markings

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidInput reports an image or grid the engine cannot process: a zero
// dimension, a sample count that does not match the declared shape, or a
// configuration value out of range.
var ErrInvalidInput = errors.New("invalid input")

func checkImage(img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: image is nil", ErrInvalidInput)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("%w: image is %dx%d", ErrInvalidInput, b.Dx(), b.Dy())
	}
	return nil
}
