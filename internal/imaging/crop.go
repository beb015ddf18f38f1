package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// ErrInvalidScale is returned by CropPNG for a scale that is not positive or
// that shrinks the region below one pixel.
var ErrInvalidScale = errors.New("invalid scale")

// CropResult contains a cropped region encoded as base64 PNG.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts rect from img. The rectangle is in the image's own
// coordinate space and must lie fully inside its bounds.
func Crop(img image.Image, rect image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if rect.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: width and height must be positive", rect)
	}
	if !rect.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", rect, bounds)
	}
	return imaging.Crop(img, rect), nil
}

// CropPNG crops rect from img, optionally rescales it, and returns the
// region as base64-encoded PNG.
//
// Parameters:
//   - img: Source image. rect is in its coordinate space.
//   - rect: Region to extract. Must be non-empty and fully inside img.
//   - scale: Resize factor applied after cropping (1.0 keeps the native
//     size). Scaling uses a Lanczos filter.
//
// Returns:
//   - *CropResult: Final width and height plus the PNG bytes in base64.
//   - error: Non-nil if the region or scale is invalid or encoding fails.
//
// # Errors
//
//   - Returns error if rect is empty or not inside the image bounds
//   - Returns ErrInvalidScale if scale <= 0 or the scaled region would be
//     smaller than one pixel on either side
func CropPNG(img image.Image, rect image.Rectangle, scale float64) (*CropResult, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("%w: %g must be positive", ErrInvalidScale, scale)
	}
	cropped, err := Crop(img, rect)
	if err != nil {
		return nil, err
	}

	if scale != 1.0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("%w: %g shrinks %dx%d region to nothing",
				ErrInvalidScale, scale, cropped.Bounds().Dx(), cropped.Bounds().Dy())
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
