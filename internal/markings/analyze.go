package markings

import (
	"image"

	"github.com/ironsheep/markings-mcp/internal/imaging"
)

// Analysis bundles every descriptor the engine produces for one photo.
type Analysis struct {
	Fingerprint      Fingerprint `json:"fingerprint"`
	ColorHistogram   []float64   `json:"color_histogram"`
	TextureHistogram []float64   `json:"texture_histogram"`
	Patches          []Patch     `json:"patches"`

	// WorkingWidth and WorkingHeight give the size of the resized image that
	// patch coordinates refer to.
	WorkingWidth  int `json:"working_width"`
	WorkingHeight int `json:"working_height"`

	// Working is the resized image the patches were found on. Callers crop
	// patches from it rather than resizing the photo again.
	Working *image.NRGBA `json:"-"`
}

// Analyze runs the whole pipeline on img.
//
// The fingerprint and the color histogram read the photo as given; the
// texture histogram is computed on its full-resolution luminance; patches are
// searched on the working-size image. Either every descriptor is returned or
// an error is.
func Analyze(img image.Image, cfg Config) (*Analysis, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fp, err := Fingerprint64(img)
	if err != nil {
		return nil, err
	}
	colorHist, err := ColorHistogram(img, cfg.Bins)
	if err != nil {
		return nil, err
	}
	texture, err := TextureHistogram(imaging.ToGray(img))
	if err != nil {
		return nil, err
	}

	working := imaging.ResizeShortSide(img, cfg.WorkingSize)
	patches, err := SelectPatchesGray(imaging.ToGray(working), cfg)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Fingerprint:      fp,
		ColorHistogram:   colorHist,
		TextureHistogram: texture,
		Patches:          patches,
		WorkingWidth:     working.Bounds().Dx(),
		WorkingHeight:    working.Bounds().Dy(),
		Working:          working,
	}, nil
}
