package markings

import "fmt"

// Defaults used by the analysis pipeline.
const (
	DefaultBins         = 16
	DefaultWindow       = 64
	DefaultStride       = 32
	DefaultK            = 5
	DefaultWorkingSize  = 256
	DefaultIoUThreshold = 0.4

	// DefaultSuppressIoU is the overlap threshold SuppressOverlaps is
	// documented with. The patch selector does not use it: it passes
	// Config.IoUThreshold (0.4 by default) explicitly.
	DefaultSuppressIoU = 0.3
)

// Config carries the caller-supplied knobs of the engine. The engine never
// reads configuration on its own.
type Config struct {
	// Bins is the number of bins per Lab channel in the color histogram.
	Bins int `json:"bins"`

	// Window is the side of the square patch window in working-image pixels.
	Window int `json:"window"`

	// Stride is the step between window positions on both axes.
	Stride int `json:"stride"`

	// K is the maximum number of patches returned.
	K int `json:"k"`

	// IoUThreshold discards a candidate whose overlap with an already kept
	// patch is strictly greater than this value.
	IoUThreshold float64 `json:"iou_threshold"`

	// WorkingSize is the length of the shorter side after the patch
	// selector resizes the photo.
	WorkingSize int `json:"working_size"`
}

// DefaultConfig returns the configuration the analyze pipeline runs with.
func DefaultConfig() Config {
	return Config{
		Bins:         DefaultBins,
		Window:       DefaultWindow,
		Stride:       DefaultStride,
		K:            DefaultK,
		IoUThreshold: DefaultIoUThreshold,
		WorkingSize:  DefaultWorkingSize,
	}
}

// Validate reports the first out-of-range field, wrapped in ErrInvalidInput.
func (c Config) Validate() error {
	switch {
	case c.Bins <= 0:
		return fmt.Errorf("%w: bins must be positive, got %d", ErrInvalidInput, c.Bins)
	case c.Window <= 0:
		return fmt.Errorf("%w: window must be positive, got %d", ErrInvalidInput, c.Window)
	case c.Stride <= 0:
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidInput, c.Stride)
	case c.K < 0:
		return fmt.Errorf("%w: k must not be negative, got %d", ErrInvalidInput, c.K)
	case c.IoUThreshold < 0 || c.IoUThreshold > 1:
		return fmt.Errorf("%w: iou threshold must be in [0,1], got %g", ErrInvalidInput, c.IoUThreshold)
	case c.WorkingSize <= 0:
		return fmt.Errorf("%w: working size must be positive, got %d", ErrInvalidInput, c.WorkingSize)
	}
	return nil
}
