package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrEmptyImage is returned when image data is empty or decodes to an image
// with zero width or height.
var ErrEmptyImage = errors.New("empty image")

// PhotoCache keeps decoded pet photos in memory, keyed by file path, so that
// several analysis tools run against the same photo decode it only once.
//
// PhotoCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached photos stay in memory until Evict or Clear is called. A server that
// sees many distinct photos should evict the ones it is done with.
//
// # Example Usage
//
//	cache := imaging.NewPhotoCache()
//	img, err := cache.Load("/photos/rex.jpg")
//	if err != nil {
//	    return err
//	}
//	fp, err := markings.Fingerprint64(img)
//	cache.Evict("/photos/rex.jpg")
type PhotoCache struct {
	mu     sync.RWMutex
	photos map[string]image.Image
}

// NewPhotoCache creates an empty photo cache.
func NewPhotoCache() *PhotoCache {
	return &PhotoCache{
		photos: make(map[string]image.Image),
	}
}

// Load returns the decoded photo at path, reading it from disk on first use.
//
// Parameters:
//   - path: Absolute or relative file path. Supported formats are PNG, JPEG,
//     GIF, WebP, BMP and TIFF.
//
// Returns:
//   - image.Image: The decoded photo. The concrete type depends on the format
//     (e.g., *image.RGBA, *image.NRGBA, *image.YCbCr).
//   - error: Non-nil if the file cannot be read or decoded.
//
// The exact path string is the cache key: a relative and an absolute path to
// the same file are cached separately. Failed loads are not cached.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error wrapping ErrEmptyImage if the file is empty or decodes to
//     a zero-size image
//   - Returns error if the bytes are not in a supported format
func (c *PhotoCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.photos[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}

	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.photos[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len reports how many photos are cached.
func (c *PhotoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.photos)
}

// Clear drops every cached photo.
func (c *PhotoCache) Clear() {
	c.mu.Lock()
	c.photos = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict drops the photo cached under path. Unknown paths are ignored.
func (c *PhotoCache) Evict(path string) {
	c.mu.Lock()
	delete(c.photos, path)
	c.mu.Unlock()
}

// Decode decodes PNG, JPEG, GIF, WebP, BMP or TIFF bytes into an image.
//
// Parameters:
//   - data: Encoded image bytes. The format is sniffed from the content.
//
// Returns:
//   - image.Image: The decoded image, at least 1x1.
//   - error: Non-nil if data is empty, unrecognized or degenerate.
//
// # Errors
//
//   - Returns error wrapping ErrEmptyImage for empty input or an image with a
//     zero dimension, so nothing downstream ever sees a degenerate grid
//   - Returns error if the format is unknown or the data is corrupt
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode photo: %w", ErrEmptyImage)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("failed to decode photo: %w", ErrEmptyImage)
	}
	return img, nil
}

// PhotoInfo describes a photo file as seen by the analysis tools.
type PhotoInfo struct {
	// Width is the photo width in pixels.
	Width int `json:"width"`

	// Height is the photo height in pixels.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif", "webp", "bmp", "tiff" or "unknown",
	// taken from the file extension.
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha reports whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadPhotoInfo loads the photo at path through cache and reports its metadata.
//
// Parameters:
//   - cache: Cache used to load (and keep) the decoded photo.
//   - path: File path to the photo.
//
// Returns:
//   - *PhotoInfo: Dimensions, format, color depth, alpha and file size.
//   - error: Non-nil if the photo cannot be loaded or the file cannot be
//     stat'ed.
//
// Format detection uses the file extension; color depth and alpha come from
// the concrete image type produced by the decoder.
func LoadPhotoInfo(cache *PhotoCache, path string) (*PhotoInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".webp":
		format = "webp"
	case ".bmp":
		format = "bmp"
	case ".tif", ".tiff":
		format = "tiff"
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	return &PhotoInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
