package embedding

import (
	"fmt"
	"image"

	"github.com/ironsheep/markings-mcp/internal/imaging"
	"github.com/ironsheep/markings-mcp/internal/markings"
)

// EmbedPatches crops every patch out of working (the image the patch
// coordinates refer to), preprocesses it to size x size and embeds it. The
// result holds one vector per patch, in patch order. Nothing is returned if
// any patch fails.
func EmbedPatches(e Embedder, working image.Image, patches []markings.Patch, size int) ([][]float32, error) {
	out := make([][]float32, 0, len(patches))
	for i, p := range patches {
		crop, err := imaging.Crop(working, p.Rect().Add(working.Bounds().Min))
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		t, err := Preprocess(crop, size)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		vec, err := e.Embed(t)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		out = append(out, vec)
	}
	return out, nil
}
