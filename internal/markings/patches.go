package markings

import (
	"container/heap"
	"image"

	"github.com/ironsheep/markings-mcp/internal/imaging"
)

// minRetained is the floor on how many top-scoring windows survive into
// suppression.
const minRetained = 50

// SelectPatches finds up to cfg.K distinctive, mostly non-overlapping square
// patches in img.
//
// # Algorithm
//
//  1. The photo is resized so its shorter side equals cfg.WorkingSize.
//  2. Luminance and gradient magnitude are computed on the working image.
//  3. A cfg.Window square window slides by cfg.Stride on both axes; each
//     position is scored by the mean gradient magnitude inside it.
//  4. The max(50, 5*K) best windows are retained, ties going to the earlier
//     scan position.
//  5. Greedy non-max suppression at cfg.IoUThreshold runs over them and
//     the first K survivors are returned.
//
// Patch rectangles are in working-image coordinates. A working image smaller
// than the window produces no windows; the result is then an empty slice and
// no error. A flat photo still yields up to K windows, all scored 0.
func SelectPatches(img image.Image, cfg Config) ([]Patch, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	working := imaging.ResizeShortSide(img, cfg.WorkingSize)
	return SelectPatchesGray(imaging.ToGray(working), cfg)
}

// SelectPatchesGray runs steps 2-5 of SelectPatches on an already resized
// luminance grid.
func SelectPatchesGray(g *imaging.Gray, cfg Config) ([]Patch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mag, err := GradientMap(g)
	if err != nil {
		return nil, err
	}

	cands := topWindows(mag, cfg.Window, cfg.Stride, retainCount(cfg.K))
	if len(cands) == 0 {
		return []Patch{}, nil
	}

	keep := SuppressOverlaps(cands, cfg.IoUThreshold)
	if len(keep) > cfg.K {
		keep = keep[:cfg.K]
	}

	out := make([]Patch, 0, len(keep))
	for _, idx := range keep {
		out = append(out, cands[idx])
	}
	return out, nil
}

func retainCount(k int) int {
	if n := 5 * k; n > minRetained {
		return n
	}
	return minRetained
}

// topWindows scores every window position on the stride grid and returns
// the n highest-scoring ones, best first. Every position is a candidate,
// flat ones included.
func topWindows(mag *imaging.Gray, win, stride, n int) []Patch {
	if mag.Width < win || mag.Height < win {
		return nil
	}

	h := &patchHeap{}
	seq := 0
	for y := 0; y+win <= mag.Height; y += stride {
		for x := 0; x+win <= mag.Width; x += stride {
			p := scoredWindow{
				Patch: Patch{X: x, Y: y, Width: win, Height: win, Score: windowMean(mag, x, y, win)},
				seq:   seq,
			}
			seq++
			if h.Len() < n {
				heap.Push(h, p)
			} else if p.better((*h)[0]) {
				(*h)[0] = p
				heap.Fix(h, 0)
			}
		}
	}

	out := make([]Patch, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(scoredWindow).Patch
	}
	return out
}

// windowMean averages the win x win block of mag at (x, y). Summing the
// block directly keeps a window of zeros at exactly zero wherever it sits.
func windowMean(mag *imaging.Gray, x, y, win int) float64 {
	var sum float64
	for row := y; row < y+win; row++ {
		for _, v := range mag.Pix[row*mag.Width+x : row*mag.Width+x+win] {
			sum += v
		}
	}
	return sum / float64(win*win)
}

// scoredWindow orders windows by score, earlier scan position first on ties.
type scoredWindow struct {
	Patch
	seq int
}

func (a scoredWindow) better(b scoredWindow) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.seq < b.seq
}

// patchHeap is a min-heap: the root is the worst retained window.
type patchHeap []scoredWindow

func (h patchHeap) Len() int            { return len(h) }
func (h patchHeap) Less(i, j int) bool  { return h[j].better(h[i]) }
func (h patchHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *patchHeap) Push(x interface{}) { *h = append(*h, x.(scoredWindow)) }
func (h *patchHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
