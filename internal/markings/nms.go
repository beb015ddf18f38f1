package markings

import (
	"image"
	"sort"
)

// Patch is a scored square region of the working image.
type Patch struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"w"`
	Height int     `json:"h"`
	Score  float64 `json:"score"`
}

// Rect returns the patch as an image.Rectangle.
func (p Patch) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Area returns Width*Height.
func (p Patch) Area() int {
	return p.Width * p.Height
}

// IoU returns the intersection-over-union of the rectangles of a and b. Two
// empty rectangles have an IoU of 0.
func IoU(a, b Patch) float64 {
	inter := a.Rect().Intersect(b.Rect())
	ia := 0
	if !inter.Empty() {
		ia = inter.Dx() * inter.Dy()
	}
	union := a.Area() + b.Area() - ia
	if union <= 0 {
		return 0
	}
	return float64(ia) / float64(union)
}

// SuppressOverlaps runs greedy non-max suppression over cands and returns the
// indices of the kept candidates in the order they were kept (descending
// score).
//
// The work list holds indices into cands ordered by descending score, ties
// broken by lower index. Its head is kept, then every remaining entry whose
// IoU with the kept candidate is strictly greater than threshold is dropped.
// This repeats until the work list is empty. cands is not modified.
// DefaultSuppressIoU is the conventional threshold.
func SuppressOverlaps(cands []Patch, threshold float64) []int {
	work := make([]int, len(cands))
	for i := range work {
		work[i] = i
	}
	sort.SliceStable(work, func(i, j int) bool {
		return cands[work[i]].Score > cands[work[j]].Score
	})

	var keep []int
	for len(work) > 0 {
		head := work[0]
		keep = append(keep, head)

		rest := work[:0]
		for _, idx := range work[1:] {
			if IoU(cands[head], cands[idx]) <= threshold {
				rest = append(rest, idx)
			}
		}
		work = rest
	}
	return keep
}
