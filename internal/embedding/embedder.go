package embedding

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// ErrUnknownBackend is returned by New for a backend name it does not know.
var ErrUnknownBackend = errors.New("unknown embedder backend")

// Backend names accepted by New.
const (
	BackendRandom  = "random"
	BackendPooling = "pooling"
)

// normEpsilon keeps unit normalization finite for an all-zero vector.
const normEpsilon = 1e-9

// Embedder maps a preprocessed image tensor to a unit vector of length Dim.
// Implementations must be safe for concurrent use.
type Embedder interface {
	Embed(t Tensor) ([]float32, error)
	Dim() int
}

// New builds the embedder named by backend. Names are case-insensitive and
// surrounding whitespace is ignored.
func New(backend string, dim int, seed int64) (Embedder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("embedding dimension must be positive, got %d", dim)
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendRandom:
		return NewRandom(dim, seed), nil
	case BackendPooling:
		return NewPooling(dim), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// Random is a placeholder embedder returning unit vectors drawn from a
// seeded source. The tensor content is ignored.
type Random struct {
	dim int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random embedder. Two embedders with the same seed
// produce the same sequence of vectors.
func NewRandom(dim int, seed int64) *Random {
	return &Random{dim: dim, rng: rand.New(rand.NewSource(seed))}
}

// Dim implements Embedder.
func (r *Random) Dim() int { return r.dim }

// Embed implements Embedder.
func (r *Random) Embed(t Tensor) ([]float32, error) {
	v := make([]float64, r.dim)
	r.mu.Lock()
	for i := range v {
		v[i] = r.rng.Float64()
	}
	r.mu.Unlock()
	return unit(v), nil
}

// Pooling is a deterministic, model-free embedder: it splits the flattened
// tensor into Dim contiguous chunks and averages each one. Identical tensors
// always map to identical vectors.
type Pooling struct {
	dim int
}

// NewPooling creates a Pooling embedder.
func NewPooling(dim int) *Pooling {
	return &Pooling{dim: dim}
}

// Dim implements Embedder.
func (p *Pooling) Dim() int { return p.dim }

// Embed implements Embedder.
func (p *Pooling) Embed(t Tensor) ([]float32, error) {
	n := len(t.Data)
	if n == 0 || n != t.Len() {
		return nil, fmt.Errorf("tensor shape %v does not match %d elements", t.Shape, n)
	}
	if n < p.dim {
		return nil, fmt.Errorf("tensor has %d elements, fewer than dimension %d", n, p.dim)
	}

	v := make([]float64, p.dim)
	for i := range v {
		lo := i * n / p.dim
		hi := (i + 1) * n / p.dim
		var sum float64
		for _, x := range t.Data[lo:hi] {
			sum += float64(x)
		}
		v[i] = sum / float64(hi-lo)
	}
	return unit(v), nil
}

// unit scales v to unit L2 norm and converts it to float32.
func unit(v []float64) []float32 {
	floats.Scale(1/(floats.Norm(v, 2)+normEpsilon), v)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
