package rag

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Match is a vector search hit. Distance is L2 over normalized vectors, so
// smaller means more similar and the ordering is equivalent to cosine.
type Match struct {
	ID       ChunkID
	Distance float64
}

// VectorIndex is a flat exact nearest-neighbor index over chunk embeddings.
// Corpus sizes here (hundreds to low thousands of chunks) do not justify an
// approximate index; the contract allows swapping one in later. Vectors are
// L2-normalized on insert so retrieval is scale-invariant to embedding
// magnitude.
type VectorIndex struct {
	mu      sync.RWMutex
	dim     int
	ids     []ChunkID
	vectors [][]float32
}

// NewVectorIndex creates an empty index. The dimension is fixed by the first
// Add.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Add inserts a normalized copy of vec for the given chunk.
func (x *VectorIndex) Add(id ChunkID, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector for chunk %v", id)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.dim == 0 {
		x.dim = len(vec)
	} else if len(vec) != x.dim {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vec), x.dim)
	}
	x.ids = append(x.ids, id)
	x.vectors = append(x.vectors, normalize(vec))
	return nil
}

// Search returns the k nearest chunks to query by L2 distance, nearest
// first, ties broken by insertion order. Fails with ErrIndexEmpty when
// nothing has been indexed.
func (x *VectorIndex) Search(query []float32, k int) ([]Match, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if len(x.vectors) == 0 {
		return nil, ErrIndexEmpty
	}
	if k <= 0 {
		k = 5
	}

	q := normalize(query)
	matches := make([]Match, len(x.vectors))
	for i, v := range x.vectors {
		matches[i] = Match{ID: x.ids[i], Distance: l2Distance(q, v)}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// Size returns the number of indexed entries.
func (x *VectorIndex) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Rebuild replaces the index contents wholesale with the embedded chunks in
// the given slice; chunks without embeddings are skipped. Rebuild(nil)
// clears the index. The new contents are staged first and swapped in under
// one lock, so concurrent readers see either the old index or the new one,
// never a partial build; on error the old contents are kept.
func (x *VectorIndex) Rebuild(chunks []Chunk) error {
	var (
		dim     int
		ids     []ChunkID
		vectors [][]float32
	)
	for _, c := range chunks {
		if c.Embedding == nil {
			continue
		}
		if len(c.Embedding) == 0 {
			return fmt.Errorf("empty vector for chunk %v", c.ID)
		}
		if dim == 0 {
			dim = len(c.Embedding)
		} else if len(c.Embedding) != dim {
			return fmt.Errorf("vector dimension %d does not match index dimension %d", len(c.Embedding), dim)
		}
		ids = append(ids, c.ID)
		vectors = append(vectors, normalize(c.Embedding))
	}

	x.mu.Lock()
	x.dim = dim
	x.ids = ids
	x.vectors = vectors
	x.mu.Unlock()
	return nil
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(vec))
	if norm == 0 {
		copy(out, vec)
		return out
	}
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func l2Distance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
