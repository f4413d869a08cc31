package rag

import (
	"errors"
	"math"
	"testing"
)

func TestVectorIndexSearchEmpty(t *testing.T) {
	idx := NewVectorIndex()
	if _, err := idx.Search([]float32{1, 0}, 3); !errors.Is(err, ErrIndexEmpty) {
		t.Fatalf("expected ErrIndexEmpty, got %v", err)
	}
}

func TestVectorIndexSelfRetrieval(t *testing.T) {
	idx := NewVectorIndex()
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.7, 0.7, 0},
	}
	for i, vec := range vectors {
		id := ChunkID{DocumentID: "doc_1", Sequence: i}
		if err := idx.Add(id, vec); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}

	matches, err := idx.Search([]float32{0, 2, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].ID.Sequence != 1 {
		t.Fatalf("nearest = %+v, want sequence 1", matches[0])
	}
	if matches[0].Distance > 1e-6 {
		t.Fatalf("self distance = %v, want ~0", matches[0].Distance)
	}
	if matches[1].Distance < matches[0].Distance {
		t.Fatal("matches not in ascending distance order")
	}
}

func TestVectorIndexScaleInvariant(t *testing.T) {
	idx := NewVectorIndex()
	if err := idx.Add(ChunkID{DocumentID: "doc_1", Sequence: 0}, []float32{3, 4}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	matches, err := idx.Search([]float32{0.3, 0.4}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if d := matches[0].Distance; math.Abs(d) > 1e-6 {
		t.Fatalf("distance between scaled copies = %v, want ~0", d)
	}
}

func TestVectorIndexDimensionMismatch(t *testing.T) {
	idx := NewVectorIndex()
	if err := idx.Add(ChunkID{DocumentID: "doc_1", Sequence: 0}, []float32{1, 0, 0}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add(ChunkID{DocumentID: "doc_1", Sequence: 1}, []float32{1, 0}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestVectorIndexRebuild(t *testing.T) {
	idx := NewVectorIndex()
	chunks := []Chunk{
		{ID: ChunkID{DocumentID: "doc_1", Sequence: 0}, Text: "a", Embedding: []float32{1, 0}},
		{ID: ChunkID{DocumentID: "doc_1", Sequence: 1}, Text: "b"},
		{ID: ChunkID{DocumentID: "doc_2", Sequence: 0}, Text: "c", Embedding: []float32{0, 1}},
	}
	if err := idx.Rebuild(chunks); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if idx.Size() != 2 {
		t.Fatalf("Size() = %d, want 2 (chunk without embedding skipped)", idx.Size())
	}

	if err := idx.Rebuild(nil); err != nil {
		t.Fatalf("Rebuild(nil): %v", err)
	}
	if idx.Size() != 0 {
		t.Fatalf("Size() after clear = %d, want 0", idx.Size())
	}
}

func TestVectorIndexRebuildFailureKeepsOldContents(t *testing.T) {
	idx := NewVectorIndex()
	id := ChunkID{DocumentID: "doc_1", Sequence: 0}
	if err := idx.Add(id, []float32{1, 0}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	bad := []Chunk{
		{ID: ChunkID{DocumentID: "doc_2", Sequence: 0}, Text: "a", Embedding: []float32{1, 0, 0}},
		{ID: ChunkID{DocumentID: "doc_2", Sequence: 1}, Text: "b", Embedding: []float32{1, 0}},
	}
	if err := idx.Rebuild(bad); err == nil {
		t.Fatal("expected dimension mismatch error")
	}

	if idx.Size() != 1 {
		t.Fatalf("Size() after failed rebuild = %d, want 1", idx.Size())
	}
	matches, err := idx.Search([]float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search after failed rebuild: %v", err)
	}
	if matches[0].ID != id {
		t.Fatalf("nearest = %+v, want original chunk", matches[0].ID)
	}
}
