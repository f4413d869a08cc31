package rag

import (
	"context"
	"strings"
	"testing"
)

func TestRetrieveLexicalHonorsRequestedK(t *testing.T) {
	store := NewStore(StoreConfig{ChunkSize: 30, MinTextLen: MinTextLength})
	text := strings.Repeat("alpha topic notes entry ", 20)
	if _, _, err := store.Ingest(int64(len(text)), "notes.txt", text); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if store.ChunkCount() < 8 {
		t.Fatalf("need several chunks for this test, got %d", store.ChunkCount())
	}

	r := NewRetriever(store, NewVectorIndex(), NewLexicalRanker(), nil)
	got := r.Retrieve(context.Background(), "alpha topic", 2)
	if len(got) != 2 {
		t.Fatalf("Retrieve(k=2) returned %d chunks, want 2", len(got))
	}

	got = r.Retrieve(context.Background(), "alpha topic", 0)
	if len(got) != 5 {
		t.Fatalf("Retrieve(k=0) returned %d chunks, want the default 5", len(got))
	}
}
