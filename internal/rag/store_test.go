package rag

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

const sampleText = "Room is a multilingual AI assistant that answers questions about uploaded documents. " +
	"It supports English and Hindi and falls back to keyword search when no model is configured."

func newTestStore() *Store {
	return NewStore(StoreConfig{ChunkSize: 80, MinTextLen: MinTextLength})
}

func TestStoreIngestAssignsSequentialIDs(t *testing.T) {
	store := newTestStore()

	doc1, chunks1, err := store.Ingest(100, "first.txt", sampleText)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	doc2, _, err := store.Ingest(200, "second.txt", sampleText)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if doc1.ID != "doc_1" || doc2.ID != "doc_2" {
		t.Fatalf("ids = %q, %q; want doc_1, doc_2", doc1.ID, doc2.ID)
	}
	if len(chunks1) == 0 {
		t.Fatal("first document produced no chunks")
	}
	for i, c := range chunks1 {
		if c.ID.DocumentID != doc1.ID || c.ID.Sequence != i {
			t.Fatalf("chunk %d has id %+v", i, c.ID)
		}
	}
	if store.DocumentCount() != 2 {
		t.Fatalf("DocumentCount() = %d, want 2", store.DocumentCount())
	}
}

func TestStoreRejectsTooLittleText(t *testing.T) {
	store := newTestStore()
	_, _, err := store.Ingest(10, "scan.pdf", "short scan")
	if !errors.Is(err, ErrTooLittleText) {
		t.Fatalf("err = %v, want ErrTooLittleText", err)
	}
	if store.DocumentCount() != 0 {
		t.Fatal("rejected document was stored")
	}
}

func TestStoreClearKeepsIDNumbering(t *testing.T) {
	store := newTestStore()
	if _, _, err := store.Ingest(100, "a.txt", sampleText); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	store.Clear()
	if store.DocumentCount() != 0 || store.ChunkCount() != 0 {
		t.Fatal("Clear left state behind")
	}

	doc, _, err := store.Ingest(100, "b.txt", sampleText)
	if err != nil {
		t.Fatalf("Ingest after Clear: %v", err)
	}
	if doc.ID != "doc_2" {
		t.Fatalf("id after Clear = %q, want doc_2 (ids are never reused)", doc.ID)
	}
}

func TestStoreSummariesCarryPreviews(t *testing.T) {
	store := newTestStore()
	if _, _, err := store.Ingest(int64(len(sampleText)), "room.txt", sampleText); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	summaries := store.DocumentSummaries()
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	s := summaries[0]
	if s.Filename != "room.txt" || s.ChunkCount == 0 {
		t.Fatalf("summary = %+v", s)
	}
	if !strings.HasSuffix(s.Preview, "...") {
		t.Fatalf("preview not truncated: %q", s.Preview)
	}
	if len(s.Preview) != 103 {
		t.Fatalf("preview length = %d, want 100 chars plus ellipsis", len(s.Preview))
	}
}

func TestStoreSnapshotRoundTrip(t *testing.T) {
	store := newTestStore()
	doc, chunks, err := store.Ingest(100, "a.txt", sampleText)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{float32(i), 1}
	}
	if err := store.AttachEmbeddings(doc.ID, vectors); err != nil {
		t.Fatalf("AttachEmbeddings: %v", err)
	}

	restored := newTestStore()
	restored.Restore(store.Snapshot())

	if restored.DocumentCount() != 1 || restored.ChunkCount() != len(chunks) {
		t.Fatalf("restored counts: %d docs, %d chunks", restored.DocumentCount(), restored.ChunkCount())
	}
	got, ok := restored.Chunk(chunks[0].ID)
	if !ok {
		t.Fatal("chunk lookup failed after restore")
	}
	if got.Text != chunks[0].Text || len(got.Embedding) != 2 {
		t.Fatalf("restored chunk = %+v", got)
	}

	next, _, err := restored.Ingest(100, "b.txt", sampleText)
	if err != nil {
		t.Fatalf("Ingest after restore: %v", err)
	}
	if next.ID != "doc_2" {
		t.Fatalf("id after restore = %q, want doc_2", next.ID)
	}
}

func TestStorePreviewKeepsMultibyteTextValid(t *testing.T) {
	store := newTestStore()
	text := strings.Repeat("नमस्ते दुनिया ", 30)
	if _, _, err := store.Ingest(int64(len(text)), "hindi.txt", text); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	preview := store.DocumentSummaries()[0].Preview
	if !utf8.ValidString(preview) {
		t.Fatalf("preview is not valid UTF-8: %q", preview)
	}
	if !strings.HasSuffix(preview, "...") {
		t.Fatalf("long preview not truncated: %q", preview)
	}
	runes := utf8.RuneCountInString(strings.TrimSuffix(preview, "..."))
	if runes != 100 {
		t.Fatalf("preview holds %d runes, want 100", runes)
	}
}
