package rag

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

type stubExtractor struct{}

func (stubExtractor) ExtractText(ctx context.Context, content []byte, filename string) (string, error) {
	return string(content), nil
}

// hashEmbedder maps text to a small deterministic vector so nearest-neighbor
// behavior is testable without a model.
type hashEmbedder struct {
	fail bool
}

func (e *hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.fail {
		return nil, ErrEmbeddingUnavailable
	}
	vec := make([]float32, 8)
	for i, r := range text {
		vec[i%8] += float32(r % 31)
	}
	return vec, nil
}

const assistantDoc = "Room is a multilingual AI assistant that answers questions grounded in uploaded documents. " +
	"It translates between English and Hindi and keeps working without any model configured."

func newTestEngine(t *testing.T, embedder Embedder, completer Completer) *Engine {
	t.Helper()
	return NewEngine(EngineConfig{ChunkSize: 120, WindowWords: 20, OverlapWords: 5}, stubExtractor{}, embedder, completer)
}

func TestEngineIngestAndLexicalAnswer(t *testing.T) {
	engine := newTestEngine(t, nil, nil)

	res, err := engine.IngestDocument(context.Background(), []byte(assistantDoc), "about.txt")
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if res.DocumentID != "doc_1" || res.ChunkCount == 0 {
		t.Fatalf("result = %+v", res)
	}

	answer, err := engine.AnswerQuery(context.Background(), "multilingual assistant", 5)
	if err != nil {
		t.Fatalf("AnswerQuery: %v", err)
	}
	if !strings.Contains(answer, "multilingual AI assistant") {
		t.Fatalf("answer does not quote the document: %q", answer)
	}
}

func TestEngineEmptyQueryRejected(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	if _, err := engine.AnswerQuery(context.Background(), "   \n ", 5); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestEngineClearThenQuery(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	if _, err := engine.IngestDocument(context.Background(), []byte(assistantDoc), "about.txt"); err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if err := engine.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	if engine.DocumentCount() != 0 {
		t.Fatal("documents remain after ClearAll")
	}

	answer, err := engine.AnswerQuery(context.Background(), "anything at all", 5)
	if err != nil {
		t.Fatalf("AnswerQuery: %v", err)
	}
	want := "I don't have any documents to work with yet. Please upload some documents first!"
	if answer != want {
		t.Fatalf("answer = %q, want %q", answer, want)
	}
}

func TestEngineVectorPathStaysInLockstep(t *testing.T) {
	embedder := &hashEmbedder{}
	engine := newTestEngine(t, embedder, nil)

	if _, err := engine.IngestDocument(context.Background(), []byte(assistantDoc), "a.txt"); err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if engine.index.Size() != engine.store.ChunkCount() {
		t.Fatalf("index size %d != chunk count %d", engine.index.Size(), engine.store.ChunkCount())
	}

	// A document whose embedding fails still ingests, but the index is
	// dropped so retrieval falls back to the lexical path.
	embedder.fail = true
	if _, err := engine.IngestDocument(context.Background(), []byte(assistantDoc), "b.txt"); err != nil {
		t.Fatalf("IngestDocument with failing embedder: %v", err)
	}
	if engine.index.Size() != 0 {
		t.Fatalf("index size = %d after embedding failure, want 0", engine.index.Size())
	}

	answer, err := engine.AnswerQuery(context.Background(), "multilingual assistant", 5)
	if err != nil {
		t.Fatalf("AnswerQuery: %v", err)
	}
	if !strings.Contains(answer, "multilingual") {
		t.Fatalf("lexical fallback answer = %q", answer)
	}
}

func TestEngineSetCompletion(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	if engine.HasCompletion() {
		t.Fatal("engine should start without a completer")
	}
	if _, err := engine.IngestDocument(context.Background(), []byte(assistantDoc), "a.txt"); err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}

	engine.SetCompletion(&stubCompleter{answer: "generated answer"})
	if !engine.HasCompletion() {
		t.Fatal("HasCompletion() = false after SetCompletion")
	}
	answer, err := engine.AnswerQuery(context.Background(), "multilingual assistant", 5)
	if err != nil {
		t.Fatalf("AnswerQuery: %v", err)
	}
	if answer != "generated answer" {
		t.Fatalf("answer = %q, want generative tier output", answer)
	}
}

func TestEngineSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "room.snap")

	engine := newTestEngine(t, &hashEmbedder{}, nil)
	if _, err := engine.IngestDocument(context.Background(), []byte(assistantDoc), "a.txt"); err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if err := engine.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := newTestEngine(t, &hashEmbedder{}, nil)
	if err := reloaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.DocumentCount() != 1 {
		t.Fatalf("DocumentCount() = %d after load, want 1", reloaded.DocumentCount())
	}
	if reloaded.index.Size() != reloaded.store.ChunkCount() {
		t.Fatalf("index not rebuilt from snapshot: %d vs %d", reloaded.index.Size(), reloaded.store.ChunkCount())
	}

	answer, err := reloaded.AnswerQuery(context.Background(), "multilingual assistant", 5)
	if err != nil {
		t.Fatalf("AnswerQuery after load: %v", err)
	}
	if !strings.Contains(answer, "multilingual") {
		t.Fatalf("answer after load = %q", answer)
	}
}

func TestEngineLoadMissingFile(t *testing.T) {
	engine := newTestEngine(t, nil, nil)
	if err := engine.Load(filepath.Join(t.TempDir(), "missing.snap")); err != nil {
		t.Fatalf("Load of missing snapshot: %v", err)
	}
	if engine.DocumentCount() != 0 {
		t.Fatal("engine not empty after loading missing snapshot")
	}
}
