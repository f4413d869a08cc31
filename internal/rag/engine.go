package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"room-assistant-platform/internal/logger"
)

// EngineConfig bundles the tunables for a single engine instance.
type EngineConfig struct {
	// Lexical-path chunking (characters per chunk, no overlap).
	ChunkSize int
	// Embedding-path chunking (words per window, words of overlap).
	WindowWords  int
	OverlapWords int

	MinTextLen        int
	TopK              int
	MaxAnswerTokens   int
	Temperature       float32
	CapabilityTimeout time.Duration
}

// Engine is the retrieval-augmented answering engine: one explicit context
// object owning the document store, the vector index, and the injected
// capabilities. Construct one per process and pass it to request handlers;
// there are no package-level singletons.
type Engine struct {
	cfg       EngineConfig
	store     *Store
	index     *VectorIndex
	retriever *Retriever
	synth     *Synthesizer
	extractor Extractor
	embedder  Embedder

	// completer is swapped at runtime by SetCompletion; the mutex guards
	// only that swap, never a network call.
	mu        sync.RWMutex
	completer Completer
}

// NewEngine builds an engine. extractor is required; embedder and completer
// may be nil, which disables the vector path and the generative tier
// respectively. Chunking policy follows the retrieval path: word windows
// with overlap when embeddings are on, character-bounded chunks otherwise.
func NewEngine(cfg EngineConfig, extractor Extractor, embedder Embedder, completer Completer) *Engine {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.WindowWords <= 0 {
		cfg.WindowWords = DefaultWindowWords
	}
	if cfg.OverlapWords <= 0 {
		cfg.OverlapWords = DefaultOverlapWords
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.CapabilityTimeout <= 0 {
		cfg.CapabilityTimeout = 30 * time.Second
	}

	storeCfg := StoreConfig{ChunkSize: cfg.ChunkSize, MinTextLen: cfg.MinTextLen}
	if embedder != nil {
		storeCfg.ChunkSize = cfg.WindowWords
		storeCfg.ChunkOverlap = cfg.OverlapWords
	}
	store := NewStore(storeCfg)
	index := NewVectorIndex()
	lexical := NewLexicalRanker()
	lexical.TopK = cfg.TopK

	synth := NewSynthesizer()
	if cfg.MaxAnswerTokens > 0 {
		synth.MaxTokens = cfg.MaxAnswerTokens
	}
	if cfg.Temperature > 0 {
		synth.Temperature = cfg.Temperature
	}

	return &Engine{
		cfg:       cfg,
		store:     store,
		index:     index,
		retriever: NewRetriever(store, index, lexical, embedder),
		synth:     synth,
		extractor: extractor,
		embedder:  embedder,
		completer: completer,
	}
}

// IngestDocument extracts text from content, cleans and chunks it, registers
// the document, and (when the embedding path is on) embeds and indexes its
// chunks. Fails with ErrUnsupportedFormat, ErrCorruptInput,
// ErrExtractionFailed, or ErrTooLittleText; in every failure case the
// document is not stored.
func (e *Engine) IngestDocument(ctx context.Context, content []byte, filename string) (IngestResult, error) {
	extractCtx, cancel := context.WithTimeout(ctx, e.cfg.CapabilityTimeout)
	defer cancel()

	text, err := e.extractor.ExtractText(extractCtx, content, filename)
	if err != nil {
		return IngestResult{}, err
	}

	doc, chunks, err := e.store.Ingest(int64(len(content)), filename, text)
	if err != nil {
		return IngestResult{}, err
	}

	if e.embedder != nil {
		e.indexChunks(ctx, doc.ID, chunks)
	}

	logger.Info("document ingested", "document_id", doc.ID, "filename", filename, "chunks", len(chunks))
	return IngestResult{DocumentID: doc.ID, ChunkCount: len(chunks)}, nil
}

// indexChunks embeds a document's chunks and adds them to the vector index.
// The index is only allowed to exist in lockstep with the store: on any
// embedding failure the whole index is dropped so retrieval falls back to
// the lexical path instead of searching a partial corpus.
func (e *Engine) indexChunks(ctx context.Context, documentID string, chunks []Chunk) {
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		embedCtx, cancel := context.WithTimeout(ctx, e.cfg.CapabilityTimeout)
		vec, err := e.embedder.Embed(embedCtx, chunk.Text)
		cancel()
		if err != nil {
			logger.Warn("embedding failed, disabling vector path until re-ingest",
				"document_id", documentID, "chunk", i, "error", err)
			if rerr := e.index.Rebuild(nil); rerr != nil {
				logger.Error("index reset failed", "error", rerr)
			}
			return
		}
		vectors[i] = vec
	}

	if err := e.store.AttachEmbeddings(documentID, vectors); err != nil {
		logger.Error("attaching embeddings failed", "document_id", documentID, "error", err)
		return
	}
	for i, chunk := range chunks {
		if err := e.index.Add(chunk.ID, vectors[i]); err != nil {
			logger.Warn("index add failed, dropping index", "error", err)
			if rerr := e.index.Rebuild(nil); rerr != nil {
				logger.Error("index reset failed", "error", rerr)
			}
			return
		}
	}
}

// AnswerQuery retrieves the top-k chunks for the query and synthesizes an
// answer. The only hard error is an empty query; missing or failing optional
// capabilities degrade to lower answer tiers.
func (e *Engine) AnswerQuery(ctx context.Context, query string, k int) (string, error) {
	if len(Clean(query)) == 0 {
		return "", ErrEmptyQuery
	}
	if k <= 0 {
		k = e.cfg.TopK
	}

	retrieved := e.retriever.Retrieve(ctx, query, k)

	completionCtx, cancel := context.WithTimeout(ctx, e.cfg.CapabilityTimeout)
	defer cancel()
	return e.synth.Answer(completionCtx, e.completion(), query, retrieved, e.store.Filenames()), nil
}

// ListDocuments returns summaries of every ingested document.
func (e *Engine) ListDocuments() []DocumentSummary {
	return e.store.DocumentSummaries()
}

// ClearAll removes every document, chunk, and index entry. Document id
// numbering continues so ids are never reused.
func (e *Engine) ClearAll() error {
	e.store.Clear()
	if err := e.index.Rebuild(nil); err != nil {
		return fmt.Errorf("resetting index: %w", err)
	}
	logger.Info("document store cleared")
	return nil
}

// SetCompletion swaps the completion capability. This is the explicit,
// caller-triggered reconfiguration path; query handling never constructs
// clients lazily mid-request.
func (e *Engine) SetCompletion(c Completer) {
	e.mu.Lock()
	e.completer = c
	e.mu.Unlock()
}

// HasCompletion reports whether a generative tier is configured.
func (e *Engine) HasCompletion() bool {
	return e.completion() != nil
}

// HasEmbedding reports whether the embedding retrieval path is configured.
func (e *Engine) HasEmbedding() bool {
	return e.embedder != nil
}

// DocumentCount returns the number of ingested documents.
func (e *Engine) DocumentCount() int {
	return e.store.DocumentCount()
}

func (e *Engine) completion() Completer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.completer
}
