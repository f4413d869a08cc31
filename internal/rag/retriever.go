package rag

import (
	"context"
	"errors"

	"room-assistant-platform/internal/logger"
)

// Retriever produces a ranked top-K chunk list for a query. Per query it
// picks exactly one path: the vector path when an embedding capability is
// available and the index covers the whole corpus, the lexical path
// otherwise. The two paths are never blended in a single call.
type Retriever struct {
	store    *Store
	index    *VectorIndex
	lexical  *LexicalRanker
	embedder Embedder // nil disables the vector path
}

// NewRetriever wires a retriever over the store and index.
func NewRetriever(store *Store, index *VectorIndex, lexical *LexicalRanker, embedder Embedder) *Retriever {
	if lexical == nil {
		lexical = NewLexicalRanker()
	}
	return &Retriever{store: store, index: index, lexical: lexical, embedder: embedder}
}

// Retrieve returns up to k chunks ranked by relevance to the query, score
// strictly non-increasing. An embedding failure degrades silently to the
// lexical path; it never fails the query.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []ScoredChunk {
	if k <= 0 {
		k = r.lexical.TopK
	}
	if r.vectorPathReady() {
		results, err := r.vectorRetrieve(ctx, query, k)
		if err == nil {
			return results
		}
		if !errors.Is(err, ErrIndexEmpty) {
			logger.Warn("vector retrieval failed, falling back to lexical ranking", "error", err)
		}
	}
	return r.lexical.Rank(query, r.store.AllChunks(), k)
}

// vectorPathReady reports whether the embedding-backed path can serve a
// query: capability present and the index in lockstep with the store.
func (r *Retriever) vectorPathReady() bool {
	if r.embedder == nil {
		return false
	}
	size := r.index.Size()
	return size > 0 && size == r.store.ChunkCount()
}

func (r *Retriever) vectorRetrieve(ctx context.Context, query string, k int) ([]ScoredChunk, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	matches, err := r.index.Search(vec, k)
	if err != nil {
		return nil, err
	}
	results := make([]ScoredChunk, 0, len(matches))
	for _, m := range matches {
		chunk, ok := r.store.Chunk(m.ID)
		if !ok {
			continue
		}
		// Monotonic distance-to-score transform: nearer chunks score higher.
		results = append(results, ScoredChunk{Chunk: chunk, Score: 1 / (1 + m.Distance)})
	}
	return results, nil
}
