package rag

import "time"

// Document holds metadata for an ingested file. Documents are created on
// ingest, never mutated, and removed only by ClearAll.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	RawSize   int64     `json:"raw_size"`
	CreatedAt time.Time `json:"created_at"`
}

// ChunkID identifies a chunk by the document it belongs to and its position
// within that document. Sequence indices start at 0 and follow insertion
// order, which is semantically meaningful for position scoring.
type ChunkID struct {
	DocumentID string `json:"document_id"`
	Sequence   int    `json:"sequence"`
}

// Chunk is a bounded contiguous slice of a document's normalized text, the
// unit of retrieval. Embedding is nil when the embedding path is disabled or
// the chunk has not been embedded.
type Chunk struct {
	ID        ChunkID   `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// ScoredChunk pairs a chunk with its relevance score for a query. Results
// are ordered by strictly non-increasing score, ties broken by original
// chunk insertion order.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// DocumentSummary describes an ingested document for listing endpoints.
type DocumentSummary struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	ChunkCount int    `json:"chunk_count"`
	Preview    string `json:"preview"`
}

// IngestResult reports what an ingest produced.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
}
