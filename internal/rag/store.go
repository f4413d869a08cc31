package rag

import (
	"fmt"
	"sync"
	"time"
)

const previewLength = 100

// StoreConfig controls how the store cleans and chunks ingested text.
type StoreConfig struct {
	ChunkSize    int // characters when ChunkOverlap == 0, words otherwise
	ChunkOverlap int // words shared between consecutive chunks
	MinTextLen   int // cleaned text shorter than this is rejected
}

// Store is the in-memory registry of ingested documents and their chunks.
// It owns chunk identity: document ids are monotonic (doc_<n>), stable, and
// never reused even after ClearAll. A single writer lock serializes id
// assignment and chunk appends so concurrent ingests cannot interleave;
// readers observe consistent snapshots.
type Store struct {
	mu  sync.RWMutex
	cfg StoreConfig

	nextID   int
	docs     []Document
	chunks   []Chunk
	chunkPos map[ChunkID]int
	counts   map[string]int
	previews map[string]string
}

// NewStore creates a store. Zero-valued config fields fall back to the
// package defaults.
func NewStore(cfg StoreConfig) *Store {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.MinTextLen <= 0 {
		cfg.MinTextLen = MinTextLength
	}
	return &Store{
		cfg:      cfg,
		nextID:   1,
		chunkPos: make(map[ChunkID]int),
		counts:   make(map[string]int),
		previews: make(map[string]string),
	}
}

// Ingest cleans and chunks extractedText, registers a new document, and
// appends its chunks with sequence indices starting at 0. It returns the
// document and the chunks that were appended. If the cleaned text is shorter
// than the configured minimum the document is not stored and ErrTooLittleText
// is returned.
func (s *Store) Ingest(rawSize int64, filename, extractedText string) (Document, []Chunk, error) {
	cleaned := Clean(extractedText)
	if len(cleaned) < s.cfg.MinTextLen {
		return Document{}, nil, fmt.Errorf("%q: %w", filename, ErrTooLittleText)
	}

	parts := Split(cleaned, s.cfg.ChunkSize, s.cfg.ChunkOverlap)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := Document{
		ID:        fmt.Sprintf("doc_%d", s.nextID),
		Filename:  filename,
		RawSize:   rawSize,
		CreatedAt: time.Now(),
	}
	s.nextID++

	chunks := make([]Chunk, len(parts))
	for i, text := range parts {
		chunks[i] = Chunk{
			ID:   ChunkID{DocumentID: doc.ID, Sequence: i},
			Text: text,
		}
		s.chunkPos[chunks[i].ID] = len(s.chunks) + i
	}
	s.docs = append(s.docs, doc)
	s.chunks = append(s.chunks, chunks...)
	s.counts[doc.ID] = len(chunks)
	s.previews[doc.ID] = makePreview(cleaned)

	return doc, chunks, nil
}

// AttachEmbeddings stores embeddings on the chunks of a document, in chunk
// sequence order. The vector count must match the document's chunk count.
func (s *Store) AttachEmbeddings(documentID string, vectors [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts[documentID] != len(vectors) {
		return fmt.Errorf("document %s has %d chunks, got %d vectors", documentID, s.counts[documentID], len(vectors))
	}
	for i, vec := range vectors {
		pos, ok := s.chunkPos[ChunkID{DocumentID: documentID, Sequence: i}]
		if !ok {
			return fmt.Errorf("document %s chunk %d not found", documentID, i)
		}
		s.chunks[pos].Embedding = vec
	}
	return nil
}

// AllChunks returns a copy of every chunk, in ingestion order then
// intra-document order.
func (s *Store) AllChunks() []Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Chunk looks up a chunk by id.
func (s *Store) Chunk(id ChunkID) (Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.chunkPos[id]
	if !ok {
		return Chunk{}, false
	}
	return s.chunks[pos], true
}

// ChunkCount returns the total number of chunks across all documents.
func (s *Store) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// DocumentCount returns the number of ingested documents.
func (s *Store) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Filenames returns the filenames of all ingested documents in ingest order.
func (s *Store) Filenames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.docs))
	for i, d := range s.docs {
		names[i] = d.Filename
	}
	return names
}

// DocumentSummaries describes every ingested document.
func (s *Store) DocumentSummaries() []DocumentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DocumentSummary, len(s.docs))
	for i, d := range s.docs {
		out[i] = DocumentSummary{
			DocumentID: d.ID,
			Filename:   d.Filename,
			Size:       d.RawSize,
			ChunkCount: s.counts[d.ID],
			Preview:    s.previews[d.ID],
		}
	}
	return out
}

// Clear removes all documents and chunks. Document id numbering continues
// from where it left off so ids are never reused.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.chunks = nil
	s.chunkPos = make(map[ChunkID]int)
	s.counts = make(map[string]int)
	s.previews = make(map[string]string)
}

// StoreSnapshot is the serializable state of a Store, used for persistence
// round trips.
type StoreSnapshot struct {
	NextID    int               `json:"next_id"`
	Documents []Document        `json:"documents"`
	Chunks    []Chunk           `json:"chunks"`
	Counts    map[string]int    `json:"counts"`
	Previews  map[string]string `json:"previews"`
}

// Snapshot captures the store state under a read lock.
func (s *Store) Snapshot() StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := StoreSnapshot{
		NextID:    s.nextID,
		Documents: append([]Document(nil), s.docs...),
		Chunks:    append([]Chunk(nil), s.chunks...),
		Counts:    make(map[string]int, len(s.counts)),
		Previews:  make(map[string]string, len(s.previews)),
	}
	for k, v := range s.counts {
		snap.Counts[k] = v
	}
	for k, v := range s.previews {
		snap.Previews[k] = v
	}
	return snap
}

// Restore replaces the store state with a snapshot, preserving id
// continuity.
func (s *Store) Restore(snap StoreSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.NextID
	if s.nextID < 1 {
		s.nextID = 1
	}
	s.docs = append([]Document(nil), snap.Documents...)
	s.chunks = append([]Chunk(nil), snap.Chunks...)
	s.chunkPos = make(map[ChunkID]int, len(s.chunks))
	for i, c := range s.chunks {
		s.chunkPos[c.ID] = i
	}
	s.counts = make(map[string]int, len(snap.Counts))
	for k, v := range snap.Counts {
		s.counts[k] = v
	}
	s.previews = make(map[string]string, len(snap.Previews))
	for k, v := range snap.Previews {
		s.previews[k] = v
	}
}

func makePreview(cleaned string) string {
	preview, truncated := truncateRunes(cleaned, previewLength)
	if !truncated {
		return preview
	}
	return preview + "..."
}
