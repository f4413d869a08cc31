package rag

import "errors"

// Sentinel errors for the answering engine. Callers distinguish them with
// errors.Is; wrapping with fmt.Errorf("...: %w", err) preserves the match.
var (
	// ErrUnsupportedFormat means the uploaded file type has no extractor.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrCorruptInput means extraction started but the file could not be read.
	ErrCorruptInput = errors.New("corrupt or unreadable input")

	// ErrExtractionFailed means extraction produced no usable text.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrTooLittleText is a warning-level failure: the document cleaned down
	// to less than the minimum useful length and was not stored. Distinct
	// from ErrExtractionFailed so callers can suggest OCR.
	ErrTooLittleText = errors.New("document contains too little readable text")

	// ErrEmbeddingUnavailable means the embedding capability is missing or
	// failed. Never surfaced to end users; retrieval falls back to the
	// lexical path.
	ErrEmbeddingUnavailable = errors.New("embedding capability unavailable")

	// ErrCompletionUnavailable means the completion capability is missing or
	// failed. Never surfaced to end users; answering falls back to the
	// extractive tier.
	ErrCompletionUnavailable = errors.New("completion capability unavailable")

	// ErrRateLimited means the completion provider refused the call for
	// quota reasons. The synthesizer may retry once before falling back.
	ErrRateLimited = errors.New("completion rate limited")

	// ErrIndexEmpty is returned by VectorIndex.Search when nothing has been
	// indexed. Treated as "no relevant chunks", not a user-facing error.
	ErrIndexEmpty = errors.New("vector index is empty")

	// ErrEmptyQuery is the one hard user-facing input error.
	ErrEmptyQuery = errors.New("query text is required")
)
