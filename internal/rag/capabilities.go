package rag

import "context"

// Capabilities consumed by the engine. Each is injected at construction so
// implementations can be swapped without touching engine code; a nil
// capability simply disables the corresponding path.

// Extractor turns raw uploaded bytes into plain text. Implementations
// dispatch on filename extension or MIME type and fail with
// ErrUnsupportedFormat or ErrCorruptInput.
type Extractor interface {
	ExtractText(ctx context.Context, content []byte, filename string) (string, error)
}

// Embedder converts text into a fixed-dimension vector. Failures map to
// ErrEmbeddingUnavailable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer generates a bounded-length completion from a system instruction
// and a user prompt. Failures map to ErrCompletionUnavailable or
// ErrRateLimited.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error)
}
