package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"room-assistant-platform/internal/logger"
)

const (
	extractiveExcerptLen = 300
	defaultAnswerTokens  = 500
	defaultTemperature   = 0.7
)

const groundingInstruction = `You are Room, a friendly AI assistant that analyzes documents and provides clear, accurate answers.

Your task is to:
1. Understand the user's question
2. Use the provided document context to answer accurately
3. Provide specific, relevant information
4. If the answer isn't in the context, say so clearly
5. Be helpful and conversational

Always base your answers on the document content provided. If you can't find specific information, acknowledge it and suggest what the user might ask instead.`

// Synthesizer turns retrieved chunks into an answer through three ordered
// tiers: generative, extractive, empty. A tier is entered only when the
// previous one is unavailable or fails, and tiers are never revisited within
// a call. No completion failure ever propagates to the caller.
type Synthesizer struct {
	MaxTokens    int
	Temperature  float32
	RetryBackoff time.Duration
}

// NewSynthesizer returns a synthesizer with the default generation bounds.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		MaxTokens:    defaultAnswerTokens,
		Temperature:  defaultTemperature,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// Answer produces answer text for the query from the retrieved chunks.
// completer may be nil; docNames are the currently ingested filenames, used
// by the empty tier. Tier selection is deterministic given the same
// capability configuration and inputs.
func (s *Synthesizer) Answer(ctx context.Context, completer Completer, query string, retrieved []ScoredChunk, docNames []string) string {
	if completer != nil && len(retrieved) > 0 {
		answer, err := s.generate(ctx, completer, query, retrieved)
		if err == nil {
			return answer
		}
		logger.Warn("generative tier failed, using extractive answer", "error", err)
	}
	if len(retrieved) > 0 {
		return s.extractive(query, retrieved)
	}
	return s.empty(query, docNames)
}

func (s *Synthesizer) generate(ctx context.Context, completer Completer, query string, retrieved []ScoredChunk) (string, error) {
	var contextText strings.Builder
	for i, r := range retrieved {
		fmt.Fprintf(&contextText, "Context %d: %s\n\n", i+1, r.Chunk.Text)
	}
	userPrompt := fmt.Sprintf(`User Question: %s

Document Context:
%s
Please provide a clear, helpful answer based on the document content above. If the specific information isn't available in the context, let the user know and suggest alternative questions they could ask.`, query, contextText.String())

	answer, err := completer.Complete(ctx, groundingInstruction, userPrompt, s.MaxTokens, s.Temperature)
	if err == nil {
		return strings.TrimSpace(answer), nil
	}

	// One retry with backoff on transient refusals, but only while the
	// caller's own deadline still has room.
	if errors.Is(err, ErrRateLimited) || errors.Is(err, context.DeadlineExceeded) {
		select {
		case <-ctx.Done():
			return "", err
		case <-time.After(s.RetryBackoff):
		}
		answer, retryErr := completer.Complete(ctx, groundingInstruction, userPrompt, s.MaxTokens, s.Temperature)
		if retryErr == nil {
			return strings.TrimSpace(answer), nil
		}
		return "", retryErr
	}
	return "", err
}

func (s *Synthesizer) extractive(query string, retrieved []ScoredChunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on your question about %q, I found some relevant information:\n\n", query)
	for i, r := range retrieved {
		text, truncated := truncateRunes(r.Chunk.Text, extractiveExcerptLen)
		if truncated {
			text += "..."
		}
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, text)
	}
	b.WriteString("For more detailed and intelligent answers, please configure a Gemini API key to enable enhanced answering.")
	return b.String()
}

func (s *Synthesizer) empty(query string, docNames []string) string {
	if len(docNames) == 0 {
		return "I don't have any documents to work with yet. Please upload some documents first!"
	}
	return fmt.Sprintf("I couldn't find specific information about %q in your documents. However, I have these documents available: %s. Try asking about specific topics, concepts, or content that might be in these documents.",
		query, strings.Join(docNames, ", "))
}
