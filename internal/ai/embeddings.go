package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"room-assistant-platform/internal/rag"
)

// EmbeddingClient embeds text through the Gemini embeddings API
// (text-embedding-004 by default). It satisfies the engine's embedding
// capability and holds one SDK client for its lifetime.
type EmbeddingClient struct {
	model  string
	client *genai.Client
}

func NewEmbeddingClient(apiKey, model string) (*EmbeddingClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &EmbeddingClient{model: model, client: client}, nil
}

// Embed returns an embedding vector for the given text.
func (ec *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	model := ec.client.EmbeddingModel(ec.model)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embed content: %v: %w", err, rag.ErrEmbeddingUnavailable)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned: %w", rag.ErrEmbeddingUnavailable)
	}
	return resp.Embedding.Values, nil
}

func (ec *EmbeddingClient) Close() error {
	if ec.client != nil {
		return ec.client.Close()
	}
	return nil
}
