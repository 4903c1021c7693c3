package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

// OllamaEmbedder generates vectors through a local Ollama server, for
// setups without a TEI container.
type OllamaEmbedder struct {
	client *api.Client
	model  string
}

func NewOllamaEmbedder(host, model string) (*OllamaEmbedder, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}

	return &OllamaEmbedder{
		client: api.NewClient(u, http.DefaultClient),
		model:  model,
	}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		resp, err := e.client.Embed(ctx, &api.EmbedRequest{
			Model: e.model,
			Input: text,
		})
		if err != nil {
			return nil, fmt.Errorf("ollama embed [%d]: %w", i, err)
		}
		if len(resp.Embeddings) == 0 {
			return nil, fmt.Errorf("ollama returned no embedding for input %d", i)
		}
		vectors[i] = resp.Embeddings[0]
	}

	return vectors, nil
}
