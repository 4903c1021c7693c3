// Package embedding turns text into fixed-length vectors through a
// pre-trained model served out of process. The model is a black box:
// the same input always yields the same vector and the dimensionality
// stays constant for the process lifetime.
package embedding

import (
	"context"
	"fmt"

	"github.com/querylens/sqlscope/backend/internal/config"
)

// Embedder is the capability the indexer and matcher depend on. The
// concrete provider is swappable without touching either.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// NewFromConfig selects a provider by name.
func NewFromConfig(cfg *config.Config) (Embedder, error) {
	switch cfg.EmbedProvider {
	case "tei":
		return NewTEIClient(cfg.TEIURL), nil
	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaHost, cfg.OllamaModel)
	case "openai":
		return NewOpenAIEmbedder(cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.EmbedProvider)
	}
}
