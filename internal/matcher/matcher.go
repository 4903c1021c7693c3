// Package matcher finds the indexed snippet closest to a query string by
// brute-force cosine similarity over the active index.
package matcher

import (
	"context"
	"fmt"
	"math"

	"github.com/querylens/sqlscope/backend/internal/embedding"
	"github.com/querylens/sqlscope/backend/internal/indexer"
	"github.com/querylens/sqlscope/backend/internal/models"
)

// Result is the outcome of one match. Found is false only when there is
// no index to search; a weak best match is still returned with Found set,
// flagged through BelowThreshold for callers that want a cutoff.
type Result struct {
	Snippet        *models.Snippet
	Similarity     float64 // in [0,1]
	Found          bool
	BelowThreshold bool
}

type Matcher struct {
	embedder      embedding.Embedder
	minSimilarity float64
}

func New(embedder embedding.Embedder, minSimilarity float64) *Matcher {
	return &Matcher{
		embedder:      embedder,
		minSimilarity: minSimilarity,
	}
}

// Match embeds query with the same provider that built idx and returns
// the arg-max snippet. Exact similarity ties keep the lowest id, so
// repeated calls are reproducible.
func (m *Matcher) Match(ctx context.Context, idx *models.Index, query string) (Result, error) {
	if idx == nil {
		return Result{}, indexer.ErrNoIndex
	}
	if idx.Empty() {
		return Result{Found: false}, nil
	}

	vectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return Result{}, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return Result{}, fmt.Errorf("embedder returned no vector for query")
	}
	queryVec := vectors[0]

	best := -1
	bestSim := math.Inf(-1)
	for i := range idx.Snippets {
		sim := CosineSimilarity(queryVec, idx.Snippets[i].Embedding)
		if sim > bestSim {
			bestSim = sim
			best = i
		}
	}

	snippet := &idx.Snippets[best]
	return Result{
		Snippet:        snippet,
		Similarity:     bestSim,
		Found:          true,
		BelowThreshold: bestSim < m.minSimilarity,
	}, nil
}

// CosineSimilarity returns the cosine of the angle between a and b,
// shifted from [-1,1] into [0,1]. Zero vectors and dimension mismatches
// score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}
