// Package indexer builds the in-memory snippet index: every extracted
// line is embedded and stored with its location under an ordinal id.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/querylens/sqlscope/backend/internal/embedding"
	"github.com/querylens/sqlscope/backend/internal/extractor"
	"github.com/querylens/sqlscope/backend/internal/models"
)

type Builder struct {
	embedder  embedding.Embedder
	batchSize int
	timeout   time.Duration
	logger    *zap.Logger
}

func NewBuilder(embedder embedding.Embedder, batchSize int, timeout time.Duration, logger *zap.Logger) *Builder {
	if batchSize < 1 {
		batchSize = 50
	}
	return &Builder{
		embedder:  embedder,
		batchSize: batchSize,
		timeout:   timeout,
		logger:    logger,
	}
}

// Build embeds every extracted line and returns a fresh immutable Index.
// It never mutates shared state; the caller decides when (and whether)
// to swap the active index to the returned value.
func (b *Builder) Build(ctx context.Context, projectPath string, lines []extractor.Line) (*models.Index, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	idx := &models.Index{
		BuildID:     uuid.New().String(),
		ProjectPath: projectPath,
		CreatedAt:   time.Now().UTC(),
		Snippets:    make([]models.Snippet, 0, len(lines)),
	}

	batches := (len(lines) + b.batchSize - 1) / b.batchSize
	for i := 0; i < len(lines); i += b.batchSize {
		end := i + b.batchSize
		if end > len(lines) {
			end = len(lines)
		}
		batch := lines[i:end]

		texts := make([]string, len(batch))
		for j, line := range batch {
			texts[j] = line.Text
		}

		b.logger.Debug("embedding batch",
			zap.Int("batch", i/b.batchSize+1), zap.Int("batches", batches))

		vectors, err := b.embedder.Embed(ctx, texts)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrIndexingTimeout, err)
			}
			return nil, fmt.Errorf("embedding failed: %w", err)
		}

		for j, vec := range vectors {
			if idx.Dimensions == 0 {
				idx.Dimensions = len(vec)
			} else if len(vec) != idx.Dimensions {
				return nil, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), idx.Dimensions)
			}
			idx.Snippets = append(idx.Snippets, models.Snippet{
				ID:        len(idx.Snippets),
				FilePath:  batch[j].FilePath,
				Line:      batch[j].Number,
				Code:      batch[j].Text,
				Embedding: vec,
			})
		}
	}

	b.logger.Info("index built",
		zap.String("build_id", idx.BuildID),
		zap.Int("snippets", len(idx.Snippets)),
		zap.Int("dimensions", idx.Dimensions))
	return idx, nil
}
