package api

import (
	"errors"
	"os"
	"sync/atomic"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/querylens/sqlscope/backend/internal/analyzer"
	"github.com/querylens/sqlscope/backend/internal/config"
	"github.com/querylens/sqlscope/backend/internal/embedding"
	"github.com/querylens/sqlscope/backend/internal/extractor"
	"github.com/querylens/sqlscope/backend/internal/indexer"
	"github.com/querylens/sqlscope/backend/internal/matcher"
	"github.com/querylens/sqlscope/backend/internal/models"
	"github.com/querylens/sqlscope/backend/internal/security"
)

type Handler struct {
	cfg       *config.Config
	logger    *zap.Logger
	extractor *extractor.Extractor
	builder   *indexer.Builder
	matcher   *matcher.Matcher
	checker   *security.Checker
	cache     *indexer.FileCache

	// The one process-wide piece of shared state. Builds prepare a full
	// Index off to the side and swap it in here; readers only ever see a
	// complete value.
	index atomic.Pointer[models.Index]
}

func NewHandler(cfg *config.Config, embedder embedding.Embedder, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		extractor: extractor.New(cfg.ScanSubdir, cfg.MaxFiles, logger),
		builder:   indexer.NewBuilder(embedder, cfg.EmbedBatchSize, cfg.EmbedTimeout, logger),
		matcher:   matcher.New(embedder, cfg.MinSimilarity),
		checker:   security.NewChecker(cfg.ValidationPatterns),
		cache:     indexer.NewFileCache(cfg.CachePath),
	}
}

func (h *Handler) Close() {
	h.checker.Close()
}

type embedRequest struct {
	ProjectPath string `json:"project_path"`
}

type analyzeRequest struct {
	SQL string `json:"sql"`
}

// EmbedCodebase scans a Laravel project and builds a fresh snippet
// index. The previous index stays active until the new one is complete.
func (h *Handler) EmbedCodebase(c fiber.Ctx) error {
	var input embedRequest
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.ProjectPath == "" {
		return c.Status(400).JSON(fiber.Map{"error": "project_path is required"})
	}

	info, err := os.Stat(input.ProjectPath)
	if err != nil || !info.IsDir() {
		return c.Status(400).JSON(fiber.Map{"error": "invalid Laravel path"})
	}

	h.logger.Info("indexing started", zap.String("path", input.ProjectPath))

	lines, err := h.extractor.Scan(c.Context(), input.ProjectPath)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to scan project: " + err.Error()})
	}

	idx, err := h.builder.Build(c.Context(), input.ProjectPath, lines)
	switch {
	case errors.Is(err, indexer.ErrEmptyInput):
		return c.Status(400).JSON(fiber.Map{"error": "no SQL-related code found in the specified path"})
	case errors.Is(err, indexer.ErrIndexingTimeout):
		return c.Status(504).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(502).JSON(fiber.Map{"error": "failed to generate embeddings: " + err.Error()})
	}

	h.index.Store(idx)
	if err := h.cache.Save(idx); err != nil {
		h.logger.Warn("failed to persist index cache", zap.Error(err))
	}

	return c.JSON(fiber.Map{"status": "indexed", "count": len(idx.Snippets)})
}

// AnalyzeQuery matches the submitted SQL against the active index and
// attaches the performance and security assessment. A missing index is
// reported as data, not as a transport fault.
func (h *Handler) AnalyzeQuery(c fiber.Ctx) error {
	var input analyzeRequest
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.SQL == "" {
		return c.Status(400).JSON(fiber.Map{"error": "sql is required"})
	}

	idx := h.activeIndex()
	res, err := h.matcher.Match(c.Context(), idx, input.SQL)
	if errors.Is(err, indexer.ErrNoIndex) {
		return c.JSON(fiber.Map{"found": false, "message": indexer.ErrNoIndex.Error()})
	}
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"error": "failed to embed query: " + err.Error()})
	}
	if !res.Found {
		return c.JSON(fiber.Map{"found": false, "message": "index is empty"})
	}

	assessment := analyzer.Score(input.SQL, analyzer.Config{
		IndexedColumns:      h.cfg.IndexedColumns,
		UnindexedPenalty:    h.cfg.UnindexedPenalty,
		UnindexedPenaltyCap: h.cfg.UnindexedPenaltyCap,
	})

	window, err := h.extractor.Context(res.Snippet.FilePath, res.Snippet.Line, h.cfg.ContextWindow)
	if err != nil {
		// The file may have moved since indexing; the snippet itself is
		// still worth checking for interpolation.
		h.logger.Warn("failed to read snippet context",
			zap.String("file", res.Snippet.FilePath), zap.Error(err))
		window = extractor.Window{FilePath: res.Snippet.FilePath, StartLine: res.Snippet.Line}
	}
	report := h.checker.Check(res.Snippet.Code, window)

	suggestions := assessment.Suggestions
	if !report.Validated {
		suggestions = append([]string{
			"Validate request input with $request->validate() or a FormRequest before running this query",
		}, suggestions...)
	}

	return c.JSON(fiber.Map{
		"found": true,
		"match": fiber.Map{
			"file":        res.Snippet.FilePath,
			"line":        res.Snippet.Line,
			"code":        res.Snippet.Code,
			"similarity":  res.Similarity,
			"query_type":  analyzer.QueryType(input.SQL),
			"source_kind": analyzer.ClassifySource(res.Snippet.Code),
		},
		"validated":          report.Validated,
		"validation_methods": emptyIfNil(report.ValidationMethods),
		"security_issues":    emptyIfNil(report.SecurityIssues),
		"performance_score":  assessment.Score,
		"performance_rating": assessment.Rating,
		"performance_issues": emptyIfNil(assessment.Issues),
		"suggestions":        emptyIfNil(suggestions),
	})
}

// Health is the liveness probe.
func (h *Handler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "sqlscope-backend",
	})
}

// activeIndex returns the in-memory index, falling back to the disk
// cache once after a restart.
func (h *Handler) activeIndex() *models.Index {
	if idx := h.index.Load(); idx != nil {
		return idx
	}

	idx, err := h.cache.Load()
	if err != nil {
		if !errors.Is(err, indexer.ErrCacheMiss) {
			h.logger.Warn("failed to load index cache", zap.Error(err))
		}
		return nil
	}

	h.logger.Info("index restored from cache",
		zap.String("build_id", idx.BuildID), zap.Int("snippets", len(idx.Snippets)))
	h.index.CompareAndSwap(nil, idx)
	return h.index.Load()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
