package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "3001" {
		t.Errorf("expected port 3001, got %s", cfg.Port)
	}
	if cfg.EmbedProvider != "tei" {
		t.Errorf("expected provider tei, got %s", cfg.EmbedProvider)
	}
	if cfg.EmbedBatchSize != 50 {
		t.Errorf("expected batch size 50, got %d", cfg.EmbedBatchSize)
	}
	if cfg.EmbedTimeout != 5*time.Minute {
		t.Errorf("expected timeout 5m, got %s", cfg.EmbedTimeout)
	}
	if cfg.ScanSubdir != "app" {
		t.Errorf("expected scan subdir app, got %s", cfg.ScanSubdir)
	}
	if cfg.ContextWindow != 20 {
		t.Errorf("expected context window 20, got %d", cfg.ContextWindow)
	}
	if cfg.MinSimilarity != 0.0 {
		t.Errorf("expected min similarity 0, got %f", cfg.MinSimilarity)
	}
	if cfg.IndexedColumns != nil {
		t.Errorf("expected no indexed columns by default, got %v", cfg.IndexedColumns)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_PORT", "8090")
	t.Setenv("EMBED_PROVIDER", "ollama")
	t.Setenv("EMBED_BATCH_SIZE", "25")
	t.Setenv("EMBED_TIMEOUT", "90s")
	t.Setenv("MIN_SIMILARITY", "0.75")
	t.Setenv("INDEXED_COLUMNS", "id, user_id, created_at")

	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %s", cfg.Port)
	}
	if cfg.EmbedProvider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.EmbedProvider)
	}
	if cfg.EmbedBatchSize != 25 {
		t.Errorf("expected batch size 25, got %d", cfg.EmbedBatchSize)
	}
	if cfg.EmbedTimeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %s", cfg.EmbedTimeout)
	}
	if cfg.MinSimilarity != 0.75 {
		t.Errorf("expected min similarity 0.75, got %f", cfg.MinSimilarity)
	}
	want := []string{"id", "user_id", "created_at"}
	if len(cfg.IndexedColumns) != len(want) {
		t.Fatalf("expected %d indexed columns, got %v", len(want), cfg.IndexedColumns)
	}
	for i := range want {
		if cfg.IndexedColumns[i] != want[i] {
			t.Errorf("indexed column %d: expected %s, got %s", i, want[i], cfg.IndexedColumns[i])
		}
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("EMBED_BATCH_SIZE", "lots")
	t.Setenv("MIN_SIMILARITY", "very")

	cfg := Load()

	if cfg.EmbedBatchSize != 50 {
		t.Errorf("expected fallback batch size 50, got %d", cfg.EmbedBatchSize)
	}
	if cfg.MinSimilarity != 0.0 {
		t.Errorf("expected fallback min similarity 0, got %f", cfg.MinSimilarity)
	}
}
