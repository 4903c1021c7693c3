package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Embedding provider: "tei", "ollama" or "openai"
	EmbedProvider  string
	TEIURL         string
	OllamaHost     string
	OllamaModel    string
	OpenAIModel    string
	EmbedBatchSize int
	EmbedTimeout   time.Duration

	// Extraction
	ScanSubdir    string
	MaxFiles      int
	ContextWindow int

	// Matching
	MinSimilarity float64

	// Scoring: columns assumed indexed by convention. Empty list disables
	// the unindexed-field rule.
	IndexedColumns      []string
	UnindexedPenalty    int
	UnindexedPenaltyCap int

	// Security: validation idioms to recognize. Empty keeps the
	// built-in Laravel set.
	ValidationPatterns []string

	CachePath string
}

func Load() *Config {
	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("BACKEND_PORT", "3001"),
		EmbedProvider:  getEnv("EMBED_PROVIDER", "tei"),
		TEIURL:         getEnv("TEI_URL", "http://localhost:8080"),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "nomic-embed-text"),
		OpenAIModel:    getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		EmbedBatchSize: getEnvInt("EMBED_BATCH_SIZE", 50),
		EmbedTimeout:   getEnvDuration("EMBED_TIMEOUT", 5*time.Minute),

		ScanSubdir:    getEnv("SCAN_SUBDIR", "app"),
		MaxFiles:      getEnvInt("MAX_FILES", 100),
		ContextWindow: getEnvInt("CONTEXT_WINDOW", 20),

		MinSimilarity: getEnvFloat("MIN_SIMILARITY", 0.0),

		IndexedColumns:      getEnvList("INDEXED_COLUMNS", nil),
		UnindexedPenalty:    getEnvInt("UNINDEXED_PENALTY", 10),
		UnindexedPenaltyCap: getEnvInt("UNINDEXED_PENALTY_CAP", 30),

		ValidationPatterns: getEnvList("VALIDATION_PATTERNS", nil),

		CachePath: getEnv("CACHE_PATH", ".sqlscope-cache.json"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		var out []string
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return fallback
}
