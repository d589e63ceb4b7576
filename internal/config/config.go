// ABOUTME: Centralized configuration for the context assembly core
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all tunables for chunking, selection, and session memory.
type Config struct {
	// Chunking settings
	MaxChunkSize int     // token cap per chunk
	OverlapRatio float64 // fraction of MaxChunkSize duplicated between neighbors
	Tokenizer    string  // "heuristic" or "tiktoken"

	// Selection settings
	MaxContextTokens    int // default token budget per request
	MaxChunksPerRequest int
	SimilarityWeight    float64
	ProximityWeight     float64
	RecencyWeight       float64

	// Session memory settings
	MaxDialogHistory int
	MemoryTTL        time.Duration

	// OpenAI settings (embedding-backed scorer, optional)
	OpenAIKey      string
	OpenAIBaseURL  string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		MaxChunkSize:        getEnvInt("LLMPROX_MAX_CHUNK_SIZE", 2000),
		OverlapRatio:        getEnvFloat("LLMPROX_CHUNK_OVERLAP_RATIO", 0.1),
		Tokenizer:           getEnv("LLMPROX_TOKENIZER", "heuristic"),
		MaxContextTokens:    getEnvInt("LLMPROX_MAX_CONTEXT_TOKENS", 8000),
		MaxChunksPerRequest: getEnvInt("LLMPROX_MAX_CHUNKS", 10),
		SimilarityWeight:    getEnvFloat("LLMPROX_SIMILARITY_WEIGHT", 0.6),
		ProximityWeight:     getEnvFloat("LLMPROX_PROXIMITY_WEIGHT", 0.25),
		RecencyWeight:       getEnvFloat("LLMPROX_RECENCY_WEIGHT", 0.15),
		MaxDialogHistory:    getEnvInt("LLMPROX_MAX_DIALOG_HISTORY", 20),
		MemoryTTL:           getEnvDuration("LLMPROX_MEMORY_TTL", time.Hour),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
		EmbeddingModel:      getEnv("LLMPROX_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:             getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:          getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:          getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("LLMPROX_MAX_CHUNK_SIZE must be positive, got %d", c.MaxChunkSize)
	}
	if c.OverlapRatio < 0 || c.OverlapRatio >= 1 {
		return fmt.Errorf("LLMPROX_CHUNK_OVERLAP_RATIO must be in [0, 1), got %f", c.OverlapRatio)
	}
	if c.Tokenizer != "heuristic" && c.Tokenizer != "tiktoken" {
		return fmt.Errorf("LLMPROX_TOKENIZER must be heuristic or tiktoken, got %q", c.Tokenizer)
	}
	if c.MaxContextTokens <= 0 {
		return fmt.Errorf("LLMPROX_MAX_CONTEXT_TOKENS must be positive, got %d", c.MaxContextTokens)
	}
	if c.MaxChunksPerRequest <= 0 {
		return fmt.Errorf("LLMPROX_MAX_CHUNKS must be positive, got %d", c.MaxChunksPerRequest)
	}
	if c.MaxDialogHistory <= 0 {
		return fmt.Errorf("LLMPROX_MAX_DIALOG_HISTORY must be positive, got %d", c.MaxDialogHistory)
	}
	if c.SimilarityWeight < 0 || c.ProximityWeight < 0 || c.RecencyWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative, got %f/%f/%f",
			c.SimilarityWeight, c.ProximityWeight, c.RecencyWeight)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
