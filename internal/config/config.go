package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Vector store
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	QdrantTimeout    time.Duration
	VectorDim        int

	// OpenAI-compatible API
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	EmbedModel      string
	ChatModel       string
	EmbedTimeout    time.Duration
	CompleteTimeout time.Duration

	// Indexing
	MaxConcurrentEmbed int

	// Upload storage
	UploadDir      string
	ProcessedDir   string
	MaxUploadBytes int64

	// OCR tooling
	OCREnabled   bool
	TesseractBin string
	PdftoppmBin  string
}

func Load() Config {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		QdrantURL:        envOr("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: envOr("QDRANT_COLLECTION", "documents"),
		QdrantTimeout:    envDuration("QDRANT_TIMEOUT", 15*time.Second),
		VectorDim:        envInt("VECTOR_DIM", 1536),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		EmbedModel:      envOr("EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:       envOr("CHAT_MODEL", "gpt-4o-mini"),
		EmbedTimeout:    envDuration("EMBED_TIMEOUT", 30*time.Second),
		CompleteTimeout: envDuration("COMPLETE_TIMEOUT", 60*time.Second),

		MaxConcurrentEmbed: envInt("MAX_CONCURRENT_EMBED", 4),

		UploadDir:      envOr("UPLOAD_DIR", "data/uploads"),
		ProcessedDir:   envOr("PROCESSED_DIR", "data/processed"),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 200*1024*1024),

		OCREnabled:   envBool("OCR_ENABLED", true),
		TesseractBin: envOr("TESSERACT_BIN", "tesseract"),
		PdftoppmBin:  envOr("PDFTOPPM_BIN", "pdftoppm"),
	}

	if cfg.VectorDim <= 0 {
		cfg.VectorDim = 1536
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 200 * 1024 * 1024
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.QdrantURL == "" {
		return fmt.Errorf("QDRANT_URL is required")
	}
	if c.QdrantCollection == "" {
		return fmt.Errorf("QDRANT_COLLECTION is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
