package config

import (
	"os"
	"strconv"

	"datalens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Charts    ChartConfig
	Retrieval RetrievalConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UploadConfig holds file ingestion settings
type UploadConfig struct {
	MaxBytes         int64
	TempDir          string
	SheetConcurrency int64
}

// ChartConfig holds chart recommendation caps
type ChartConfig struct {
	MaxBins          int
	MaxScatterPoints int
	MaxSeriesPoints  int
}

// RetrievalConfig holds chunking and retrieval settings
type RetrievalConfig struct {
	ChunkSize int
	MaxChunks int
	TopKMax   int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Upload: UploadConfig{
			MaxBytes:         int64(getEnvIntOrDefault("UPLOAD_MAX_BYTES", 50*1024*1024)),
			TempDir:          getEnvOrDefault("UPLOAD_TEMP_DIR", os.TempDir()),
			SheetConcurrency: int64(getEnvIntOrDefault("SHEET_CONCURRENCY", 4)),
		},
		Charts: ChartConfig{
			MaxBins:          getEnvIntOrDefault("CHART_MAX_BINS", 30),
			MaxScatterPoints: getEnvIntOrDefault("CHART_MAX_SCATTER_POINTS", 800),
			MaxSeriesPoints:  getEnvIntOrDefault("CHART_MAX_SERIES_POINTS", 300),
		},
		Retrieval: RetrievalConfig{
			ChunkSize: getEnvIntOrDefault("RETRIEVAL_CHUNK_SIZE", 700),
			MaxChunks: getEnvIntOrDefault("RETRIEVAL_MAX_CHUNKS", 120),
			TopKMax:   getEnvIntOrDefault("RETRIEVAL_TOP_K_MAX", 5),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if c.Upload.SheetConcurrency < 1 {
		return errors.ConfigInvalid("SHEET_CONCURRENCY must be at least 1")
	}
	if c.Charts.MaxBins < 5 || c.Charts.MaxBins > 40 {
		return errors.ConfigInvalid("CHART_MAX_BINS must be within [5, 40]")
	}
	if c.Retrieval.ChunkSize < 100 {
		return errors.ConfigInvalid("RETRIEVAL_CHUNK_SIZE must be at least 100")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
