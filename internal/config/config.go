package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	// Upload limits
	MaxFileSize  int64
	AllowedTypes []string

	// Gemini. The API key is optional: without it the service runs with
	// keyword retrieval and extractive answers only.
	GeminiAPIKey         string
	GeminiModel          string
	GeminiEmbeddingModel string
	GeminiMaxTokens      int
	GeminiTemperature    float64

	// Retrieval tuning
	ChunkSize    int
	WindowWords  int
	OverlapWords int
	MinTextLen   int
	TopK         int

	// Capability call budget
	RequestTimeout time.Duration

	// Redis Configuration (optional; caching and rate limiting are skipped
	// when unset)
	RedisURL      string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimitReqs   int
	RateLimitWindow int

	// Snapshot persistence
	SnapshotPath     string
	SnapshotInterval time.Duration

	// Telemetry
	OTLPEndpoint string
	ServiceName  string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		MaxFileSize:  getEnvInt64("MAX_FILE_SIZE", 10485760), // 10MB
		AllowedTypes: strings.Split(getEnv("ALLOWED_FILE_TYPES", ".pdf,.txt,.md,.xlsx"), ","),

		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		GeminiMaxTokens:      getEnvInt("GEMINI_MAX_TOKENS", 500),
		GeminiTemperature:    getEnvFloat64("GEMINI_TEMPERATURE", 0.7),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 2000),
		WindowWords:  getEnvInt("WINDOW_WORDS", 200),
		OverlapWords: getEnvInt("OVERLAP_WORDS", 50),
		MinTextLen:   getEnvInt("MIN_TEXT_LENGTH", 50),
		TopK:         getEnvInt("RETRIEVAL_TOP_K", 5),

		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Hour),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		SnapshotPath:     getEnv("SNAPSHOT_PATH", "./data/room.snap"),
		SnapshotInterval: getEnvDuration("SNAPSHOT_INTERVAL", 5*time.Minute),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),
		ServiceName:  getEnv("SERVICE_NAME", "room-assistant"),
	}

	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("RETRIEVAL_TOP_K must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
