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
	MongoURI    string
	DBName      string
	Port        string
	GinMode     string
	CORSOrigins []string

	// Vector index
	IndexName      string
	VectorDim      int
	CandidateLimit int // cap on documents pulled for client-side scoring
	SearchK        int

	// Gemini (chat + embeddings)
	GeminiAPIKey    string
	ChatModel       string
	EmbeddingsModel string
	GeminiTier      string
	LLMTimeout      time.Duration

	// PII detection
	PIIEndpoint  string
	PIIModelName string
	PIIThreshold float64
	PIITimeout   time.Duration

	// Source document storage
	FileStorageDir string
	GridFSBucket   string
	MaxFileSize    int64

	// Redis (answer cache + task queue)
	RedisURL       string
	RedisPassword  string
	RedisDB        int
	AnswerCacheTTL time.Duration

	// Background monitor
	MonitorInterval time.Duration
	PiiAlertRatio   float64

	// Telemetry
	OTLPEndpoint string
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017/pdf_rag"),
		DBName:      getEnv("DB_NAME", "pdf_rag"),
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080"), ","),

		IndexName:      getEnv("INDEX_NAME", "doc_pages"),
		VectorDim:      getEnvInt("VECTOR_DIM", 1536),
		CandidateLimit: getEnvInt("CANDIDATE_LIMIT", 1000),
		SearchK:        getEnvInt("SEARCH_K", 10),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		ChatModel:       getEnv("CHAT_MODEL", "gemini-2.0-flash"),
		EmbeddingsModel: getEnv("EMBEDDINGS_MODEL", "text-embedding-004"),
		GeminiTier:      getEnv("GEMINI_TIER", "free"),
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 30*time.Second),

		PIIEndpoint:  getEnv("PII_ENDPOINT", ""),
		PIIModelName: getEnv("PII_MODEL_NAME", "molise-ai/pii-detector-ai4privacy"),
		PIIThreshold: getEnvFloat64("PII_THRESHOLD", 0.8),
		PIITimeout:   getEnvDuration("PII_TIMEOUT", 15*time.Second),

		FileStorageDir: getEnv("FILE_STORAGE_DIR", "./storage"),
		GridFSBucket:   getEnv("GRIDFS_BUCKET", "source_pdfs"),
		MaxFileSize:    getEnvInt64("MAX_FILE_SIZE", 104857600), // 100MB

		RedisURL:       getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		AnswerCacheTTL: getEnvDuration("ANSWER_CACHE_TTL", 10*time.Minute),

		MonitorInterval: getEnvDuration("MONITOR_INTERVAL", 15*time.Minute),
		PiiAlertRatio:   getEnvFloat64("PII_ALERT_RATIO", 0.5),

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	if cfg.PIIEndpoint == "" {
		return nil, fmt.Errorf("PII_ENDPOINT is required - set it in .env file")
	}

	if cfg.VectorDim <= 0 {
		return nil, fmt.Errorf("VECTOR_DIM must be positive, got %d", cfg.VectorDim)
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
