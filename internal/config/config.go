package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	Session   SessionConfig
	Recommend RecommendConfig
	Ai        AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type CatalogConfig struct {
	FilePath   string
	TablesPath string // optional YAML synonym overrides
}

type SessionConfig struct {
	TTL          time.Duration
	SnapshotPath string
}

type RecommendConfig struct {
	MaxProducts       int
	LowStockThreshold int
	PriceLowMax       float64
	PriceHighMin      float64
}

type AIConfig struct {
	LLMProvider string // "ollama", "huggingface", or "" to disable
	LLMModel    string // e.g. "llama3", "qwen2.5"
	LLMBaseURL  string
	LLMAPIKey   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
		},
		Catalog: CatalogConfig{
			FilePath:   getEnv("CATALOG_FILE_PATH", "catalog.json"),
			TablesPath: getEnv("QUERY_TABLES_PATH", ""),
		},
		Session: SessionConfig{
			TTL:          time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
			SnapshotPath: getEnv("SESSION_SNAPSHOT_PATH", "sessions-backup.json"),
		},
		Recommend: RecommendConfig{
			MaxProducts:       getEnvAsInt("RECOMMEND_MAX_PRODUCTS", 5),
			LowStockThreshold: getEnvAsInt("RECOMMEND_LOW_STOCK_THRESHOLD", 5),
			PriceLowMax:       getEnvAsFloat("RECOMMEND_PRICE_LOW_MAX", 10),
			PriceHighMin:      getEnvAsFloat("RECOMMEND_PRICE_HIGH_MIN", 15),
		},
		Ai: AIConfig{
			LLMProvider: getEnv("LLM_PROVIDER", ""),
			LLMModel:    getEnv("LLM_MODEL", "llama3"),
			LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:   getEnv("LLM_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
