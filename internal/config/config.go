package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret string
	// Bcrypt hash of the pairing key extensions present on first contact.
	PairingKeyHash string
}

type APIKeys struct {
	GoogleGemini  string
	OpenAI        string
	OpenAIBase    string
	ExchangeTopic string // Topic for exchange-appended events
}

type AIConfig struct {
	// Stored defaults. Explicit fields in a chat request always win; these
	// only fill gaps the sidebar leaves empty.
	DefaultProvider string // "gemini", "openai"
	DefaultModel    string
	OllamaBaseURL   string
	OllamaModel     string
	OllamaStrategy  string // "normal" or "smart"
	OfflineTimeout  time.Duration
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
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "chrome-extension://*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:      getEnv("JWT_SECRET", ""),
			PairingKeyHash: getEnv("PAIRING_KEY_HASH", ""),
		},
		Keys: APIKeys{
			GoogleGemini:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:        getEnv("OPENAI_API_KEY", ""),
			OpenAIBase:    getEnv("OPENAI_BASE_URL", ""),
			ExchangeTopic: getEnv("EXCHANGE_APPENDED_TOPIC_NAME", "EXCHANGE_APPENDED"),
		},
		Ai: AIConfig{
			DefaultProvider: getEnv("LLM_PROVIDER", "gemini"),
			DefaultModel:    getEnv("LLM_MODEL", ""),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:     getEnv("OLLAMA_MODEL", "mistral"),
			OllamaStrategy:  getEnv("OLLAMA_STRATEGY", "normal"),
			OfflineTimeout:  getEnvAsDuration("OFFLINE_TIMEOUT", 30*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
