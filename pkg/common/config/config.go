package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers  []string
	KafkaTopic    string
	EventsEnabled bool
	KafkaGroupID  string

	// Sentiment (APILayer-style scoring service)
	SentimentAPIKey  string
	SentimentBaseURL string

	// LLM (category + spam classification)
	LLMAPIKey    string
	LLMBaseURL   string
	LLMModelName string

	// Geolocation
	GeoBaseURL  string
	GeoCacheTTL time.Duration

	// External classifier calls share one bounded timeout.
	ClassifierTimeout time.Duration

	// Prompt/label overrides for the LLM classifiers.
	ClassifierRulesPath string

	// Admin
	AdminAPIKey string

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "reclamo"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "reclamo123"),
		PostgresDB:       getEnv("POSTGRES_DB", "reclamo"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:    getEnv("KAFKA_COMPLAINT_TOPIC", "complaint-events"),
		EventsEnabled: getBoolEnv("COMPLAINT_EVENTS_ENABLED", false),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "reclamo-platform"),

		SentimentAPIKey:  getEnv("SENTIMENT_API_KEY", ""),
		SentimentBaseURL: getEnv("SENTIMENT_BASE_URL", "https://api.apilayer.com/sentiment/analysis"),

		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModelName: getEnv("LLM_MODEL_NAME", "gpt-4"),

		GeoBaseURL:  getEnv("GEO_BASE_URL", "http://ip-api.com"),
		GeoCacheTTL: getDuration("GEO_CACHE_TTL", 24*time.Hour),

		ClassifierTimeout: getDuration("CLASSIFIER_TIMEOUT", 10*time.Second),

		ClassifierRulesPath: getEnv("CLASSIFIER_RULES_PATH", ""),

		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var parts []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
