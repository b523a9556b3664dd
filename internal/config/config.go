package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Auth     AuthConfig
	Payments PaymentsConfig
	Rates    RatesConfig
	Geo      GeoConfig
	Kafka    KafkaConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RateLimit    RateLimitConfig
}

// RateLimitConfig caps per-caller attempts on the enrollment workflow routes.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// AuthConfig holds identity-provider configuration.
type AuthConfig struct {
	JWTSecret string
}

// PaymentsConfig holds card-gateway and manual-channel configuration.
type PaymentsConfig struct {
	GatewayBaseURL string
	GatewaySecret  string
	CallbackURL    string
	ReturnURL      string
	ReviewWindow   time.Duration // manual-channel human review SLA
}

// RatesConfig holds exchange-rate lookup configuration.
type RatesConfig struct {
	URL           string
	Timeout       time.Duration
	FallbackRate  float64 // used whenever the live lookup cannot be trusted
	BaseCurrency  string
	LocalCurrency string
	LocalCountry  string // ISO country code whose learners see manual-local emphasized
}

// GeoConfig holds advisory geolocation lookup configuration.
type GeoConfig struct {
	URL      string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// KafkaConfig holds notification-event publishing configuration.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			RateLimit: RateLimitConfig{
				Limit:  getIntEnv("RATE_LIMIT_ATTEMPTS", 20),
				Window: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "academy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "academy-enrollment"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Payments: PaymentsConfig{
			GatewayBaseURL: getEnv("GATEWAY_BASE_URL", "https://api.gateway.example"),
			GatewaySecret:  getEnv("GATEWAY_SECRET", ""),
			CallbackURL:    getEnv("GATEWAY_CALLBACK_URL", ""),
			ReturnURL:      getEnv("GATEWAY_RETURN_URL", ""),
			ReviewWindow:   getDurationEnv("REVIEW_WINDOW", 24*time.Hour),
		},
		Rates: RatesConfig{
			URL:           getEnv("RATES_URL", "https://open.er-api.com/v6/latest/USD"),
			Timeout:       getDurationEnv("RATES_TIMEOUT", 3*time.Second),
			FallbackRate:  getFloatEnv("RATES_FALLBACK", 136.61),
			BaseCurrency:  getEnv("RATES_BASE", "USD"),
			LocalCurrency: getEnv("RATES_LOCAL", "ETB"),
			LocalCountry:  getEnv("RATES_LOCAL_COUNTRY", "ET"),
		},
		Geo: GeoConfig{
			URL:      getEnv("GEO_URL", ""),
			Timeout:  getDurationEnv("GEO_TIMEOUT", 2*time.Second),
			CacheTTL: getDurationEnv("GEO_CACHE_TTL", time.Hour),
		},
		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: getSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "enrollment-events"),
		},
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
