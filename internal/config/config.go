package config

import (
	"os"
	"strconv"
	"time"
)

// BackendConfig holds settings for the document-analysis backend.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PollingConfig holds the health and processing-status polling schedule.
type PollingConfig struct {
	HealthInterval    time.Duration
	StatusDelay       time.Duration
	StatusInterval    time.Duration
	StatusMaxAttempts int
}

// SessionConfig bounds the per-client session registry and Q&A behaviour.
type SessionConfig struct {
	MaxSessions        int
	HistoryLimit       int
	HistoryLoadLimit   int
	SuggestionCacheTTL time.Duration
	DocumentCacheTTL   time.Duration
	AskRatePerMinute   int
}

// DatabaseConfig holds PostgreSQL database connection settings.
// Chat history falls back to memory when Host is empty.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// MinIOConfig holds object storage settings for exported reports.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// Enabled reports whether report storage was configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// LogConfig controls the zap logger.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	CORSOrigins string
	// BodyLimitMB caps uploads accepted by the gateway.
	BodyLimitMB int
	Backend     BackendConfig
	Polling     PollingConfig
	Session     SessionConfig
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Log         LogConfig
}

// DefaultBackendURL is used when neither LEGAL_API_URL nor NEXT_PUBLIC_API_URL is set.
const DefaultBackendURL = "http://localhost:8000"

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 50),
		Backend: BackendConfig{
			BaseURL: getEnv("LEGAL_API_URL", getEnv("NEXT_PUBLIC_API_URL", DefaultBackendURL)),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 120*time.Second),
		},
		Polling: PollingConfig{
			HealthInterval:    getEnvDuration("HEALTH_POLL_INTERVAL", 30*time.Second),
			StatusDelay:       getEnvDuration("STATUS_POLL_DELAY", 3*time.Second),
			StatusInterval:    getEnvDuration("STATUS_POLL_INTERVAL", 10*time.Second),
			StatusMaxAttempts: getEnvInt("STATUS_POLL_MAX_ATTEMPTS", 30),
		},
		Session: SessionConfig{
			MaxSessions:        getEnvInt("MAX_SESSIONS", 500),
			HistoryLimit:       getEnvInt("HISTORY_LIMIT", 20),
			HistoryLoadLimit:   getEnvInt("HISTORY_LOAD_LIMIT", 50),
			SuggestionCacheTTL: getEnvDuration("SUGGESTION_CACHE_TTL", 10*time.Minute),
			DocumentCacheTTL:   getEnvDuration("DOCUMENT_CACHE_TTL", 24*time.Hour),
			AskRatePerMinute:   getEnvInt("ASK_RATE_LIMIT", 30),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", "reports"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: getEnvDuration("MINIO_PRESIGN_EXPIRY", 15*time.Minute),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration accepts Go duration strings ("30s") or a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
