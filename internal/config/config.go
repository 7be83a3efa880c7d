package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server ServerConfig
	Core   CoreConfig
	Auth   AuthConfig
	View   ViewConfig
}

type ServerConfig struct {
	Port string
}

type CoreConfig struct {
	BaseURL string
	Timeout time.Duration
	// OptionsTTL bounds how long backend/model option lists are cached.
	OptionsTTL time.Duration
}

type AuthConfig struct {
	// JWTSecret signs console session tokens. Empty disables auth.
	JWTSecret string
	// ConsoleToken is the shared secret exchanged for a session token.
	ConsoleToken string
	SessionTTL   time.Duration
}

type ViewConfig struct {
	// LogsPageSize is the page size for the interactive logs view.
	LogsPageSize int
	// ExportChunkSize bounds one chunk when writing large exports.
	ExportChunkSize int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "20010"),
		},
		Core: CoreConfig{
			BaseURL:    getEnv("CORE_BASE_URL", "http://localhost:20011"),
			Timeout:    getDuration("CORE_TIMEOUT", 30*time.Second),
			OptionsTTL: getDuration("OPTIONS_CACHE_TTL", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			ConsoleToken: getEnv("CONSOLE_TOKEN", ""),
			SessionTTL:   getDuration("SESSION_TTL", 24*time.Hour),
		},
		View: ViewConfig{
			LogsPageSize:    getInt("LOGS_PAGE_SIZE", 10),
			ExportChunkSize: getInt("EXPORT_CHUNK_SIZE", 50),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
