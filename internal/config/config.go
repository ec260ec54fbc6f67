package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the API server.
type Config struct {
	Port    string
	APIKey  string
	Store   StoreConfig
	Metrics MetricsConfig
	Log     LogConfig
}

// StoreConfig selects the table store backend.
type StoreConfig struct {
	Driver string
	DSN    string
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:   envOrDefault(envPort, defaultPort),
		APIKey: envOrDefault(envAPIKey, ""),
		Store: StoreConfig{
			Driver: envOrDefault(envStoreDriver, defaultStoreDriver),
			DSN:    envOrDefault(envStoreDSN, defaultStoreDSN),
		},
		Metrics: loadMetrics(),
		Log:     loadLog(),
	}
}

func loadLog() LogConfig {
	return LogConfig{
		Level:  envOrDefault(envLogLevel, defaultLogLevel),
		Format: envOrDefault(envLogFormat, defaultLogFormat),
	}
}

// LoadDotEnv merges the given .env files (default ".env") into the process
// environment. Variables already set win; missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
