package config

import (
	"os"
	"path/filepath"
)

// ClientConfig holds settings for the courtside CLI.
type ClientConfig struct {
	DataDir          string
	RemoteURL        string
	APIKey           string
	HTTPTimeout      Duration
	AutoSyncInterval Duration
	Log              LogConfig
}

// LoadClient reads CLI configuration from the environment. APIKey is empty
// when unset; callers fall back to the key saved in the data directory.
func LoadClient() ClientConfig {
	return ClientConfig{
		DataDir:          envOrDefault(envDataDir, defaultDataDir()),
		RemoteURL:        baseURLEnvOrDefault(envRemoteURL, defaultRemoteURL),
		APIKey:           envOrDefault(envClientAPIKey, ""),
		HTTPTimeout:      durationEnvOrDefault(envHTTPTimeout, defaultHTTPTimeout),
		AutoSyncInterval: durationEnvOrDefault(envAutoSyncInterval, defaultAutoSyncInterval),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, "warn"),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultDataDirName
	}
	return filepath.Join(home, defaultDataDirName)
}
