package config

import (
	"os"
	"path/filepath"
)

// Client defaults, overridable by flags.
const (
	DefaultServerURL = "http://localhost:8080"
	DefaultTransport = "http"
)

// ServerURL returns IKIGAI_SERVER_URL or the local default.
func ServerURL() string {
	return getEnv("IKIGAI_SERVER_URL", DefaultServerURL)
}

// Transport returns IKIGAI_TRANSPORT or the default plain-text transport.
func Transport() string {
	return getEnv("IKIGAI_TRANSPORT", DefaultTransport)
}

// DBPath returns IKIGAI_DB_PATH or a file in the user config directory.
func DBPath() string {
	return getEnv("IKIGAI_DB_PATH", filepath.Join(dataDir(), "ikigai.db"))
}

// LogPath returns the default client log file.
func LogPath() string {
	return filepath.Join(dataDir(), "ikigai.log")
}

func dataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ikigai"
	}
	return filepath.Join(dir, "ikigai")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
