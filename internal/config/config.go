// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the draft service configuration, loaded from environment
// variables with a best-effort .env overlay. Autosave scheduling is a client
// concern; the server carries no interval setting.
type Config struct {
	Port        string
	DataDir     string
	LogDir      string
	DebugMode   bool
	StorageType string // memory | file | sqlite
	SQLitePath  string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	// Optional .env file
	godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DataDir:     getEnvPath("DATA_DIR", "data"),
		LogDir:      getEnvPath("LOG_DIR", "logs"),
		DebugMode:   getEnvBool("DEBUG_MODE", true),
		StorageType: getEnv("STORAGE_TYPE", "file"),
		SQLitePath:  getEnv("SQLITE_PATH", "data/drafts.db"),
	}

	switch cfg.StorageType {
	case "memory", "file", "sqlite":
	default:
		return nil, fmt.Errorf("unknown STORAGE_TYPE %q", cfg.StorageType)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}

	return path
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}
