package config

import (
	"errors"
	"os"
	"path/filepath"

	"fjacquet/ledger-sync/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, if one exists. Variables already set are kept. It
// returns the file loaded, or "" when none was found.
func LoadEnv(logger logging.Logger) (string, error) {
	candidates := []string{".env", filepath.Join("..", ".env")}
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return "", err
		}
		if logger != nil {
			logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
		}
		return envFile, nil
	}
	if logger != nil {
		logger.Debug("No .env file found, using environment variables")
	}
	return "", nil
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
