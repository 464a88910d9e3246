package application

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"framestat/internal/infrastructure/logger"
)

const (
	envPrefix      = "FRAMESTAT_"
	defaultEnvFile = ".env"
)

// LoadEnvFile copies FRAMESTAT_* settings from a dotenv file into the process
// environment and returns how many it applied. Variables already set in the
// environment win over the file, and keys without the prefix are ignored.
// An empty envFile means ".env", which may be absent; a file named
// explicitly must exist.
func LoadEnvFile(logger *logger.Logger, envFile string) (int, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = defaultEnvFile
	}

	values, err := godotenv.Read(envFile)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		logger.Debug("No .env file found", "path", envFile)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}

	applied, ignored := 0, 0
	for key, value := range values {
		if !strings.HasPrefix(key, envPrefix) {
			ignored++
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return applied, fmt.Errorf("failed to set %s: %w", key, err)
		}
		applied++
	}

	logger.Debug("Loaded env file", "path", envFile, "applied", applied, "ignored", ignored)
	return applied, nil
}
