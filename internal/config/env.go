package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
)

// EnvName returns the active environment name used to pick a dotenv file.
func EnvName() string {
	if value := strings.TrimSpace(os.Getenv("ORATO_ENV")); value != "" {
		return value
	}
	return "dev"
}

// LoadEnv reads config/envs/.env.<env> and .env from the working directory.
// Variables already present in the process environment win. Missing files are
// skipped; the returned slice lists the files that were applied.
func LoadEnv(env string) ([]string, error) {
	env = strings.TrimSpace(env)
	if env == "" {
		env = EnvName()
	}
	candidates := []string{
		filepath.Join("config", "envs", ".env."+env),
		".env",
	}
	var loaded []string
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if err := gotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
