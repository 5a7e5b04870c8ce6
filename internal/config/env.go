package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvDisable turns the publisher off regardless of the file setting.
const EnvDisable = "DISABLE_BUGSNAG"

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env and .env.local when present. godotenv never
// overrides variables that are already set in the process environment.
func loadEnvFiles() {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load env file", "file", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", name)
	}
}

func applyEnvOverrides(cfg *Config) {
	raw, ok := os.LookupEnv(EnvDisable)
	if !ok {
		return
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil && v {
		cfg.Disabled = true
	}
}
