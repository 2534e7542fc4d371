package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"quarters/internal/zones"

	"gopkg.in/yaml.v3"
)

const envTimezone = "QUARTERCTL_TZ"

// Config is the on-disk quarterctl configuration.
type Config struct {
	Timezone string `yaml:"timezone"`
}

// DefaultConfigPath is $XDG_CONFIG_HOME/quarterctl/config.yaml or the
// platform equivalent. It returns "" when no config dir is known.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quarterctl", "config.yaml")
}

// LoadConfig reads path. A missing file yields an empty Config unless
// required is set.
func LoadConfig(path string, required bool) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	return cfg, nil
}

// resolveTimezone picks the first non-empty of flag, env and config, then UTC.
func resolveTimezone(flagValue, envValue string, cfg Config) string {
	for _, candidate := range []string{flagValue, envValue, cfg.Timezone} {
		if value := strings.TrimSpace(candidate); value != "" {
			return value
		}
	}
	return zones.Default
}
