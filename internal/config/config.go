// Package config loads the specgate configuration from defaults, the global
// and local config files, and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the specgate CLI tool configuration. Directory
// paths are relative to the workspace root unless absolute.
type Configuration struct {
	SpecsDir     string `koanf:"specs_dir" validate:"required"`
	TasksDir     string `koanf:"tasks_dir" validate:"required"`
	HistoryDir   string `koanf:"history_dir" validate:"required"`
	StateDir     string `koanf:"state_dir" validate:"required"`
	RegistryPath string `koanf:"registry_path" validate:"required"`
	CatalogPath  string `koanf:"catalog_path" validate:"required"`
	StrictGates  bool   `koanf:"strict_gates"`  // Gate violations fail the check exit code
	NoColor      bool   `koanf:"no_color"`      // Disable colored output
	ShowProgress bool   `koanf:"show_progress"` // Show progress indicators (spinners) during execution
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	// Apply defaults first
	defaults := GetDefaults()
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Load global config if it exists
	homeDir, err := os.UserHomeDir()
	if err == nil {
		globalPath := filepath.Join(homeDir, ".specgate", "config.json")
		if _, err := os.Stat(globalPath); err == nil {
			if err := k.Load(file.Provider(globalPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	// Load local config if it exists
	if localConfigPath != "" {
		if _, err := os.Stat(localConfigPath); err == nil {
			if err := k.Load(file.Provider(localConfigPath), json.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load local config: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	k.Load(env.Provider("SPECGATE_", ".", envTransform), nil)

	// Unmarshal into struct
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// NO_COLOR is honored in addition to the config key
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}

	return &cfg, nil
}

// envTransform converts environment variable names to config keys
// Example: SPECGATE_SPECS_DIR -> specs_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "SPECGATE_"))
}
