package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// DefinitionPaths are .hcl definition files or directories of them.
	DefinitionPaths []string
	// ModName names the build; the archive and scratch directory use it.
	ModName string
	// SettingsPath points at the YAML settings file. Empty means built-in
	// defaults rooted at the current directory.
	SettingsPath string
	// DryRun merges and validates without running the external tools.
	DryRun bool
	// Timeout overrides the settings file's external tool timeout when
	// positive.
	Timeout time.Duration

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.DefinitionPaths) == 0 {
		return nil, errors.New("at least one definition path is required")
	}
	if cfg.ModName == "" {
		return nil, errors.New("mod name is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
