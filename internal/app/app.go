package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tobimods/modkit/internal/ctxlog"
	"github.com/tobimods/modkit/internal/definition"
	"github.com/tobimods/modkit/internal/settings"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	settings *settings.Settings
	defs     []*definition.Definition
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, loaded settings,
// and parsed definitions.
func NewApp(outW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var (
		s   *settings.Settings
		err error
	)
	if config.SettingsPath != "" {
		s, err = settings.Load(config.SettingsPath)
	} else {
		s = settings.Default(".")
		err = s.Validate()
	}
	if err != nil {
		// A failure to load settings is a fatal startup error.
		panic(fmt.Errorf("failed to load settings: %w", err))
	}
	if config.Timeout > 0 {
		s.Tools.Timeout = config.Timeout
	}
	logger.Debug("Settings loaded.",
		"data_dir", s.Paths.DataDir, "work_dir", s.Paths.WorkDir, "output_dir", s.Paths.OutputDir)

	defs, parseErrs, err := definition.NewLoader().Load(ctx, config.DefinitionPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load definitions: %w", err))
	}
	for _, perr := range parseErrs {
		logger.Warn("Definition skipped.", "error", perr)
	}
	if len(defs) == 0 {
		panic(fmt.Errorf("no usable definitions found in %v", config.DefinitionPaths))
	}
	logger.Debug("Definitions loaded.", "count", len(defs), "skipped", len(parseErrs))

	return &App{
		outW:     outW,
		logger:   logger,
		config:   config,
		settings: s,
		defs:     defs,
	}
}

// Definitions returns the loaded definitions. This is primarily for testing.
func (a *App) Definitions() []*definition.Definition {
	return a.defs
}
