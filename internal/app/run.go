package app

import (
	"context"
	"fmt"

	"github.com/tobimods/modkit/internal/build"
	"github.com/tobimods/modkit/internal/ctxlog"
)

// Run executes a build of the configured mod from the loaded definitions.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	pipeline := build.NewPipeline(a.settings)
	pipeline.DryRun = a.config.DryRun

	rep, err := pipeline.Run(ctx, a.config.ModName, a.defs)
	if rep != nil {
		rep.Render(a.outW)
	}
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if !rep.OK() {
		return fmt.Errorf("build completed with %d failures", len(rep.Failures))
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
