// Package tools wraps the external command-line converters the build chain
// delegates to. The converters are opaque executables; this package's only
// contract with them is argument order and exit status. Everything above it
// talks to the narrow Runner / AssetConverter / Packager interfaces so the
// merge engine and pipeline never depend on which binaries are installed.
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tobimods/modkit/internal/ctxlog"
)

// Result captures one finished tool invocation.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Output returns stderr if present, else stdout, trimmed. External tools are
// inconsistent about which stream carries their diagnostics.
func (r Result) Output() string {
	if s := strings.TrimSpace(r.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(r.Stdout)
}

// Runner executes one external tool invocation. It is the seam for testing
// the pipeline with fakes instead of real executables.
type Runner interface {
	Run(ctx context.Context, dir, exe string, args ...string) (Result, error)
}

// ToolError reports a failed external tool: missing executable, non-zero
// exit, or timeout. The tool's captured output is reported verbatim.
type ToolError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExecRunner runs tools as real subprocesses, bounded by a timeout.
type ExecRunner struct {
	// Timeout bounds each invocation; zero means no bound.
	Timeout time.Duration
}

// Run executes exe with args in dir, capturing both output streams. A run
// past the timeout is killed and reported as failed.
func (r *ExecRunner) Run(ctx context.Context, dir, exe string, args ...string) (Result, error) {
	logger := ctxlog.FromContext(ctx)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	logger.Debug("Running external tool.", "exe", exe, "args", args)
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", r.Timeout)
		}
		logger.Error("External tool failed.", "exe", exe, "error", err)
		return res, &ToolError{Tool: exe, Args: args, Output: res.Output(), Err: err}
	}

	logger.Debug("External tool finished.", "exe", exe, "duration", res.Duration)
	return res, nil
}
