package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tobimods/modkit/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("modkit", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
modkit - Builds game mod archives from declarative definition files.

Usage:
  modkit -name MOD_NAME [options] DEF_PATH [DEF_PATH...]

Arguments:
  DEF_PATH
    Path to a single .hcl definition file or a directory containing
    .hcl files. Paths are applied in the order given; when two
    definitions change the same property, the later one wins.

Options:
`)
		flagSet.PrintDefaults()
	}

	nameFlag := flagSet.String("name", "", "Name of the mod to build; also names the output archive.")
	nFlag := flagSet.String("n", "", "Name of the mod to build (shorthand).")
	settingsFlag := flagSet.String("settings", "", "Path to the YAML settings file. Defaults to built-in settings rooted at the working directory.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Merge and validate definitions without running the converters or producing an archive.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Override the settings file's per-tool timeout, e.g. '90s' or '10m'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No definition paths provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	name := *nameFlag
	if name == "" {
		name = *nFlag
	}
	if name == "" {
		return nil, false, &ExitError{Code: 2, Message: "a mod name is required: pass -name"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DefinitionPaths: flagSet.Args(),
		ModName:         name,
		SettingsPath:    *settingsFlag,
		DryRun:          *dryRunFlag,
		Timeout:         *timeoutFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "mod", config.ModName)
	return config, false, nil
}
