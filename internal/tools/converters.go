package tools

import (
	"context"
	"fmt"
	"os"
)

// AssetConverter converts between the game's binary asset format and JSON.
type AssetConverter interface {
	// FromJSON writes the binary asset for a JSON document.
	FromJSON(ctx context.Context, jsonPath, assetPath string) error
	// ToJSON writes the JSON document for a binary asset.
	ToJSON(ctx context.Context, assetPath, jsonPath string) error
}

// Packager assembles a directory of converted binary assets into a loadable
// archive.
type Packager interface {
	Pack(ctx context.Context, assetDir, outputPath string) error
}

// UAssetGUI drives the UAssetGUI command-line converter.
type UAssetGUI struct {
	Exe           string
	EngineVersion string
	Runner        Runner
}

// FromJSON converts one JSON document back to a .uasset.
func (u *UAssetGUI) FromJSON(ctx context.Context, jsonPath, assetPath string) error {
	if err := checkExe(u.Exe); err != nil {
		return err
	}
	res, err := u.Runner.Run(ctx, "", u.Exe, "fromjson", jsonPath, assetPath, u.EngineVersion)
	if err != nil {
		return err
	}
	// Some UAssetGUI versions exit zero on failure; the output file is the
	// ground truth.
	if _, statErr := os.Stat(assetPath); statErr != nil {
		return &ToolError{
			Tool:   u.Exe,
			Args:   []string{"fromjson", jsonPath, assetPath},
			Output: res.Output(),
			Err:    fmt.Errorf("no output written: %w", statErr),
		}
	}
	return nil
}

// ToJSON dumps one binary asset to JSON.
func (u *UAssetGUI) ToJSON(ctx context.Context, assetPath, jsonPath string) error {
	if err := checkExe(u.Exe); err != nil {
		return err
	}
	res, err := u.Runner.Run(ctx, "", u.Exe, "tojson", assetPath, jsonPath, u.EngineVersion)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(jsonPath); statErr != nil {
		return &ToolError{
			Tool:   u.Exe,
			Args:   []string{"tojson", assetPath, jsonPath},
			Output: res.Output(),
			Err:    fmt.Errorf("no output written: %w", statErr),
		}
	}
	return nil
}

// Retoc drives the retoc archive packager.
type Retoc struct {
	Exe     string
	Version string
	WorkDir string
	Runner  Runner
}

// Pack converts a directory of legacy assets into a zen archive at
// outputPath (the .utoc; retoc writes the sibling .ucas and .pak itself).
func (r *Retoc) Pack(ctx context.Context, assetDir, outputPath string) error {
	if err := checkExe(r.Exe); err != nil {
		return err
	}
	_, err := r.Runner.Run(ctx, r.WorkDir, r.Exe, "to-zen", "--version", r.Version, assetDir, outputPath)
	return err
}

// checkExe reports a missing tool before attempting to run it, so the user
// sees "not installed" rather than a bare exec failure.
func checkExe(exe string) error {
	if _, err := os.Stat(exe); err != nil {
		return &ToolError{Tool: exe, Err: fmt.Errorf("executable not found: %w", err)}
	}
	return nil
}
