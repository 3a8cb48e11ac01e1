// Package settings loads the tool configuration file: where the external
// converters live, where the extracted game data sits, and where builds go.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the root of the YAML settings file.
type Settings struct {
	// Tools configures the external converter executables.
	Tools ToolsSettings `yaml:"tools"`
	// Paths configures the directory layout.
	Paths PathsSettings `yaml:"paths"`
	// Merge configures the definition-application engine.
	Merge MergeSettings `yaml:"merge"`
}

// ToolsSettings locates and parameterizes the external tools.
type ToolsSettings struct {
	// UtilitiesDir holds the converter executables.
	UtilitiesDir string `yaml:"utilities_dir"`
	// UAssetGUIExe is the JSON<->uasset converter binary name.
	UAssetGUIExe string `yaml:"uassetgui_exe"`
	// RetocExe is the zen archive packager binary name.
	RetocExe string `yaml:"retoc_exe"`
	// EngineVersion is passed to the asset converter.
	EngineVersion string `yaml:"engine_version"`
	// RetocVersion is passed to the packager's --version flag.
	RetocVersion string `yaml:"retoc_version"`
	// Timeout bounds each external tool invocation; a run past it is
	// treated as failed, not hung.
	Timeout time.Duration `yaml:"timeout"`
}

// PathsSettings is the directory layout for builds.
type PathsSettings struct {
	// DataDir holds the extracted base-game JSON tree that target file
	// paths are resolved against.
	DataDir string `yaml:"data_dir"`
	// WorkDir holds per-mod scratch directories; each build owns
	// <work_dir>/<mod name> exclusively.
	WorkDir string `yaml:"work_dir"`
	// OutputDir receives the final zip archive.
	OutputDir string `yaml:"output_dir"`
}

// MergeSettings tunes document traversal.
type MergeSettings struct {
	// NameField is the record name key used when converted schemas
	// represent object collections as arrays of records.
	NameField string `yaml:"name_field"`
	// CreateMissing lets change paths create absent intermediate mapping
	// levels. Off by default.
	CreateMissing bool `yaml:"create_missing"`
}

// Default returns the settings used when no file is present, rooted at dir.
func Default(dir string) *Settings {
	s := &Settings{
		Paths: PathsSettings{
			DataDir:   filepath.Join(dir, "jsondata"),
			WorkDir:   filepath.Join(dir, "mymodfiles"),
			OutputDir: filepath.Join(dir, "out"),
		},
		Tools: ToolsSettings{
			UtilitiesDir: filepath.Join(dir, "utilities"),
		},
	}
	s.applyDefaults()
	return s
}

// Load reads and validates a YAML settings file. Relative directory settings
// are resolved against the file's own directory.
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	s.applyDefaults()
	s.resolveRelative(filepath.Dir(path))
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.Tools.UAssetGUIExe == "" {
		s.Tools.UAssetGUIExe = "UAssetGUI.exe"
	}
	if s.Tools.RetocExe == "" {
		s.Tools.RetocExe = "retoc.exe"
	}
	if s.Tools.EngineVersion == "" {
		s.Tools.EngineVersion = "VER_UE5_1"
	}
	if s.Tools.RetocVersion == "" {
		s.Tools.RetocVersion = "UE5_1"
	}
	if s.Tools.Timeout <= 0 {
		s.Tools.Timeout = 5 * time.Minute
	}
	if s.Merge.NameField == "" {
		s.Merge.NameField = "Name"
	}
}

func (s *Settings) resolveRelative(base string) {
	for _, p := range []*string{
		&s.Tools.UtilitiesDir,
		&s.Paths.DataDir,
		&s.Paths.WorkDir,
		&s.Paths.OutputDir,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks that the required directory settings are present.
func (s *Settings) Validate() error {
	if s.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	if s.Paths.WorkDir == "" {
		return fmt.Errorf("paths.work_dir is required")
	}
	if s.Paths.OutputDir == "" {
		return fmt.Errorf("paths.output_dir is required")
	}
	if s.Tools.UtilitiesDir == "" {
		return fmt.Errorf("tools.utilities_dir is required")
	}
	return nil
}

// UAssetGUIPath returns the full path of the asset converter executable.
func (s *Settings) UAssetGUIPath() string {
	return filepath.Join(s.Tools.UtilitiesDir, s.Tools.UAssetGUIExe)
}

// RetocPath returns the full path of the packager executable.
func (s *Settings) RetocPath() string {
	return filepath.Join(s.Tools.UtilitiesDir, s.Tools.RetocExe)
}
