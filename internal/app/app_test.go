package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testGameJSON = `{
  "NameMap": ["DurationMagnitude", "ScalableFloatMagnitude", "Value"],
  "Exports": [
    {
      "ObjectName": "Default__GE_MiningSong_CompleteBuff_C",
      "Data": [
        {"Name": "DurationMagnitude", "Value": [
          {"Name": "ScalableFloatMagnitude", "Value": [
            {"Name": "Value", "Value": 60}
          ]}
        ]}
      ]
    }
  ]
}`

const testDefinition = `
definition {
  description = "Mining song lasts half an hour."

  target "Game/Abilities/GE_MiningSong_CompleteBuff.json" {
    layout = "exports"

    object "GE_MiningSong_CompleteBuff" {
      change "DurationMagnitude.ScalableFloatMagnitude.Value" {
        value = 1800
      }
    }
  }
}
`

// setupProject lays out a settings file, game data, and a definition in a
// temp directory, returning the settings path and the definitions dir.
func setupProject(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	settingsPath := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte(`
paths:
  data_dir: jsondata
  work_dir: work
  output_dir: out
tools:
  utilities_dir: utilities
`), 0o644))

	gamePath := filepath.Join(dir, "jsondata", "Game", "Abilities", "GE_MiningSong_CompleteBuff.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(gamePath), 0o755))
	require.NoError(t, os.WriteFile(gamePath, []byte(testGameJSON), 0o644))

	defsDir := filepath.Join(dir, "definitions")
	require.NoError(t, os.MkdirAll(defsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(defsDir, "longer_song.hcl"), []byte(testDefinition), 0o644))

	return settingsPath, defsDir
}

func TestApp_DryRunBuild(t *testing.T) {
	settingsPath, defsDir := setupProject(t)

	config, err := NewConfig(Config{
		DefinitionPaths: []string{defsDir},
		ModName:         "LongerMiningSong",
		SettingsPath:    settingsPath,
		DryRun:          true,
	})
	require.NoError(t, err)

	a, logs := SetupAppTest(t, config)
	require.Len(t, a.Definitions(), 1)
	require.NoError(t, a.Run(context.Background()))
	require.Contains(t, logs.String(), "Stage started.")

	// The merged document landed in the workspace with the new value.
	merged, err := os.ReadFile(filepath.Join(filepath.Dir(settingsPath),
		"work", "LongerMiningSong", "jsonfiles", "Game", "Abilities", "GE_MiningSong_CompleteBuff.json"))
	require.NoError(t, err)
	require.Contains(t, string(merged), `"Value": 1800`)
}

func TestNewApp_PanicsWithoutDefinitions(t *testing.T) {
	settingsPath, _ := setupProject(t)
	empty := t.TempDir()

	config, err := NewConfig(Config{
		DefinitionPaths: []string{empty},
		ModName:         "Nothing",
		SettingsPath:    settingsPath,
	})
	require.NoError(t, err)

	require.Panics(t, func() {
		NewApp(&SafeBuffer{}, config)
	})
}

func TestNewConfig_Validation(t *testing.T) {
	_, err := NewConfig(Config{ModName: "X"})
	require.ErrorContains(t, err, "definition path")

	_, err = NewConfig(Config{DefinitionPaths: []string{"defs"}})
	require.ErrorContains(t, err, "mod name")
}
