package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_FullConfig(t *testing.T) {
	out := &bytes.Buffer{}
	config, exit, err := Parse([]string{
		"-name", "LongerMiningSong",
		"-settings", "settings.yaml",
		"-dry-run",
		"-timeout", "90s",
		"-log-level", "debug",
		"defs/longer_song.hcl", "defs/extra",
	}, out)
	require.NoError(t, err)
	require.False(t, exit)
	require.Equal(t, "LongerMiningSong", config.ModName)
	require.Equal(t, "settings.yaml", config.SettingsPath)
	require.True(t, config.DryRun)
	require.Equal(t, 90*time.Second, config.Timeout)
	require.Equal(t, "debug", config.LogLevel)
	require.Equal(t, []string{"defs/longer_song.hcl", "defs/extra"}, config.DefinitionPaths)
}

func TestParse_ShorthandName(t *testing.T) {
	config, exit, err := Parse([]string{"-n", "MyMod", "defs"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	require.Equal(t, "MyMod", config.ModName)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	config, exit, err := Parse(nil, out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, config)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_MissingName(t *testing.T) {
	_, _, err := Parse([]string{"defs"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, exitErr.Message, "-name")
}

func TestParse_InvalidLogFormat(t *testing.T) {
	_, _, err := Parse([]string{"-name", "X", "-log-format", "xml", "defs"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	config, exit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, config)
	require.Contains(t, out.String(), "modkit")
}
