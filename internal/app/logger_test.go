package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_DefaultLevelIsWarn(t *testing.T) {
	out := &bytes.Buffer{}
	logger := newLogger("", "text", out)

	logger.Info("quiet")
	require.Empty(t, out.String())

	logger.Warn("loud")
	require.Contains(t, out.String(), "loud")
}

func TestNewLogger_DebugLevelAndJSONFormat(t *testing.T) {
	out := &bytes.Buffer{}
	logger := newLogger("debug", "json", out)

	logger.Debug("details", "stage", "merge")
	require.Contains(t, out.String(), `"msg":"details"`)
	require.Contains(t, out.String(), `"stage":"merge"`)
}
