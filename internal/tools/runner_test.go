package tools

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecRunner_MissingExecutable(t *testing.T) {
	r := &ExecRunner{}
	_, err := r.Run(context.Background(), "", filepath.Join(t.TempDir(), "no-such-tool"))
	require.Error(t, err)

	var te *ToolError
	require.ErrorAs(t, err, &te)
	require.Contains(t, te.Tool, "no-such-tool")
}

func TestToolError_CarriesVerbatimOutput(t *testing.T) {
	te := &ToolError{
		Tool:   "UAssetGUI.exe",
		Args:   []string{"fromjson", "in.json", "out.uasset"},
		Output: "Unhandled exception: bad NameMap index",
		Err:    errors.New("exit status 1"),
	}
	require.Contains(t, te.Error(), "Unhandled exception: bad NameMap index")
	require.Contains(t, te.Error(), "fromjson")
}

func TestResult_OutputPrefersStderr(t *testing.T) {
	r := Result{Stdout: "progress 100%\n", Stderr: "error: bad version\n"}
	require.Equal(t, "error: bad version", r.Output())

	r = Result{Stdout: "done\n"}
	require.Equal(t, "done", r.Output())
}

func TestUAssetGUI_MissingExeReported(t *testing.T) {
	u := &UAssetGUI{Exe: filepath.Join(t.TempDir(), "UAssetGUI.exe"), EngineVersion: "VER_UE5_1", Runner: &ExecRunner{}}
	err := u.FromJSON(context.Background(), "in.json", "out.uasset")
	var te *ToolError
	require.ErrorAs(t, err, &te)
	require.Contains(t, te.Error(), "not found")
}
