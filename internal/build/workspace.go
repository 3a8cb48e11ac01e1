package build

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// workspace is one build's scratch directory under the work dir. Every build
// owns <work_dir>/<mod> exclusively and starts from a clean slate, so stale
// files from an earlier definition set can never leak into the archive.
type workspace struct {
	root string
}

func newWorkspace(workDir, mod string) *workspace {
	return &workspace{root: filepath.Join(workDir, mod)}
}

// jsonDir holds the staged and merged JSON documents.
func (w *workspace) jsonDir() string { return filepath.Join(w.root, "jsonfiles") }

// assetDir holds the converted binary assets, mirroring the in-game paths.
func (w *workspace) assetDir() string { return filepath.Join(w.root, "uasset") }

// packDir receives the packager's archive chunks before zipping.
func (w *workspace) packDir() string { return filepath.Join(w.root, "finalmod") }

func (w *workspace) logPath() string { return filepath.Join(w.root, "build.log") }

// prepare wipes and recreates the scratch tree.
func (w *workspace) prepare() error {
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("cleaning workspace: %w", err)
	}
	for _, dir := range []string{w.jsonDir(), w.assetDir(), w.packDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}
	}
	return nil
}

// stagedJSON is the workspace path of one target file's JSON document.
func (w *workspace) stagedJSON(file string) string {
	return filepath.Join(w.jsonDir(), filepath.FromSlash(file))
}

// assetPath is the workspace path of one target file's converted asset.
func (w *workspace) assetPath(file string) string {
	rel := filepath.FromSlash(file)
	ext := filepath.Ext(rel)
	return filepath.Join(w.assetDir(), rel[:len(rel)-len(ext)]+".uasset")
}

// stage copies one base-game JSON file into the workspace, creating the
// mirrored directory structure.
func (w *workspace) stage(dataDir, file string) error {
	src := filepath.Join(dataDir, filepath.FromSlash(file))
	dst := w.stagedJSON(file)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return copyFile(src, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// zipFiles writes the named files into a zip archive at dest, storing each
// under its base name. Archive contents are tool output; recompressing them
// still shrinks the download noticeably.
func zipFiles(dest string, paths []string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)
	for _, p := range paths {
		in, err := os.Open(p)
		if err != nil {
			zw.Close()
			f.Close()
			return err
		}
		entry, err := zw.Create(filepath.Base(p))
		if err == nil {
			_, err = io.Copy(entry, in)
		}
		in.Close()
		if err != nil {
			zw.Close()
			f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
