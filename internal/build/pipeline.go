package build

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/uuid"

	"github.com/tobimods/modkit/internal/ctxlog"
	"github.com/tobimods/modkit/internal/definition"
	"github.com/tobimods/modkit/internal/merge"
	"github.com/tobimods/modkit/internal/settings"
	"github.com/tobimods/modkit/internal/tools"
)

// Pipeline turns a set of parsed definitions into a distributable mod
// archive. Stages run in a fixed order: prepare workspace, stage base-game
// JSON, merge definitions, convert to binary assets, pack, zip. A failure
// scoped to one file is recorded and the rest of the batch continues; only
// failures that leave nothing to build abort the run.
type Pipeline struct {
	Settings  *settings.Settings
	Converter tools.AssetConverter
	Packager  tools.Packager
	Engine    *merge.Engine

	// Progress, when set, receives each stage name as it starts along with
	// the fraction of stages already completed.
	Progress func(stage string, frac float64)

	// DryRun stops after merging and validating: documents are written and
	// patches computed, but no external tool runs and no archive is produced.
	DryRun bool
}

// NewPipeline wires a pipeline from settings, backed by the real external
// tools.
func NewPipeline(s *settings.Settings) *Pipeline {
	runner := &tools.ExecRunner{Timeout: s.Tools.Timeout}
	return &Pipeline{
		Settings: s,
		Converter: &tools.UAssetGUI{
			Exe:           s.UAssetGUIPath(),
			EngineVersion: s.Tools.EngineVersion,
			Runner:        runner,
		},
		Packager: &tools.Retoc{
			Exe:     s.RetocPath(),
			Version: s.Tools.RetocVersion,
			WorkDir: s.Tools.UtilitiesDir,
			Runner:  runner,
		},
		Engine: merge.New(merge.Options{
			NameField:     s.Merge.NameField,
			CreateMissing: s.Merge.CreateMissing,
		}),
	}
}

// stageOrder fixes the progress fractions reported for each stage.
var stageOrder = []string{"prepare", "stage", "merge", "convert", "pack", "zip"}

func (p *Pipeline) announce(ctx context.Context, stage string) {
	ctxlog.FromContext(ctx).Info("Stage started.", "stage", stage)
	if p.Progress != nil {
		frac := 0.0
		for i, s := range stageOrder {
			if s == stage {
				frac = float64(i) / float64(len(stageOrder))
				break
			}
		}
		p.Progress(stage, frac)
	}
}

// Run builds the named mod from defs. The returned report is non-nil even on
// error, carrying whatever the run got done.
func (p *Pipeline) Run(ctx context.Context, mod string, defs []*definition.Definition) (*Report, error) {
	rep := &Report{
		BuildID: uuid.New(),
		Mod:     mod,
		Started: time.Now(),
		DryRun:  p.DryRun,
		Patches: make(map[string]string),
	}

	if mod == "" || strings.ContainsAny(mod, `/\`) {
		return rep, fmt.Errorf("invalid mod name %q", mod)
	}
	files := definition.FilesTouched(defs)
	if len(files) == 0 {
		return rep, fmt.Errorf("definitions target no files")
	}

	ws := newWorkspace(p.Settings.Paths.WorkDir, mod)
	p.announce(ctx, "prepare")
	if err := ws.prepare(); err != nil {
		return rep, err
	}

	staged := p.stageAll(ctx, ws, files, rep)
	if len(staged) == 0 {
		p.finish(ctx, ws, rep)
		return rep, fmt.Errorf("no target files could be staged from %s", p.Settings.Paths.DataDir)
	}

	p.announce(ctx, "merge")
	for _, file := range staged {
		if err := p.mergeFile(ctx, ws, file, defs, rep); err != nil {
			rep.fail("merge", file, err)
		}
	}

	if p.DryRun {
		p.finish(ctx, ws, rep)
		return rep, nil
	}

	p.announce(ctx, "convert")
	var converted int
	for _, file := range staged {
		asset := ws.assetPath(file)
		if err := os.MkdirAll(filepath.Dir(asset), 0o755); err != nil {
			rep.fail("convert", file, err)
			continue
		}
		if err := p.Converter.FromJSON(ctx, ws.stagedJSON(file), asset); err != nil {
			rep.fail("convert", file, err)
			continue
		}
		converted++
	}
	if converted == 0 {
		p.finish(ctx, ws, rep)
		return rep, fmt.Errorf("no assets converted")
	}

	p.announce(ctx, "pack")
	// The _P suffix marks the archive as a patch pak, which the game loads
	// on top of its own content.
	utoc := filepath.Join(ws.packDir(), mod+"_P.utoc")
	if err := p.Packager.Pack(ctx, ws.assetDir(), utoc); err != nil {
		p.finish(ctx, ws, rep)
		return rep, fmt.Errorf("packing: %w", err)
	}

	p.announce(ctx, "zip")
	chunks, err := filepath.Glob(filepath.Join(ws.packDir(), mod+"_P.*"))
	if err == nil && len(chunks) == 0 {
		err = fmt.Errorf("packager produced no archive chunks")
	}
	if err != nil {
		p.finish(ctx, ws, rep)
		return rep, err
	}
	archive := filepath.Join(p.Settings.Paths.OutputDir, mod+".zip")
	if err := zipFiles(archive, chunks); err != nil {
		p.finish(ctx, ws, rep)
		return rep, fmt.Errorf("zipping: %w", err)
	}
	rep.ArchivePath = archive

	p.finish(ctx, ws, rep)
	return rep, nil
}

func (p *Pipeline) stageAll(ctx context.Context, ws *workspace, files []string, rep *Report) []string {
	p.announce(ctx, "stage")
	logger := ctxlog.FromContext(ctx)
	var staged []string
	for _, file := range files {
		if err := ws.stage(p.Settings.Paths.DataDir, file); err != nil {
			rep.fail("stage", file, err)
			continue
		}
		logger.Debug("Staged target file.", "file", file)
		staged = append(staged, file)
	}
	return staged
}

// mergeFile applies every matching definition to one staged document,
// validates the result, and records a merge patch of the document for the
// report.
func (p *Pipeline) mergeFile(ctx context.Context, ws *workspace, file string, defs []*definition.Definition, rep *Report) error {
	path := ws.stagedJSON(file)
	original, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(strings.NewReader(string(original)))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}

	res := p.Engine.MergeFile(ctx, file, doc, defs)
	rep.Applied = append(rep.Applied, res.Applied...)
	for _, f := range res.Failures {
		rep.Failures = append(rep.Failures, StageFailure{
			Stage: "merge", Definition: f.Definition, File: file, Err: objectErr(f.Object, f.Err),
		})
	}
	for _, d := range p.Engine.Validate(ctx, file, doc, defs) {
		rep.Failures = append(rep.Failures, StageFailure{
			Stage: "validate", Definition: d.Definition, File: file,
			Err: objectErr(d.Object, fmt.Errorf("schema drift: %s: %w", d.Property, d.Err)),
		})
	}

	merged, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, merged, 0o644); err != nil {
		return err
	}

	// The merge patch is the reviewable diff of the build: everything the
	// definitions changed in this file, nothing else.
	if patch, err := jsonpatch.CreateMergePatch(original, merged); err == nil {
		rep.Patches[file] = string(patch)
	}
	return nil
}

// objectErr prefixes an error with the object it concerns. The failing path
// is already inside the error itself.
func objectErr(object string, err error) error {
	if object == "" {
		return err
	}
	return fmt.Errorf("object %q: %w", object, err)
}

func (p *Pipeline) finish(ctx context.Context, ws *workspace, rep *Report) {
	rep.Duration = time.Since(rep.Started)
	if err := rep.WriteLog(ws.logPath()); err != nil {
		ctxlog.FromContext(ctx).Warn("Could not write build log.", "error", err)
	}
}
