package definition

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/tobimods/modkit/internal/ctxlog"
	"github.com/tobimods/modkit/internal/fsutil"
	"github.com/tobimods/modkit/internal/jsondoc"
)

// Loader discovers and parses definition files.
type Loader struct{}

// NewLoader creates a definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load expands the given file and directory paths into .hcl definition files
// and parses each one. The returned definitions preserve the user's path
// order, which is the build order. A malformed file becomes a ParseError in
// the second return value and does not stop the remaining files from
// loading; only a failure to enumerate the paths themselves is returned as
// the third value.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*Definition, []error, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered definition files.", "count", len(files))

	var (
		defs     []*Definition
		parseErr []error
	)
	for _, file := range files {
		def, err := l.LoadFile(ctx, file)
		if err != nil {
			logger.Warn("Skipping malformed definition.", "file", file, "error", err)
			parseErr = append(parseErr, err)
			continue
		}
		defs = append(defs, def)
	}
	logger.Debug("Definition loading complete.", "loaded", len(defs), "failed", len(parseErr))
	return defs, parseErr, nil
}

// LoadFile parses a single definition file.
func (l *Loader) LoadFile(ctx context.Context, file string) (*Definition, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, &ParseError{File: file, Detail: diags.Error()}
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, &ParseError{File: file, Detail: diags.Error()}
	}
	if len(root.Definitions) == 0 {
		return nil, &ParseError{File: file, Detail: "no definition block"}
	}
	if len(root.Definitions) > 1 {
		return nil, &ParseError{File: file, Detail: "multiple definition blocks in one file"}
	}

	def, err := l.translate(file, root.Definitions[0])
	if err != nil {
		return nil, err
	}
	return def, nil
}

// translate converts the HCL schema into the agnostic model, validating
// path expressions, layouts, and value types along the way.
func (l *Loader) translate(file string, block *definitionBlock) (*Definition, error) {
	def := &Definition{
		Name:        strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
		Source:      file,
		Description: block.Description,
		Author:      block.Author,
	}
	if len(block.Targets) == 0 {
		return nil, &ParseError{File: file, Detail: "definition has no target blocks"}
	}

	for _, tb := range block.Targets {
		layout, err := ParseLayout(tb.Layout)
		if err != nil {
			return nil, &ParseError{File: file, Subject: fmt.Sprintf("target %q", tb.File), Detail: err.Error()}
		}
		tgt := &Target{
			File:   NormalizeTargetPath(tb.File),
			Layout: layout,
		}
		if tgt.File == "" {
			return nil, &ParseError{File: file, Subject: fmt.Sprintf("target %q", tb.File), Detail: "empty target file path"}
		}
		if len(tb.Objects) == 0 {
			return nil, &ParseError{File: file, Subject: fmt.Sprintf("target %q", tb.File), Detail: "target has no object blocks"}
		}

		for _, ob := range tb.Objects {
			edit := &ObjectEdit{Name: ob.Name}
			for _, cb := range ob.Changes {
				change, err := l.translateChange(file, cb)
				if err != nil {
					return nil, err
				}
				edit.Changes = append(edit.Changes, change)
			}
			for _, db := range ob.Deletes {
				if db.Value == "" {
					return nil, &ParseError{File: file, Subject: fmt.Sprintf("delete %q", db.Property), Detail: "delete requires a value"}
				}
				edit.Deletes = append(edit.Deletes, &TagDelete{Property: db.Property, Value: db.Value})
			}
			tgt.Objects = append(tgt.Objects, edit)
		}
		def.Targets = append(def.Targets, tgt)
	}
	return def, nil
}

func (l *Loader) translateChange(file string, cb *changeBlock) (*PropertyChange, error) {
	subject := fmt.Sprintf("change %q", cb.Property)

	path, err := jsondoc.ParsePath(cb.Property)
	if err != nil {
		return nil, &ParseError{File: file, Subject: subject, Detail: err.Error()}
	}
	value, err := literalValue(cb.Value)
	if err != nil {
		return nil, &ParseError{File: file, Subject: subject, Detail: err.Error()}
	}

	change := &PropertyChange{
		Property: cb.Property,
		Path:     path,
		Value:    value,
	}
	if cb.Ensure != nil {
		if !json.Valid([]byte(cb.Ensure.JSON)) {
			return nil, &ParseError{File: file, Subject: subject, Detail: "ensure block carries invalid JSON"}
		}
		change.Ensure = &EnsureProperty{Object: cb.Ensure.Object, JSON: cb.Ensure.JSON}
	}
	return change, nil
}

// literalValue converts an HCL literal into the loose JSON value space.
// Numbers become json.Number so their textual form survives re-encoding.
func literalValue(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("value must be a literal string, number, or bool")
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return v.True(), nil
	case cty.Number:
		return json.Number(v.AsBigFloat().Text('f', -1)), nil
	default:
		return nil, fmt.Errorf("value must be a string, number, or bool, got %s", v.Type().FriendlyName())
	}
}

// NormalizeTargetPath converts a target file reference into the canonical
// in-archive form: forward slashes, no leading separators.
func NormalizeTargetPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.TrimLeft(p, "/")
}
