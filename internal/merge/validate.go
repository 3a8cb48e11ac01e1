package merge

import (
	"context"
	"fmt"

	"github.com/tobimods/modkit/internal/definition"
)

// DriftError reports a change path that no longer resolves against the
// merged document: the converted schema drifted from what the definition was
// authored against. Reported per definition/file/path so the user sees which
// definition to fix, rather than the whole batch aborting silently.
type DriftError struct {
	Definition string
	File       string
	Object     string
	Property   string
	Err        error
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("schema drift: %s: %s: object %q: %s: %v",
		e.Definition, e.File, e.Object, e.Property, e.Err)
}

func (e *DriftError) Unwrap() error { return e.Err }

// Validate re-resolves every change path of every definition targeting file
// against the merged document. Called after MergeFile, before the document
// is handed to the binary converter.
func (e *Engine) Validate(ctx context.Context, file string, doc map[string]any, defs []*definition.Definition) []*DriftError {
	var drift []*DriftError
	for _, def := range defs {
		for _, tgt := range def.Targets {
			if tgt.File != file {
				continue
			}
			for _, obj := range tgt.Objects {
				roots, err := e.locate(doc, tgt.Layout, obj.Name)
				if err != nil {
					drift = append(drift, &DriftError{
						Definition: def.Name, File: file, Object: obj.Name, Err: err,
					})
					continue
				}
				for _, ch := range obj.Changes {
					for _, root := range roots {
						if _, err := e.strict.ResolveAll(root.current(), ch.Path); err != nil {
							drift = append(drift, &DriftError{
								Definition: def.Name, File: file, Object: obj.Name,
								Property: ch.Property, Err: err,
							})
						}
					}
				}
			}
		}
	}
	return drift
}
