package merge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tobimods/modkit/internal/ctxlog"
	"github.com/tobimods/modkit/internal/definition"
	"github.com/tobimods/modkit/internal/jsondoc"
)

// Options tune document traversal for converted game schemas.
type Options struct {
	// NameField is the record name key; defaults to "Name".
	NameField string
	// ValueField is the record value key; defaults to "Value".
	ValueField string
	// CreateMissing lets change paths create absent intermediate mapping
	// levels. Off by default so edits cannot silently define data shapes
	// the game will not recognize.
	CreateMissing bool
}

func (o Options) nameField() string {
	if o.NameField != "" {
		return o.NameField
	}
	return "Name"
}

func (o Options) valueField() string {
	if o.ValueField != "" {
		return o.ValueField
	}
	return "Value"
}

// Engine applies definitions to target documents.
type Engine struct {
	opts     Options
	resolver *jsondoc.Resolver
	// strict never creates intermediates; the validation pass must stay a
	// pure read.
	strict *jsondoc.Resolver
}

// New creates a merge engine.
func New(opts Options) *Engine {
	return &Engine{
		opts: opts,
		resolver: jsondoc.NewResolver(jsondoc.Options{
			CreateMissing: opts.CreateMissing,
			NameField:     opts.nameField(),
			ValueField:    opts.valueField(),
		}),
		strict: jsondoc.NewResolver(jsondoc.Options{
			NameField:  opts.nameField(),
			ValueField: opts.valueField(),
		}),
	}
}

// AppliedChange records one successful property write for the build log.
type AppliedChange struct {
	Definition string
	File       string
	Object     string
	Property   string
	Old        any
	New        any
	// Overrode names the earlier definition whose write at the same
	// file/object/path this change replaced. Empty when the path was
	// untouched. Override is silent and order-dependent by design; this
	// field only makes it visible in the report.
	Overrode string
}

// Failure attributes one failed edit to its definition, target file, object,
// and path. A failure never aborts the rest of the batch.
type Failure struct {
	Definition string
	File       string
	Object     string
	Property   string
	Err        error
}

func (f Failure) String() string {
	parts := []string{f.Definition, f.File}
	if f.Object != "" {
		parts = append(parts, fmt.Sprintf("object %q", f.Object))
	}
	if f.Property != "" {
		parts = append(parts, f.Property)
	}
	return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), f.Err)
}

// Result is the outcome of merging every definition into one target file.
type Result struct {
	File     string
	Doc      map[string]any
	Applied  []AppliedChange
	Failures []Failure
	// NamesAdded lists NameMap entries appended after the edits.
	NamesAdded []string
}

// MergeFile applies, in build order, every definition target that matches
// file. The document is edited in place and also returned in the Result.
func (e *Engine) MergeFile(ctx context.Context, file string, doc map[string]any, defs []*definition.Definition) *Result {
	logger := ctxlog.FromContext(ctx)
	res := &Result{File: file, Doc: doc}

	// Last definition to write each exact file/object/path, for override
	// attribution.
	lastWriter := make(map[string]string)

	for _, def := range defs {
		for _, tgt := range def.Targets {
			if tgt.File != file {
				continue
			}
			for _, obj := range tgt.Objects {
				roots, err := e.locate(doc, tgt.Layout, obj.Name)
				if err != nil {
					res.Failures = append(res.Failures, Failure{
						Definition: def.Name, File: file, Object: obj.Name, Err: err,
					})
					continue
				}
				e.applyObject(logger, def, file, tgt.Layout, doc, obj, roots, lastWriter, res)
			}
		}
	}

	res.NamesAdded = SyncNameMap(doc)
	if len(res.NamesAdded) > 0 {
		logger.Debug("NameMap extended.", "file", file, "added", res.NamesAdded)
	}
	return res
}

func (e *Engine) applyObject(logger *slog.Logger, def *definition.Definition, file string, layout definition.Layout, doc map[string]any, obj *definition.ObjectEdit, roots []*objectRoot, lastWriter map[string]string, res *Result) {
	// Deletes first, matching the order definitions are authored in.
	for _, del := range obj.Deletes {
		if obj.Name == ObjectNone {
			continue
		}
		for _, root := range roots {
			if err := e.removeTag(root, del.Property, del.Value); err != nil {
				res.Failures = append(res.Failures, Failure{
					Definition: def.Name, File: file, Object: obj.Name, Property: del.Property, Err: err,
				})
			}
		}
	}

	for _, ch := range obj.Changes {
		if ch.Ensure != nil {
			// The snippet may belong to a different object than the one
			// being changed; the ensure block's object field names it.
			ensureRoots := roots
			if ch.Ensure.Object != "" && ch.Ensure.Object != obj.Name {
				var err error
				ensureRoots, err = e.locate(doc, layout, ch.Ensure.Object)
				if err != nil {
					res.Failures = append(res.Failures, Failure{
						Definition: def.Name, File: file, Object: ch.Ensure.Object, Property: ch.Property, Err: err,
					})
					continue
				}
			}
			failed := false
			for _, er := range ensureRoots {
				if err := e.ensureProperty(er, ch.Path, ch.Ensure.JSON); err != nil {
					res.Failures = append(res.Failures, Failure{
						Definition: def.Name, File: file, Object: obj.Name, Property: ch.Property, Err: err,
					})
					failed = true
					break
				}
			}
			if failed {
				continue
			}
		}

		for ri, root := range roots {
			locs, err := e.resolver.ResolveAll(root.current(), ch.Path)
			if err != nil {
				res.Failures = append(res.Failures, Failure{
					Definition: def.Name, File: file, Object: obj.Name, Property: ch.Property, Err: err,
				})
				continue
			}
			for li, loc := range locs {
				old := loc.Get()
				next := coerceValue(old, ch.Value)
				loc.Set(next)

				// Roots and wildcard expansions are ordered
				// deterministically, so both indices are stable across
				// definitions. Without them every slot expanded from the
				// same [*] would share one key.
				key := fmt.Sprintf("%s\x00%d\x00%s\x00%d", obj.Name, ri, loc.Path(), li)
				applied := AppliedChange{
					Definition: def.Name,
					File:       file,
					Object:     obj.Name,
					Property:   ch.Property,
					Old:        old,
					New:        next,
					Overrode:   lastWriter[key],
				}
				lastWriter[key] = def.Name
				res.Applied = append(res.Applied, applied)
				logger.Debug("Applied change.",
					"definition", def.Name, "object", obj.Name, "property", ch.Property, "value", next)
			}
		}
	}
}

// removeTag deletes a string element from a gameplay-tag container: the
// named property's value is a single-element wrapper whose value holds the
// tag strings. A tag that is already absent is a no-op.
func (e *Engine) removeTag(root *objectRoot, property, tag string) error {
	list, ok := root.current().([]any)
	if !ok {
		return fmt.Errorf("object data is not a property list")
	}
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := rec[e.opts.nameField()].(string); name != property {
			continue
		}
		outer, ok := rec[e.opts.valueField()].([]any)
		if !ok || len(outer) == 0 {
			return nil
		}
		inner, ok := outer[0].(map[string]any)
		if !ok {
			return nil
		}
		tags, ok := inner[e.opts.valueField()].([]any)
		if !ok {
			return nil
		}
		for i, t := range tags {
			if s, _ := t.(string); s == tag {
				inner[e.opts.valueField()] = append(tags[:i:i], tags[i+1:]...)
				return nil
			}
		}
		return nil
	}
	return &jsondoc.PathError{Kind: jsondoc.NotFound, Expr: property, At: property,
		Detail: fmt.Sprintf("no property %q to delete from", property)}
}

// ensureProperty inserts a JSON property snippet into the change path's
// parent container when no property of that name exists yet. The parent
// path is walked through name-matched records only.
func (e *Engine) ensureProperty(root *objectRoot, path jsondoc.Path, snippetJSON string) error {
	dec := json.NewDecoder(strings.NewReader(snippetJSON))
	dec.UseNumber()
	var snippet map[string]any
	if err := dec.Decode(&snippet); err != nil {
		return fmt.Errorf("ensure snippet: %w", err)
	}
	name, _ := snippet[e.opts.nameField()].(string)
	if name == "" {
		return fmt.Errorf("ensure snippet has no %q field", e.opts.nameField())
	}

	list, ok := root.current().([]any)
	if !ok {
		return fmt.Errorf("object data is not a property list")
	}
	holder := root.holder
	holderKey := root.key
	writeBack := func(grown []any) {
		if holder != nil {
			holder[holderKey] = grown
		} else {
			root.replace(grown)
		}
	}

	segs := path.Segments()
	for i := 0; i < len(segs)-1; i++ {
		seg := segs[i]
		if seg.IsIndex || seg.Wildcard {
			return fmt.Errorf("ensure does not support indexed parent paths")
		}
		found := false
		for _, item := range list {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if n, _ := rec[e.opts.nameField()].(string); n != seg.Field {
				continue
			}
			inner, ok := rec[e.opts.valueField()].([]any)
			if !ok {
				return fmt.Errorf("ensure parent %q holds no property list", seg.Field)
			}
			holder = rec
			holderKey = e.opts.valueField()
			list = inner
			found = true
			break
		}
		if !found {
			return &jsondoc.PathError{Kind: jsondoc.NotFound, Expr: path.String(), At: seg.Field,
				Detail: fmt.Sprintf("ensure parent %q absent", seg.Field)}
		}
	}

	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			if n, _ := rec[e.opts.nameField()].(string); n == name {
				return nil // already present
			}
		}
	}
	writeBack(append(list, snippet))
	return nil
}

// coerceValue converts the replacement to the old leaf's type where a
// sensible conversion exists, so a numeric string from a definition does not
// corrupt a numeric field. Unconvertible combinations fall back to the
// replacement as written.
func coerceValue(old, repl any) any {
	switch old.(type) {
	case bool:
		switch v := repl.(type) {
		case bool:
			return v
		case string:
			l := strings.ToLower(v)
			return l == "true" || l == "1" || l == "yes"
		case json.Number:
			return v.String() != "0"
		}
	case json.Number:
		switch v := repl.(type) {
		case json.Number:
			return v
		case string:
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				return json.Number(v)
			}
			return v
		case bool:
			if v {
				return json.Number("1")
			}
			return json.Number("0")
		}
	case float64:
		switch v := repl.(type) {
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f
			}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		case float64:
			return v
		}
	case string:
		switch v := repl.(type) {
		case string:
			return v
		case json.Number:
			return v.String()
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return repl
}
