package jsondoc

import (
	"fmt"
)

// Options control path resolution behavior.
type Options struct {
	// CreateMissing permits field segments to create intermediate mapping
	// levels (and new final keys) when absent. Off by default: a path that
	// does not already exist in the base document usually means the edit
	// would define a data shape the game will not recognize.
	CreateMissing bool

	// NameField, when non-empty, enables record-list traversal: a sequence
	// of {NameField: ..., ValueField: ...} mappings is addressed by field
	// segments matching the name field, descending into the value field.
	NameField string

	// ValueField is the record value key. Defaults to "Value" when
	// NameField is set.
	ValueField string
}

func (o Options) valueField() string {
	if o.ValueField != "" {
		return o.ValueField
	}
	return "Value"
}

func (o Options) records() bool { return o.NameField != "" }

// Resolver resolves Paths against document roots.
type Resolver struct {
	opts Options
}

// NewResolver returns a Resolver with the given options.
func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

// Locator is a settable reference to one addressed slot in a document.
// The slot's containing mapping or sequence is held directly, so Set
// mutates the original document in place.
type Locator struct {
	parentMap map[string]any
	parentArr []any
	key       string
	index     int
	path      string
}

// Path returns the path expression prefix that addressed the slot.
func (l *Locator) Path() string { return l.path }

// Get returns the current value of the slot.
func (l *Locator) Get() any {
	if l.parentMap != nil {
		return l.parentMap[l.key]
	}
	return l.parentArr[l.index]
}

// Set overwrites the value of the slot.
func (l *Locator) Set(v any) {
	if l.parentMap != nil {
		l.parentMap[l.key] = v
		return
	}
	l.parentArr[l.index] = v
}

// Resolve locates the single slot addressed by p. Wildcard paths must use
// ResolveAll.
func (r *Resolver) Resolve(root any, p Path) (*Locator, error) {
	if p.HasWildcard() {
		return nil, fmt.Errorf("path %q contains a wildcard; use ResolveAll", p.String())
	}
	locs, err := r.ResolveAll(root, p)
	if err != nil {
		return nil, err
	}
	return locs[0], nil
}

// ResolveAll locates every slot addressed by p, expanding [*] wildcards over
// all sequence elements. A wildcard over an empty sequence yields zero
// locators without error.
func (r *Resolver) ResolveAll(root any, p Path) ([]*Locator, error) {
	if len(p.Segments()) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	var out []*Locator
	if err := r.walk(root, p, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) walk(cur any, p Path, at int, out *[]*Locator) error {
	seg := p.Segments()[at]
	final := at == len(p.Segments())-1

	if seg.IsIndex || seg.Wildcard {
		return r.walkIndex(cur, p, at, out)
	}
	return r.walkField(cur, p, at, final, out)
}

func (r *Resolver) walkField(cur any, p Path, at int, final bool, out *[]*Locator) error {
	seg := p.Segments()[at]
	switch c := cur.(type) {
	case map[string]any:
		v, ok := c[seg.Field]
		if !ok {
			// Record containers wrap their payload under the value field;
			// descend and retry the same segment before giving up.
			if r.opts.records() {
				if inner, wrapped := c[r.opts.valueField()]; wrapped {
					return r.walk(inner, p, at, out)
				}
			}
			if r.opts.CreateMissing {
				if final {
					*out = append(*out, &Locator{parentMap: c, key: seg.Field, path: p.joinAt(at)})
					return nil
				}
				child := map[string]any{}
				c[seg.Field] = child
				return r.walk(child, p, at+1, out)
			}
			return &PathError{Kind: NotFound, Expr: p.String(), At: p.joinAt(at),
				Detail: fmt.Sprintf("key %q absent", seg.Field)}
		}
		if final {
			*out = append(*out, &Locator{parentMap: c, key: seg.Field, path: p.joinAt(at)})
			return nil
		}
		return r.walk(v, p, at+1, out)

	case []any:
		if !r.opts.records() {
			return &PathError{Kind: TypeMismatch, Expr: p.String(), At: p.joinAt(at),
				Detail: fmt.Sprintf("key %q addresses a sequence", seg.Field)}
		}
		for _, elem := range c {
			rec, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			if name, _ := rec[r.opts.NameField].(string); name != seg.Field {
				continue
			}
			if _, has := rec[r.opts.valueField()]; !has {
				return &PathError{Kind: NotFound, Expr: p.String(), At: p.joinAt(at),
					Detail: fmt.Sprintf("record %q has no %q slot", seg.Field, r.opts.valueField())}
			}
			if final {
				*out = append(*out, &Locator{parentMap: rec, key: r.opts.valueField(), path: p.joinAt(at)})
				return nil
			}
			return r.walk(rec[r.opts.valueField()], p, at+1, out)
		}
		return &PathError{Kind: NotFound, Expr: p.String(), At: p.joinAt(at),
			Detail: fmt.Sprintf("no record named %q", seg.Field)}

	default:
		return &PathError{Kind: TypeMismatch, Expr: p.String(), At: p.joinAt(at),
			Detail: fmt.Sprintf("key %q addresses a %T", seg.Field, cur)}
	}
}

func (r *Resolver) walkIndex(cur any, p Path, at int, out *[]*Locator) error {
	seg := p.Segments()[at]
	arr, ok := cur.([]any)
	if !ok {
		return &PathError{Kind: TypeMismatch, Expr: p.String(), At: p.joinAt(at),
			Detail: fmt.Sprintf("index addresses a %T", cur)}
	}

	if seg.Wildcard {
		for i := range arr {
			if err := r.element(arr, i, p, at, out); err != nil {
				return err
			}
		}
		return nil
	}

	if seg.Index < 0 || seg.Index >= len(arr) {
		return &PathError{Kind: IndexOutOfRange, Expr: p.String(), At: p.joinAt(at),
			Detail: fmt.Sprintf("index %d, length %d", seg.Index, len(arr))}
	}
	return r.element(arr, seg.Index, p, at, out)
}

// element descends into arr[i] for the segment at position at.
func (r *Resolver) element(arr []any, i int, p Path, at int, out *[]*Locator) error {
	final := at == len(p.Segments())-1
	elem := arr[i]

	// Sequence elements in record-list schemas are themselves wrapped
	// records; address the record's value slot, not the record. Plain
	// mappings that merely contain a value key (curve keys, vectors) are
	// left alone, so the name field must be present too.
	if r.opts.records() {
		if rec, ok := elem.(map[string]any); ok {
			_, named := rec[r.opts.NameField]
			_, has := rec[r.opts.valueField()]
			if named && has {
				if final {
					*out = append(*out, &Locator{parentMap: rec, key: r.opts.valueField(), path: p.joinAt(at)})
					return nil
				}
				return r.walk(rec[r.opts.valueField()], p, at+1, out)
			}
		}
	}

	if final {
		*out = append(*out, &Locator{parentArr: arr, index: i, path: p.joinAt(at)})
		return nil
	}
	return r.walk(elem, p, at+1, out)
}
