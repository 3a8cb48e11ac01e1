package merge

import (
	"fmt"
	"sort"

	"github.com/tobimods/modkit/internal/definition"
)

// ObjectNone addresses every row of a datatable, or the first export's data
// for single-asset files.
const ObjectNone = "NONE"

// ObjectNotFoundError reports that a named object could not be located in
// the target document under the selected layout.
type ObjectNotFoundError struct {
	Object string
	Layout definition.Layout
}

func (e *ObjectNotFoundError) Error() string {
	return fmt.Sprintf("object %q not found (layout %s)", e.Object, e.Layout)
}

// objectRoot is a located object's edit root: the value change paths resolve
// against, plus the mapping slot holding it so list-growing edits (ensure,
// NameMap sync) can write a reallocated slice back.
type objectRoot struct {
	value  any
	holder map[string]any
	key    string
}

// current re-reads the root through its holder, picking up slice
// reallocation by earlier edits.
func (r *objectRoot) current() any {
	if r.holder != nil {
		return r.holder[r.key]
	}
	return r.value
}

func (r *objectRoot) replace(v any) {
	if r.holder != nil {
		r.holder[r.key] = v
		return
	}
	r.value = v
}

// locate finds the edit roots for a named object under the given layout.
// Layout auto tries exports, then datatable, then keyed, then records.
// Converted game JSON varies between keyed-mapping and array-of-records
// shapes, so the hint is per target file rather than global.
func (e *Engine) locate(doc map[string]any, layout definition.Layout, object string) ([]*objectRoot, error) {
	switch layout {
	case definition.LayoutExports:
		return e.locateExport(doc, object)
	case definition.LayoutDataTable:
		return e.locateRow(doc, object)
	case definition.LayoutKeyed:
		return e.locateKey(doc, object)
	case definition.LayoutRecords:
		return e.locateRecord(doc, object)
	default:
		for _, try := range []func(map[string]any, string) ([]*objectRoot, error){
			e.locateExport, e.locateRow, e.locateKey, e.locateRecord,
		} {
			if roots, err := try(doc, object); err == nil {
				return roots, nil
			}
		}
		return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutAuto}
	}
}

// locateExport matches class-based exports by ObjectName. Blueprint classes
// appear under decorated names, so the plain object name is tried in its
// common variants.
func (e *Engine) locateExport(doc map[string]any, object string) ([]*objectRoot, error) {
	exports, ok := doc["Exports"].([]any)
	if !ok {
		return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutExports}
	}

	if object == ObjectNone {
		for _, exp := range exports {
			m, ok := exp.(map[string]any)
			if !ok {
				continue
			}
			if data, ok := m["Data"].([]any); ok && len(data) > 0 {
				return []*objectRoot{{value: data, holder: m, key: "Data"}}, nil
			}
		}
		return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutExports}
	}

	variants := []string{
		"Default__" + object + "_C",
		"Default__" + object,
		object,
		object + "_C",
	}
	for _, variant := range variants {
		for _, exp := range exports {
			m, ok := exp.(map[string]any)
			if !ok {
				continue
			}
			if name, _ := m["ObjectName"].(string); name != variant {
				continue
			}
			if data, ok := m["Data"].([]any); ok && len(data) > 0 {
				return []*objectRoot{{value: data, holder: m, key: "Data"}}, nil
			}
		}
	}
	return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutExports}
}

// locateRow matches datatable rows under Exports[0].Table.Data by row name.
// ObjectNone yields every row, for curve-style tables edited wholesale.
func (e *Engine) locateRow(doc map[string]any, object string) ([]*objectRoot, error) {
	exports, ok := doc["Exports"].([]any)
	if !ok || len(exports) == 0 {
		return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutDataTable}
	}
	first, ok := exports[0].(map[string]any)
	if !ok {
		return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutDataTable}
	}
	table, ok := first["Table"].(map[string]any)
	if !ok {
		return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutDataTable}
	}
	rows, ok := table["Data"].([]any)
	if !ok {
		return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutDataTable}
	}

	var roots []*objectRoot
	for _, row := range rows {
		m, ok := row.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m[e.opts.nameField()].(string)
		if object != ObjectNone && name != object {
			continue
		}
		if _, ok := m[e.opts.valueField()].([]any); !ok {
			continue
		}
		roots = append(roots, &objectRoot{value: m[e.opts.valueField()], holder: m, key: e.opts.valueField()})
		if object != ObjectNone {
			return roots, nil
		}
	}
	if len(roots) == 0 {
		return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutDataTable}
	}
	return roots, nil
}

// locateKey finds the object as a mapping key, descending recursively
// through nested mappings when it is not top-level.
func (e *Engine) locateKey(doc map[string]any, object string) ([]*objectRoot, error) {
	if holder, ok := findKey(doc, object); ok {
		return []*objectRoot{{value: holder[object], holder: holder, key: object}}, nil
	}
	return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutKeyed}
}

func findKey(m map[string]any, key string) (map[string]any, bool) {
	if _, ok := m[key]; ok {
		return m, true
	}
	// Sorted descent keeps the chosen holder stable when more than one
	// nested container carries the name.
	for _, k := range sortedKeys(m) {
		if child, ok := m[k].(map[string]any); ok {
			if holder, found := findKey(child, key); found {
				return holder, true
			}
		}
	}
	return nil, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// locateRecord scans nested sequences for a record whose name field matches.
func (e *Engine) locateRecord(doc map[string]any, object string) ([]*objectRoot, error) {
	if root, ok := e.findRecord(doc, object); ok {
		return []*objectRoot{root}, nil
	}
	return nil, &ObjectNotFoundError{Object: object, Layout: definition.LayoutRecords}
}

func (e *Engine) findRecord(v any, object string) (*objectRoot, bool) {
	switch c := v.(type) {
	case []any:
		for _, elem := range c {
			rec, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			if name, _ := rec[e.opts.nameField()].(string); name == object {
				if _, has := rec[e.opts.valueField()]; has {
					return &objectRoot{value: rec[e.opts.valueField()], holder: rec, key: e.opts.valueField()}, true
				}
				return &objectRoot{value: rec}, true
			}
			if found, ok := e.findRecord(elem, object); ok {
				return found, ok
			}
		}
	case map[string]any:
		for _, k := range sortedKeys(c) {
			if found, ok := e.findRecord(c[k], object); ok {
				return found, ok
			}
		}
	}
	return nil, false
}
