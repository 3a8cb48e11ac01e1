package definition

import (
	"fmt"

	"github.com/tobimods/modkit/internal/jsondoc"
)

// Layout is the per-target schema hint selecting how named objects are
// located inside the converted JSON document.
type Layout string

const (
	// LayoutAuto tries exports, then datatable, then keyed lookup.
	LayoutAuto Layout = "auto"
	// LayoutExports matches class-based exports by ObjectName variants.
	LayoutExports Layout = "exports"
	// LayoutDataTable matches rows of Exports[0].Table.Data by row name.
	LayoutDataTable Layout = "datatable"
	// LayoutKeyed looks the object up as a mapping key, descending
	// recursively through nested mappings.
	LayoutKeyed Layout = "keyed"
	// LayoutRecords scans arrays of {Name: ...} records recursively.
	LayoutRecords Layout = "records"
)

// ParseLayout validates a layout hint; the empty string means LayoutAuto.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case "":
		return LayoutAuto, nil
	case LayoutAuto, LayoutExports, LayoutDataTable, LayoutKeyed, LayoutRecords:
		return Layout(s), nil
	default:
		return "", fmt.Errorf("unknown layout %q (want auto, exports, datatable, keyed, or records)", s)
	}
}

// Definition is one user-authored definition file, fully parsed.
type Definition struct {
	// Name identifies the definition in logs and reports; it is the source
	// file's base name.
	Name        string
	Source      string // path of the .hcl file
	Description string
	Author      string
	Targets     []*Target
}

// Target scopes a definition to one base-game JSON file.
type Target struct {
	// File is the in-archive path of the converted JSON file, normalized to
	// forward slashes with no leading separator.
	File    string
	Layout  Layout
	Objects []*ObjectEdit
}

// ObjectEdit names an object inside the target document and carries its
// ordered edits. The name "NONE" addresses every row of a datatable, or the
// first export's data for single-asset files.
type ObjectEdit struct {
	Name    string
	Changes []*PropertyChange
	Deletes []*TagDelete
}

// PropertyChange replaces the leaf value at a path inside the object.
type PropertyChange struct {
	Property string
	Path     jsondoc.Path
	// Value is the literal replacement: string, bool, or json.Number.
	Value any
	// Ensure optionally inserts a property into the path's parent container
	// before the change applies, when no property of that name exists yet.
	Ensure *EnsureProperty
}

// TagDelete removes a string element from a gameplay-tag container array.
type TagDelete struct {
	Property string
	Value    string
}

// EnsureProperty is a raw JSON property snippet inserted into the change's
// parent container if absent. The snippet must carry the record name field.
type EnsureProperty struct {
	// Object overrides the object the property is inserted into; empty means
	// the enclosing object edit.
	Object string
	JSON   string
}

// FilesTouched returns the distinct target file paths of all definitions,
// in first-reference order.
func FilesTouched(defs []*Definition) []string {
	var files []string
	seen := make(map[string]struct{})
	for _, def := range defs {
		for _, tgt := range def.Targets {
			if _, ok := seen[tgt.File]; !ok {
				files = append(files, tgt.File)
				seen[tgt.File] = struct{}{}
			}
		}
	}
	return files
}
