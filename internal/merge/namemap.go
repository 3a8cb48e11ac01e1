package merge

import "strings"

// SyncNameMap appends to the document's top-level NameMap every FName
// referenced by the export data but missing from the map. The asset
// converter requires all referenced FNames to be registered; edits can
// introduce new ones. Returns the names added, in discovery order.
//
// FName-bearing fields, by property $type:
//   - every property's name field
//   - NameProperty and EnumProperty values, and EnumType
//   - StructProperty StructType
//   - ArrayProperty / SetProperty ArrayType
//   - MapProperty KeyType and ValueType
func SyncNameMap(doc map[string]any) []string {
	nameMap, ok := doc["NameMap"].([]any)
	if !ok {
		return nil
	}

	present := make(map[string]struct{}, len(nameMap))
	for _, n := range nameMap {
		if s, ok := n.(string); ok {
			present[s] = struct{}{}
		}
	}

	var added []string
	register := func(v any) {
		s, ok := v.(string)
		if !ok || s == "" {
			return
		}
		if _, seen := present[s]; seen {
			return
		}
		present[s] = struct{}{}
		nameMap = append(nameMap, s)
		added = append(added, s)
	}

	var scan func(v any)
	scan = func(v any) {
		switch c := v.(type) {
		case map[string]any:
			dtype, _ := c["$type"].(string)
			if strings.Contains(dtype, "PropertyData") {
				register(c["Name"])
			}
			switch {
			case strings.Contains(dtype, "NamePropertyData"), strings.Contains(dtype, "EnumPropertyData"):
				register(c["Value"])
				register(c["EnumType"])
			case strings.Contains(dtype, "StructPropertyData"):
				register(c["StructType"])
			case strings.Contains(dtype, "ArrayPropertyData"), strings.Contains(dtype, "SetPropertyData"):
				register(c["ArrayType"])
			case strings.Contains(dtype, "MapPropertyData"):
				register(c["KeyType"])
				register(c["ValueType"])
			}
			for _, child := range c {
				scan(child)
			}
		case []any:
			for _, child := range c {
				scan(child)
			}
		}
	}

	if exports, ok := doc["Exports"].([]any); ok {
		for _, exp := range exports {
			scan(exp)
		}
	}

	if len(added) > 0 {
		doc["NameMap"] = nameMap
	}
	return added
}
