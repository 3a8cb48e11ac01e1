// Package jsondoc locates and rewrites values inside loosely-typed JSON
// documents (the map[string]any / []any shape produced by encoding/json).
//
// A Path addresses nested mapping keys and sequence indices using dotted
// notation with bracketed indices, e.g.
//
//	DurationMagnitude.ScalableFloatMagnitude.Value
//	StageDataList[1].PointsNeeded
//	FloatCurve.Keys[*].Time
//
// The Resolver turns a Path into one or more Locators: settable references
// to the addressed slots. Resolution is a pure read; writes happen only
// through Locator.Set. Converted game assets commonly represent property
// collections as arrays of {Name: ..., Value: ...} records rather than keyed
// mappings; when Options.NameField is set the resolver traverses such record
// lists by matching the name field and descending into the value field.
package jsondoc
