package jsondoc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// parseDoc decodes a JSON literal into the loose map/slice shape the
// resolver operates on, preserving numbers as json.Number.
func parseDoc(t *testing.T, src string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()
	var doc map[string]any
	require.NoError(t, dec.Decode(&doc))
	return doc
}

func TestResolve_NestedMapping(t *testing.T) {
	doc := parseDoc(t, `{"a":{"b":{"c":60}}}`)
	r := NewResolver(Options{})

	loc, err := r.Resolve(doc, MustParsePath("a.b.c"))
	require.NoError(t, err)
	require.Equal(t, json.Number("60"), loc.Get())

	loc.Set(json.Number("1800"))
	again, err := r.Resolve(doc, MustParsePath("a.b.c"))
	require.NoError(t, err)
	require.Equal(t, json.Number("1800"), again.Get())
}

func TestResolve_SequenceIndex(t *testing.T) {
	doc := parseDoc(t, `{"xs":[10,20,30]}`)
	r := NewResolver(Options{})

	loc, err := r.Resolve(doc, MustParsePath("xs[1]"))
	require.NoError(t, err)
	require.Equal(t, json.Number("20"), loc.Get())

	loc.Set(json.Number("99"))
	require.Equal(t, json.Number("99"), doc["xs"].([]any)[1])
}

func TestResolve_MissingIntermediateKey(t *testing.T) {
	doc := parseDoc(t, `{"a":{"b":1}}`)
	r := NewResolver(Options{})

	_, err := r.Resolve(doc, MustParsePath("a.nope.c"))
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, NotFound, kind)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "a.nope", pe.At)
}

func TestResolve_MissingFinalKey(t *testing.T) {
	doc := parseDoc(t, `{"a":{}}`)
	r := NewResolver(Options{})
	_, err := r.Resolve(doc, MustParsePath("a.b"))
	require.True(t, IsNotFound(err))
}

func TestResolve_CreateMissing(t *testing.T) {
	doc := parseDoc(t, `{"a":{}}`)
	r := NewResolver(Options{CreateMissing: true})

	loc, err := r.Resolve(doc, MustParsePath("a.b.c"))
	require.NoError(t, err)
	loc.Set(true)

	check, err := NewResolver(Options{}).Resolve(doc, MustParsePath("a.b.c"))
	require.NoError(t, err)
	require.Equal(t, true, check.Get())
}

func TestResolve_IndexOutOfRange(t *testing.T) {
	doc := parseDoc(t, `{"xs":[1,2]}`)
	r := NewResolver(Options{})
	_, err := r.Resolve(doc, MustParsePath("xs[5]"))
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, IndexOutOfRange, kind)
}

func TestResolve_TypeMismatch(t *testing.T) {
	r := NewResolver(Options{})

	// Field segment against a sequence without record traversal.
	doc := parseDoc(t, `{"xs":[1,2]}`)
	_, err := r.Resolve(doc, MustParsePath("xs.y"))
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, TypeMismatch, kind)

	// Index segment against a mapping.
	doc = parseDoc(t, `{"m":{"k":1}}`)
	_, err = r.Resolve(doc, MustParsePath("m[0]"))
	kind, ok = KindOf(err)
	require.True(t, ok)
	require.Equal(t, TypeMismatch, kind)

	// Field segment against a scalar.
	doc = parseDoc(t, `{"s":"str"}`)
	_, err = r.Resolve(doc, MustParsePath("s.x"))
	kind, ok = KindOf(err)
	require.True(t, ok)
	require.Equal(t, TypeMismatch, kind)
}

func TestResolve_RecordList(t *testing.T) {
	doc := parseDoc(t, `{
		"Data": [
			{"Name": "DropRate", "Value": 0.5},
			{"Name": "PrimaryDrop", "Value": [
				{"Name": "Count", "Value": 3}
			]}
		]
	}`)
	r := NewResolver(Options{NameField: "Name"})

	loc, err := r.Resolve(doc["Data"], MustParsePath("PrimaryDrop.Count"))
	require.NoError(t, err)
	require.Equal(t, json.Number("3"), loc.Get())

	loc.Set(json.Number("7"))
	again, err := r.Resolve(doc["Data"], MustParsePath("PrimaryDrop.Count"))
	require.NoError(t, err)
	require.Equal(t, json.Number("7"), again.Get())
}

func TestResolve_RecordListMissingRecord(t *testing.T) {
	doc := parseDoc(t, `{"Data":[{"Name":"A","Value":1}]}`)
	r := NewResolver(Options{NameField: "Name"})
	_, err := r.Resolve(doc["Data"], MustParsePath("B"))
	require.True(t, IsNotFound(err))
}

func TestResolve_RecordIndexUnwrapsValue(t *testing.T) {
	// Array properties hold wrapped elements: each entry is itself a
	// {Name, Value} record.
	doc := parseDoc(t, `{
		"Data": [
			{"Name": "Costs", "Value": [
				{"Name": "0", "Value": 10},
				{"Name": "1", "Value": 20}
			]}
		]
	}`)
	r := NewResolver(Options{NameField: "Name"})

	loc, err := r.Resolve(doc["Data"], MustParsePath("Costs[1]"))
	require.NoError(t, err)
	require.Equal(t, json.Number("20"), loc.Get())

	loc.Set(json.Number("25"))
	rec := doc["Data"].([]any)[0].(map[string]any)["Value"].([]any)[1].(map[string]any)
	require.Equal(t, json.Number("25"), rec["Value"])
}

func TestResolveAll_Wildcard(t *testing.T) {
	doc := parseDoc(t, `{
		"FloatCurve": {"Keys": [
			{"Time": 0, "Value": 90},
			{"Time": 1, "Value": 45},
			{"Time": 2, "Value": 10}
		]}
	}`)
	r := NewResolver(Options{})

	locs, err := r.ResolveAll(doc, MustParsePath("FloatCurve.Keys[*].Time"))
	require.NoError(t, err)
	require.Len(t, locs, 3)
	for _, loc := range locs {
		loc.Set(json.Number("5"))
	}
	for _, key := range doc["FloatCurve"].(map[string]any)["Keys"].([]any) {
		require.Equal(t, json.Number("5"), key.(map[string]any)["Time"])
	}
}

func TestResolveAll_WildcardEmptySequence(t *testing.T) {
	doc := parseDoc(t, `{"Keys":[]}`)
	locs, err := NewResolver(Options{}).ResolveAll(doc, MustParsePath("Keys[*]"))
	require.NoError(t, err)
	require.Empty(t, locs)
}

func TestResolve_RejectsWildcard(t *testing.T) {
	doc := parseDoc(t, `{"Keys":[1]}`)
	_, err := NewResolver(Options{}).Resolve(doc, MustParsePath("Keys[*]"))
	require.Error(t, err)
}
