package merge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tobimods/modkit/internal/definition"
)

func TestLocateExport_NameVariants(t *testing.T) {
	cases := []string{
		"Default__BP_Pickaxe_C",
		"Default__BP_Pickaxe",
		"BP_Pickaxe",
		"BP_Pickaxe_C",
	}
	for _, objectName := range cases {
		t.Run(objectName, func(t *testing.T) {
			doc := parseDoc(t, `{"Exports": [
			  {"ObjectName": "SomethingElse", "Data": [{"Name": "x", "Value": 1}]},
			  {"ObjectName": "`+objectName+`", "Data": [{"Name": "Damage", "Value": 10}]}
			]}`)
			roots, err := New(Options{}).locateExport(doc, "BP_Pickaxe")
			require.NoError(t, err)
			require.Len(t, roots, 1)
			recs := roots[0].current().([]any)
			require.Equal(t, "Damage", recs[0].(map[string]any)["Name"])
		})
	}
}

func TestLocateExport_NoneTakesFirstWithData(t *testing.T) {
	doc := parseDoc(t, `{"Exports": [
	  {"ObjectName": "Empty"},
	  {"ObjectName": "BP_Thing_C", "Data": [{"Name": "Speed", "Value": 3}]}
	]}`)
	roots, err := New(Options{}).locateExport(doc, ObjectNone)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	recs := roots[0].current().([]any)
	require.Equal(t, "Speed", recs[0].(map[string]any)["Name"])
}

func TestLocateKey_NestedMapping(t *testing.T) {
	doc := parseDoc(t, `{"Config": {"Difficulty": {"Normal": {"SpawnRate": 1.0}}}}`)
	roots, err := New(Options{}).locateKey(doc, "Normal")
	require.NoError(t, err)
	require.Len(t, roots, 1)

	m := roots[0].current().(map[string]any)
	require.Equal(t, json.Number("1.0"), m["SpawnRate"])

	roots[0].replace(map[string]any{"SpawnRate": json.Number("2")})
	updated := doc["Config"].(map[string]any)["Difficulty"].(map[string]any)["Normal"].(map[string]any)
	require.Equal(t, json.Number("2"), updated["SpawnRate"])
}

func TestLocateKey_AmbiguousNameIsDeterministic(t *testing.T) {
	// Two nested containers carry the same key; location must not depend on
	// map iteration order.
	const doc = `{
	  "Zones": {"Normal": {"SpawnRate": 2.0}},
	  "Config": {"Normal": {"SpawnRate": 1.0}}
	}`
	for i := 0; i < 20; i++ {
		roots, err := New(Options{}).locateKey(parseDoc(t, doc), "Normal")
		require.NoError(t, err)
		m := roots[0].current().(map[string]any)
		require.Equal(t, json.Number("1.0"), m["SpawnRate"])
	}
}

func TestLocateRecord_NestedSequences(t *testing.T) {
	doc := parseDoc(t, `{"Groups": [
	  {"Name": "Weapons", "Value": [
	    {"Name": "BP_Pickaxe", "Value": [{"Name": "Damage", "Value": 10}]}
	  ]}
	]}`)
	roots, err := New(Options{}).locateRecord(doc, "BP_Pickaxe")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	recs := roots[0].current().([]any)
	require.Equal(t, "Damage", recs[0].(map[string]any)["Name"])
}

func TestLocateAuto_FallsThroughStrategies(t *testing.T) {
	eng := New(Options{})

	exports := parseDoc(t, `{"Exports": [{"ObjectName": "BP_X_C", "Data": [{"Name": "a", "Value": 1}]}]}`)
	_, err := eng.locate(exports, definition.LayoutAuto, "BP_X")
	require.NoError(t, err)

	keyed := parseDoc(t, `{"Settings": {"BP_X": {"a": 1}}}`)
	_, err = eng.locate(keyed, definition.LayoutAuto, "BP_X")
	require.NoError(t, err)

	_, err = eng.locate(keyed, definition.LayoutAuto, "BP_Missing")
	var nf *ObjectNotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, definition.LayoutAuto, nf.Layout)
}

func TestLocate_ExplicitLayoutDoesNotFallBack(t *testing.T) {
	keyed := parseDoc(t, `{"Settings": {"BP_X": {"a": 1}}}`)
	_, err := New(Options{}).locate(keyed, definition.LayoutExports, "BP_X")
	var nf *ObjectNotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, definition.LayoutExports, nf.Layout)
}
