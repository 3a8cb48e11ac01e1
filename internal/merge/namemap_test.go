package merge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyncNameMap_RegistersReferencedNames(t *testing.T) {
	doc := parseDoc(t, `{
	  "NameMap": ["Known"],
	  "Exports": [
	    {"Data": [
	      {"$type": "UAssetAPI.PropertyTypes.Objects.NamePropertyData, UAssetAPI", "Name": "Known", "Value": "FreshName"},
	      {"$type": "UAssetAPI.PropertyTypes.Objects.EnumPropertyData, UAssetAPI", "Name": "Quality", "EnumType": "EOreQuality", "Value": "EOreQuality::Rich"},
	      {"$type": "UAssetAPI.PropertyTypes.Structs.StructPropertyData, UAssetAPI", "Name": "Stats", "StructType": "MiningStats", "Value": [
	        {"$type": "UAssetAPI.PropertyTypes.Arrays.ArrayPropertyData, UAssetAPI", "Name": "Bonuses", "ArrayType": "FloatProperty", "Value": []}
	      ]},
	      {"$type": "UAssetAPI.PropertyTypes.Objects.MapPropertyData, UAssetAPI", "Name": "Lookup", "KeyType": "NameProperty", "ValueType": "IntProperty", "Value": {}}
	    ]}
	  ]
	}`)

	added := SyncNameMap(doc)
	require.ElementsMatch(t, []string{
		"FreshName",
		"Quality", "EOreQuality", "EOreQuality::Rich",
		"Stats", "MiningStats",
		"Bonuses", "FloatProperty",
		"Lookup", "NameProperty", "IntProperty",
	}, added)

	nameMap := doc["NameMap"].([]any)
	require.Equal(t, "Known", nameMap[0])
	require.Len(t, nameMap, 1+len(added))
}

func TestSyncNameMap_CompleteMapUnchanged(t *testing.T) {
	doc := parseDoc(t, `{
	  "NameMap": ["Value", "Duration"],
	  "Exports": [
	    {"Data": [{"$type": "UAssetAPI.PropertyTypes.Objects.FloatPropertyData, UAssetAPI", "Name": "Duration", "Value": 60}]}
	  ]
	}`)
	require.Empty(t, SyncNameMap(doc))
	require.Len(t, doc["NameMap"].([]any), 2)
}

func TestSyncNameMap_NoNameMap(t *testing.T) {
	doc := parseDoc(t, `{"Exports": [{"Data": [{"$type": "FloatPropertyData", "Name": "X", "Value": 1}]}]}`)
	require.Nil(t, SyncNameMap(doc))
	_, ok := doc["NameMap"]
	require.False(t, ok)
}
