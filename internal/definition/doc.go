// Package definition loads user-authored mod definition files.
//
// A definition file is an HCL document describing field-level edits against
// the game's converted JSON data files:
//
//	definition {
//	  description = "Longer mining song buff"
//	  author      = "Tobi"
//
//	  target "Tech/Data/Effects/GE_MiningSong.json" {
//	    layout = "exports"
//
//	    object "GE_MiningSong_CompleteBuff" {
//	      change "DurationMagnitude.ScalableFloatMagnitude.Value" {
//	        value = 1800
//	      }
//	    }
//	  }
//	}
//
// Files are parsed into a format-agnostic model; the merge engine never sees
// HCL types. A build applies definitions in the order the user listed them,
// and that order is the override contract: the later definition wins at an
// exact path.
package definition
