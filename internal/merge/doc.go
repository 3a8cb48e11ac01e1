// Package merge applies an ordered list of definitions to the converted JSON
// documents they target. Definitions are applied in the user's build order;
// when two definitions write the same file/object/path, the later one wins
// and the override is recorded. Non-overlapping writes are additive. A
// change replaces a leaf value only; structured values are never deep-merged.
//
// After all definitions apply, a validation pass re-resolves every change
// path against the merged document so that schema drift (the game's data
// shape changed between cached versions) is reported per definition and path
// instead of surfacing as a broken build downstream.
package merge
