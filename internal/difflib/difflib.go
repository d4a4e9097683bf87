// Package difflib implements the Diff Producer: a deterministic unified
// diff between two texts with fixed, content-free headers.
package difflib

import (
	godifflib "github.com/pmezard/go-difflib/difflib"
)

// Options configures a single UnifiedDiff call.
type Options struct {
	// Context is the number of unchanged lines of context to show around
	// each changed region. Zero selects the default of 3.
	Context int
}

const defaultContext = 3

// UnifiedDiff produces a unified diff of before -> after. The output
// headers are always the fixed literals "--- before" and "+++ after" —
// no timestamps, no file paths from the caller's environment — so that
// the result is byte-for-byte reproducible for identical inputs.
func UnifiedDiff(before, after string, opts Options) (string, error) {
	context := opts.Context
	if context <= 0 {
		context = defaultContext
	}

	diff := godifflib.UnifiedDiff{
		A:        godifflib.SplitLines(before),
		B:        godifflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  context,
	}
	return godifflib.GetUnifiedDiffString(diff)
}

// Identical reports whether before and after are exactly equal, the case
// in which a caller may skip producing a diff entirely.
func Identical(before, after string) bool {
	return before == after
}
