// Package whitespace implements the Whitespace Compressor: collapsing
// runs of horizontal whitespace and excess blank lines outside of
// Protected Regions.
package whitespace

import (
	"regexp"

	"tokshrink/internal/protect"
)

var (
	// runOfSpacesOrTabs matches two or more consecutive spaces/tabs,
	// collapsed to a single space. A line's leading indentation is
	// exempt: the pattern only matches where preceded by a non-newline
	// character, so code-like indentation in prose is left alone.
	runOfSpacesOrTabs = regexp.MustCompile(`([^\n \t])([ \t]{2,})`)

	// threeOrMoreBlankLines collapses four or more consecutive newlines
	// (i.e. three or more fully blank lines, per spec §4.8) down to
	// exactly three newlines (two blank lines).
	threeOrMoreBlankLines = regexp.MustCompile(`\n{4,}`)
)

// Result is the output of a Compress call.
type Result struct {
	Text    string
	Changed bool
}

// Compress collapses runs of two or more interior spaces/tabs to a single
// space, and runs of three or more blank lines to two, leaving Protected
// Regions untouched.
func Compress(text string) Result {
	scan := protect.Split(text)
	// Split yields one piece per line; join neighbouring unprotected pieces
	// so a run of blank lines reaches the pattern as a single segment.
	var merged []protect.Piece
	for _, p := range scan.Pieces {
		if n := len(merged); n > 0 && !p.Protected && !merged[n-1].Protected {
			merged[n-1].Text += p.Text
			continue
		}
		merged = append(merged, p)
	}
	scan.Pieces = merged
	out, changed := scan.MapText(func(seg string, prevInline, nextInline bool) (string, bool) {
		collapsed := runOfSpacesOrTabs.ReplaceAllString(seg, "$1 ")
		collapsed = threeOrMoreBlankLines.ReplaceAllString(collapsed, "\n\n\n")
		return collapsed, collapsed != seg
	})
	return Result{Text: out, Changed: changed}
}
