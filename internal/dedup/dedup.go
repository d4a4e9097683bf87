// Package dedup implements the Duplicate Remover: sentence-level, then
// paragraph-level deduplication of prose, keeping the first occurrence of
// each normalized form and leaving Protected Regions untouched.
package dedup

import (
	"regexp"
	"strings"

	"tokshrink/internal/protect"
)

var blankLineSplit = regexp.MustCompile(`\n[ \t]*\n+`)

// Result is the output of a Dedup call.
type Result struct {
	Text              string
	Changed           bool
	SentencesRemoved  int
	ParagraphsRemoved int
}

// Dedup removes duplicate sentences (by normalized form, first occurrence
// wins across the whole document) and then drops any paragraph that
// either duplicates an earlier paragraph's normalized form or had every
// one of its sentences removed as duplicates. Paragraphs that are
// entirely a Protected Region (a fenced code block on its own, say) are
// never deduplicated against anything.
//
// Whole-document JSON is a no-op, matching every other pass in the
// pipeline.
func Dedup(text string) Result {
	if protect.Split(text).WholeDocumentJSON {
		return Result{Text: text}
	}

	paragraphs := blankLineSplit.Split(text, -1)
	seenParagraphs := make(map[string]bool)
	seenSentences := make(map[string]bool)

	var kept []string
	paragraphsRemoved := 0
	sentencesRemoved := 0

	for _, p := range paragraphs {
		if p == "" {
			continue
		}

		if isWhollyProtected(p) {
			kept = append(kept, p)
			continue
		}

		key := normKey(p)
		if seenParagraphs[key] {
			paragraphsRemoved++
			continue
		}
		seenParagraphs[key] = true

		sentences := protect.SplitSentences(p)
		var keptSentences []string
		removedHere := 0
		for _, s := range sentences {
			sk := normKey(s)
			if seenSentences[sk] {
				sentencesRemoved++
				removedHere++
				continue
			}
			seenSentences[sk] = true
			keptSentences = append(keptSentences, s)
		}

		if len(keptSentences) == 0 {
			paragraphsRemoved++
			continue
		}
		if removedHere == 0 {
			// No sentence was dropped from this paragraph: keep it
			// byte-for-byte rather than rejoining sentences with a bare
			// space, which would flatten internal line breaks (a list,
			// say) that the split/join round-trip doesn't need to touch.
			kept = append(kept, p)
			continue
		}
		kept = append(kept, strings.Join(keptSentences, " "))
	}

	if sentencesRemoved == 0 && paragraphsRemoved == 0 {
		return Result{Text: text}
	}

	return Result{
		Text:              strings.Join(kept, "\n\n"),
		Changed:           true,
		SentencesRemoved:  sentencesRemoved,
		ParagraphsRemoved: paragraphsRemoved,
	}
}

// isWhollyProtected reports whether p, scanned in isolation, contains no
// unprotected non-whitespace content — i.e. it is entirely a fenced code
// block, inline code span, or JSON literal.
func isWhollyProtected(p string) bool {
	s := protect.Split(p)
	if s.WholeDocumentJSON {
		return true
	}
	if len(s.Pieces) == 0 {
		return false
	}
	for _, piece := range s.Pieces {
		if !piece.Protected && strings.TrimSpace(piece.Text) != "" {
			return false
		}
	}
	return true
}

// normKey folds a sentence or paragraph to a comparison key: lowercase,
// internal whitespace collapsed, trailing punctuation stripped.
func normKey(s string) string {
	joined := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.TrimRight(joined, ".!?,;:")
}
