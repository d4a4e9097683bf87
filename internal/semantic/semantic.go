// Package semantic implements the Semantic Compressor: a fixed mapping of
// verbose business-prose phrases to their concise equivalents, applied
// under the same Protected Region rules as the Filler Stripper.
package semantic

import (
	"regexp"

	"tokshrink/internal/protect"
)

type mapping struct {
	phrase string
	concise string
}

// phraseTable is the fixed verbose-to-concise mapping. It is deliberately
// not configurable: the spec treats this as a single built-in table, not
// a tunable preset ladder like the Filler Stripper's.
var phraseTable = []mapping{
	{"in spite of the fact that", "although"},
	{"with the exception of", "except"},
	{"in the near future", "soon"},
	{"a large number of", "many"},
	{"in a timely manner", "promptly"},
	{"at the present time", "currently"},
	{"in the majority of cases", "usually"},
	{"on a daily basis", "daily"},
	{"in close proximity to", "near"},
	{"make a decision", "decide"},
	{"give consideration to", "consider"},
	{"come to the conclusion that", "conclude that"},
	{"take into consideration", "consider"},
	{"in the process of", "while"},
	{"with reference to", "regarding"},
	{"for the purpose of", "to"},
	{"in connection with", "about"},
	{"on the grounds that", "because"},
	{"in all likelihood", "likely"},
	{"as a consequence of", "because of"},
	{"in the absence of", "without"},
	{"with respect to", "about"},
	{"by means of", "by"},
	{"in the case of", "for"},
	{"has the ability to", "can"},
	{"is able to", "can"},
	{"it is possible that", "maybe"},
	{"in the event of", "if"},
	{"prior to", "before"},
	{"subsequent to", "after"},
	{"in order for", "so"},
	{"on the basis of", "based on"},
	{"in the interest of", "for"},
	{"with the aim of", "to"},
}

type rule struct {
	pattern *regexp.Regexp
	concise string
}

var rules = compileRules(phraseTable)

func compileRules(table []mapping) []rule {
	rules := make([]rule, len(table))
	for i, m := range table {
		rules[i] = rule{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(m.phrase) + `\b`),
			concise: m.concise,
		}
	}
	return rules
}

// Result is the output of a Compress call.
type Result struct {
	Text         string
	Changed      bool
	ReplacementCount int
}

// Compress rewrites every occurrence of a known verbose phrase to its
// concise form, outside of Protected Regions, honoring the same adverb
// adjacency guard as the Filler Stripper near inline code.
func Compress(text string) Result {
	replaced := 0
	scan := protect.Split(text)
	out, changed := scan.MapText(func(seg string, prevInline, nextInline bool) (string, bool) {
		segChanged := false
		for _, r := range rules {
			var n int
			seg, n = applyRule(seg, r, prevInline, nextInline)
			if n > 0 {
				replaced += n
				segChanged = true
			}
		}
		return seg, segChanged
	})
	return Result{Text: out, Changed: changed, ReplacementCount: replaced}
}

func applyRule(text string, r rule, prevInline, nextInline bool) (string, int) {
	matches := r.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var out []byte
	last := 0
	count := 0
	for _, m := range matches {
		s, e := m[0], m[1]
		out = append(out, text[last:s]...)
		if protect.SuppressedByAdjacency(text, s, e, prevInline, nextInline) {
			out = append(out, text[s:e]...)
		} else {
			out = append(out, r.concise...)
			count++
		}
		last = e
	}
	out = append(out, text[last:]...)

	if count == 0 {
		return text, 0
	}
	return string(out), count
}

// PhraseCount returns the number of entries in the built-in phrase table,
// primarily for tests asserting the table meets its minimum size.
func PhraseCount() int { return len(phraseTable) }
