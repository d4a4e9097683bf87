// Package contextopt implements the Context-Specific Optimizers: a small
// set of passes tailored to a single content type (log, documentation,
// code) rather than applied uniformly to every input. The engine selects
// which of these to run based on the Content-Type Classifier's verdict.
package contextopt

import (
	"fmt"
	"regexp"
	"strings"

	"tokshrink/internal/protect"
)

// Result is the output of any optimizer in this package.
type Result struct {
	Text    string
	Changed bool
}

var timestampPatterns = []*regexp.Regexp{
	// RFC3339, optionally with fractional seconds and a zone offset.
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?\s*`),
	// Space-separated "2006-01-02 15:04:05".
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}(\.\d+)?\s*`),
	// Syslog "Jan  2 15:04:05".
	regexp.MustCompile(`^[A-Z][a-z]{2}\s+\d{1,2}\s\d{2}:\d{2}:\d{2}\s*`),
	// Bracketed epoch milliseconds, "[1700000000000]".
	regexp.MustCompile(`^\[\d{10,13}\]\s*`),
}

// OptimizeLog strips a leading timestamp (in any of the four recognized
// formats) from each line, then collapses runs of identical remaining
// lines into "<line> (×N)".
func OptimizeLog(text string) Result {
	lines := strings.Split(text, "\n")
	stripped := make([]string, len(lines))
	for i, l := range lines {
		stripped[i] = stripTimestamp(l)
	}

	var out []string
	i := 0
	for i < len(stripped) {
		j := i + 1
		for j < len(stripped) && stripped[j] == stripped[i] {
			j++
		}
		count := j - i
		if count > 1 {
			out = append(out, fmt.Sprintf("%s (×%d)", stripped[i], count))
		} else {
			out = append(out, stripped[i])
		}
		i = j
	}

	joined := strings.Join(out, "\n")
	return Result{Text: joined, Changed: joined != text}
}

func stripTimestamp(line string) string {
	for _, p := range timestampPatterns {
		if loc := p.FindStringIndex(line); loc != nil && loc[0] == 0 {
			return line[loc[1]:]
		}
	}
	return line
}

var framingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^in this (guide|article|document|section|tutorial),?\s+we will[^\n]*\n?`),
	regexp.MustCompile(`(?im)^this (document|guide|section|article)\s+(will\s+)?(cover|explain|describe)[^\n]*\n?`),
	regexp.MustCompile(`(?im)^let'?s get started\.?\s*\n?`),
	regexp.MustCompile(`(?im)^without further ado,?\s*\n?`),
	regexp.MustCompile(`(?im)^as (you|we) (can see|mentioned)[^\n]*\n?`),
}

// OptimizeDocumentation removes generic framing sentences ("In this
// guide, we will...") and drops duplicate fenced example blocks, keeping
// only the first occurrence of each.
func OptimizeDocumentation(text string) Result {
	out := text
	changed := false
	for _, p := range framingPatterns {
		replaced := p.ReplaceAllString(out, "")
		if replaced != out {
			changed = true
		}
		out = replaced
	}

	out, exChanged := dedupExampleBlocks(out)
	if exChanged {
		changed = true
	}
	return Result{Text: out, Changed: changed}
}

func dedupExampleBlocks(text string) (string, bool) {
	scan := protect.Split(text)
	if scan.WholeDocumentJSON {
		return text, false
	}

	seen := make(map[string]bool)
	changed := false
	out := make([]protect.Piece, 0, len(scan.Pieces))
	for _, p := range scan.Pieces {
		if p.Protected && p.RegionKind == protect.KindFencedCode {
			key := strings.Join(strings.Fields(p.Text), " ")
			if seen[key] {
				changed = true
				continue
			}
			seen[key] = true
		}
		out = append(out, p)
	}
	return protect.Join(out), changed
}

// trivialCommentLine matches a whole line that is nothing but a
// single-line comment restating an obvious, generic operation.
var trivialCommentLine = regexp.MustCompile(
	`(?im)^[ \t]*(//|#)\s*(increment|decrement|initialize|init|return|set|get|loop through|check if)\s+\S.{0,24}$`)

// OptimizeCode removes comment-only lines that restate an obvious,
// generic operation (e.g. "// increment i"): a leading verb such as
// increment, set or return followed by at most 25 more characters. The
// line after the comment is not examined.
func OptimizeCode(text string) Result {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	changed := false
	for _, l := range lines {
		if trivialCommentLine.MatchString(l) {
			changed = true
			continue
		}
		out = append(out, l)
	}
	return Result{Text: strings.Join(out, "\n"), Changed: changed}
}
