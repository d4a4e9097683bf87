// Package protect implements the Structural Protector: a three-state line
// scanner ({TEXT, FENCED} plus an inline substate) that locates fenced code
// blocks, inline code spans, and whole-document JSON literals so that every
// other pass in the pipeline can treat their contents as opaque and restore
// them byte-for-byte on output.
package protect

import (
	"encoding/json"
	"strings"
)

// Kind tags the flavor of a Protected Region.
type Kind string

// Recognized Protected Region kinds.
const (
	KindFencedCode  Kind = "fenced-code"
	KindInlineCode  Kind = "inline-code"
	KindJSONLiteral Kind = "json-literal"
)

// Piece is one contiguous span of a Scan: either ordinary text a pass may
// rewrite, or a Protected Region a pass must leave untouched.
type Piece struct {
	Protected  bool
	RegionKind Kind // meaningful only when Protected is true
	Text       string
}

// Scan is the result of splitting an input into protected and unprotected
// pieces. Joining Pieces in order always reconstructs the original text.
type Scan struct {
	Pieces            []Piece
	WholeDocumentJSON bool
}

// Split scans text and returns its protected/unprotected pieces.
//
// If the trimmed input parses as JSON, the whole document becomes a single
// json-literal Piece and WholeDocumentJSON is true — callers must treat
// every other pass as a no-op in that case (see Scan.MapText).
//
// Otherwise the scanner walks line by line: a line whose trimmed content
// starts with a triple backtick toggles FENCED state, and the fenced block
// (including its delimiter lines) becomes one fenced-code Piece. Within
// ordinary TEXT lines, single-backtick-delimited spans become inline-code
// Pieces.
func Split(text string) Scan {
	trimmed := strings.TrimSpace(text)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return Scan{
			WholeDocumentJSON: true,
			Pieces: []Piece{{
				Protected:  true,
				RegionKind: KindJSONLiteral,
				Text:       text,
			}},
		}
	}

	var pieces []Piece
	var fenceBuf strings.Builder
	inFence := false

	for _, line := range splitKeepEnds(text) {
		isFenceMarker := strings.HasPrefix(strings.TrimSpace(line), "```")

		if inFence {
			fenceBuf.WriteString(line)
			if isFenceMarker {
				pieces = append(pieces, Piece{Protected: true, RegionKind: KindFencedCode, Text: fenceBuf.String()})
				fenceBuf.Reset()
				inFence = false
			}
			continue
		}

		if isFenceMarker {
			fenceBuf.WriteString(line)
			inFence = true
			continue
		}

		pieces = append(pieces, splitInline(line)...)
	}

	// An unterminated fence still must not be mutated downstream.
	if fenceBuf.Len() > 0 {
		pieces = append(pieces, Piece{Protected: true, RegionKind: KindFencedCode, Text: fenceBuf.String()})
	}

	return Scan{Pieces: pieces}
}

// Join reconstructs the original text from pieces.
func Join(pieces []Piece) string {
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Join reconstructs the original text from s.Pieces.
func (s Scan) Join() string { return Join(s.Pieces) }

// MapText rewrites every unprotected piece of the scan via fn and leaves
// protected pieces untouched, returning the reconstructed text and whether
// any piece changed. If the scan is a whole-document JSON literal, fn is
// never called and the original text is returned unchanged, per the
// Structural Protector's contract that prose passes are no-ops on JSON
// documents.
//
// fn receives prevInline/nextInline: whether the piece directly abuts an
// inline-code Protected Region on that side, for implementing the adverb
// adjacency guard via SuppressedByAdjacency.
func (s Scan) MapText(fn func(text string, prevInline, nextInline bool) (string, bool)) (string, bool) {
	if s.WholeDocumentJSON {
		return s.Join(), false
	}

	changed := false
	out := make([]Piece, len(s.Pieces))
	copy(out, s.Pieces)

	for i, p := range s.Pieces {
		if p.Protected {
			continue
		}
		prevInline := i > 0 && s.Pieces[i-1].Protected && s.Pieces[i-1].RegionKind == KindInlineCode
		nextInline := i < len(s.Pieces)-1 && s.Pieces[i+1].Protected && s.Pieces[i+1].RegionKind == KindInlineCode

		newText, didChange := fn(p.Text, prevInline, nextInline)
		if didChange {
			changed = true
			out[i].Text = newText
		}
	}

	return Join(out), changed
}

// SuppressedByAdjacency reports whether a rule match spanning text[s:e]
// must be suppressed under the adverb adjacency guard: a filler-stripper
// rule may not fire when only whitespace separates the match from an
// abutting inline-code Protected Region.
func SuppressedByAdjacency(text string, s, e int, prevInline, nextInline bool) bool {
	if prevInline && strings.TrimLeft(text[:s], " \t") == "" {
		return true
	}
	if nextInline && strings.TrimRight(text[e:], " \t") == "" {
		return true
	}
	return false
}

// Preserved reports per-kind whether the scan contains at least one
// Protected Region of that kind, matching the {codeBlocks, inline, json}
// shape of Pass Meta.
func (s Scan) Preserved() (codeBlocks, inline, json bool) {
	if s.WholeDocumentJSON {
		return false, false, true
	}
	for _, p := range s.Pieces {
		if !p.Protected {
			continue
		}
		switch p.RegionKind {
		case KindFencedCode:
			codeBlocks = true
		case KindInlineCode:
			inline = true
		case KindJSONLiteral:
			json = true
		}
	}
	return codeBlocks, inline, json
}

// SplitSentences splits text into sentences on runs of '.', '!', '?',
// treating every Protected Region as an indivisible unit: a terminator
// inside a fenced code block, inline code span, or JSON literal never
// creates a sentence boundary, and the region's text reaches the output
// sentence byte-for-byte. Callers that need to dedup or rank sentences
// (§4.9, §4.12) should split with this rather than a bare regex over the
// raw paragraph.
func SplitSentences(text string) []string {
	scan := Split(text)
	if scan.WholeDocumentJSON {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	type fragment struct {
		text      string
		protected bool
	}

	var current []fragment
	var sentences []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		if !current[0].protected {
			current[0].text = strings.TrimLeft(current[0].text, " \t\r\n")
		}
		last := len(current) - 1
		if !current[last].protected {
			current[last].text = strings.TrimRight(current[last].text, " \t\r\n")
		}
		var b strings.Builder
		for _, f := range current {
			b.WriteString(f.text)
		}
		if s := b.String(); s != "" {
			sentences = append(sentences, s)
		}
		current = nil
	}

	for _, p := range scan.Pieces {
		if p.Protected {
			current = append(current, fragment{text: p.Text, protected: true})
			continue
		}

		text := p.Text
		start := 0
		for start < len(text) {
			idx := strings.IndexAny(text[start:], ".!?")
			if idx == -1 {
				current = append(current, fragment{text: text[start:]})
				start = len(text)
				break
			}
			end := start + idx
			for end < len(text) && isSentenceTerminator(text[end]) {
				end++
			}
			current = append(current, fragment{text: text[start:end]})
			flush()
			start = end
		}
	}
	flush()

	return sentences
}

func isSentenceTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// splitInline splits a single line into alternating text/inline-code pieces
// on single-backtick delimiters. Unmatched trailing backticks are treated
// as ordinary text, since an unterminated span cannot be a region.
func splitInline(line string) []Piece {
	var pieces []Piece
	i := 0
	for i < len(line) {
		idx := strings.IndexByte(line[i:], '`')
		if idx == -1 {
			pieces = append(pieces, Piece{Text: line[i:]})
			break
		}
		start := i + idx
		if start > i {
			pieces = append(pieces, Piece{Text: line[i:start]})
		}
		closeIdx := strings.IndexByte(line[start+1:], '`')
		if closeIdx == -1 {
			pieces = append(pieces, Piece{Text: line[start:]})
			break
		}
		end := start + 1 + closeIdx + 1
		pieces = append(pieces, Piece{Protected: true, RegionKind: KindInlineCode, Text: line[start:end]})
		i = end
	}
	return pieces
}

// splitKeepEnds splits text into lines, each retaining its own trailing
// newline so that joining every line reconstructs text exactly.
func splitKeepEnds(text string) []string {
	if text == "" {
		return nil
	}
	return strings.SplitAfter(text, "\n")
}
