// Package summarize implements the Summarizer: an extractive, order-
// preserving reduction that only engages once an input's estimated token
// count clears a configurable high-water mark.
package summarize

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"tokshrink/internal/protect"
)

// DefaultHighWaterMarkTokens is the Summarizer's default trigger
// threshold: inputs below this estimated token count are returned
// unchanged.
const DefaultHighWaterMarkTokens = 10_000

// DefaultTargetRatio is the default fraction of prose sentences kept when
// the Summarizer engages.
const DefaultTargetRatio = 0.3

// Options configures a single Summarize call.
type Options struct {
	// HighWaterMarkTokens gates whether Summarize does anything at all.
	// Zero selects DefaultHighWaterMarkTokens.
	HighWaterMarkTokens int
	// TargetRatio is the fraction of prose sentences to keep. Zero
	// selects DefaultTargetRatio.
	TargetRatio float64
}

// Result is the output of a Summarize call.
type Result struct {
	Text          string
	Applied       bool
	SentenceCount int
	KeptCount     int
}

var (
	blankLineSplit = regexp.MustCompile(`\n[ \t]*\n+`)
	wordPattern    = regexp.MustCompile(`[A-Za-z']+`)
	structuralMark = regexp.MustCompile(`(?i)^\s*(note|important|warning|conclusion|summary|key point)s?\s*:`)
	hasDigit       = regexp.MustCompile(`\d`)
)

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"to": true, "of": true, "in": true, "on": true, "for": true, "with": true,
	"as": true, "by": true, "at": true, "that": true, "this": true, "it": true,
	"its": true, "from": true, "which": true, "these": true, "those": true,
}

type sentenceInfo struct {
	paragraph int
	index     int
	text      string
	score     float64
}

type paragraphUnit struct {
	protected bool
	raw       string
	sentences []string
}

// Summarize extracts the highest-scoring fraction of a document's
// sentences, in original order, once estimatedTokens clears the
// configured high-water mark. Below the mark it is a no-op. Paragraphs
// that are entirely a Protected Region (a standalone fenced code block,
// say) are always kept verbatim and never contribute to or consume the
// sentence budget.
//
// Sentence importance combines length-penalized keyword frequency,
// a position weight favoring paragraph-opening and paragraph-closing
// sentences, and a bonus for structural markers (a leading "Note:"-style
// label, or the presence of a concrete figure).
func Summarize(text string, estimatedTokens int, opts Options) Result {
	hwm := opts.HighWaterMarkTokens
	if hwm <= 0 {
		hwm = DefaultHighWaterMarkTokens
	}
	if estimatedTokens < hwm {
		return Result{Text: text, Applied: false}
	}

	if protect.Split(text).WholeDocumentJSON {
		return Result{Text: text, Applied: false}
	}

	paragraphs := blankLineSplit.Split(text, -1)
	units := make([]paragraphUnit, 0, len(paragraphs))

	var all []sentenceInfo
	for pi, p := range paragraphs {
		if p == "" {
			continue
		}
		if isWhollyProtected(p) {
			units = append(units, paragraphUnit{protected: true, raw: p})
			continue
		}
		sents := protect.SplitSentences(p)
		units = append(units, paragraphUnit{sentences: sents})
		for _, s := range sents {
			all = append(all, sentenceInfo{paragraph: pi, index: len(all), text: s})
		}
	}

	if len(all) == 0 {
		return Result{Text: text, Applied: false, SentenceCount: 0}
	}

	freq := wordFrequency(all)
	scoreSentences(all, units, freq)

	ratio := opts.TargetRatio
	if ratio <= 0 {
		ratio = DefaultTargetRatio
	}
	keepN := int(math.Ceil(float64(len(all)) * ratio))
	if keepN < 1 {
		keepN = 1
	}
	if keepN > len(all) {
		keepN = len(all)
	}

	ranked := make([]sentenceInfo, len(all))
	copy(ranked, all)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	keep := make(map[int]bool, keepN)
	for i := 0; i < keepN; i++ {
		keep[ranked[i].index] = true
	}

	var out []string
	idx := 0
	for _, u := range units {
		if u.protected {
			out = append(out, u.raw)
			continue
		}
		var kept []string
		for _, s := range u.sentences {
			if keep[idx] {
				kept = append(kept, s)
			}
			idx++
		}
		if len(kept) > 0 {
			out = append(out, strings.Join(kept, " "))
		}
	}

	return Result{
		Text:          strings.Join(out, "\n\n"),
		Applied:       true,
		SentenceCount: len(all),
		KeptCount:     keepN,
	}
}

func scoreSentences(all []sentenceInfo, units []paragraphUnit, freq map[string]int) {
	// Build per-paragraph first/last sentence index sets for position
	// weighting.
	paraBounds := make(map[int][2]int) // paragraph index -> [firstGlobalIdx, lastGlobalIdx]
	for _, s := range all {
		b, ok := paraBounds[s.paragraph]
		if !ok {
			paraBounds[s.paragraph] = [2]int{s.index, s.index}
			continue
		}
		if s.index < b[0] {
			b[0] = s.index
		}
		if s.index > b[1] {
			b[1] = s.index
		}
		paraBounds[s.paragraph] = b
	}

	bases := make([]float64, len(all))
	maxBase := 0.0
	for i := range all {
		words := wordPattern.FindAllString(strings.ToLower(all[i].text), -1)
		var freqScore float64
		for _, w := range words {
			if stopwords[w] {
				continue
			}
			freqScore += float64(freq[w])
		}
		lengthPenalty := math.Sqrt(float64(len(words)) + 1)
		bases[i] = freqScore / lengthPenalty
		maxBase = math.Max(maxBase, bases[i])
	}

	for i := range all {
		s := &all[i]
		// Keyword scores grow with document size; scaling them into [0, 1]
		// keeps the fixed marker and figure bonuses below comparable.
		base := bases[i]
		if maxBase > 0 {
			base /= maxBase
		}

		bounds := paraBounds[s.paragraph]
		positionWeight := 1.0
		if s.index == bounds[0] {
			positionWeight = 1.3
		} else if s.index == bounds[1] {
			positionWeight = 1.15
		}

		bonus := 0.0
		if structuralMark.MatchString(s.text) {
			bonus += 2.0
		}
		if hasDigit.MatchString(s.text) {
			bonus += 0.5
		}

		s.score = base*positionWeight + bonus
	}
}

func wordFrequency(all []sentenceInfo) map[string]int {
	freq := make(map[string]int)
	for _, s := range all {
		for _, w := range wordPattern.FindAllString(strings.ToLower(s.text), -1) {
			if stopwords[w] {
				continue
			}
			freq[w]++
		}
	}
	return freq
}

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

