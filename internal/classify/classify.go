// Package classify implements the Content-Type Classifier: a
// feature-based heuristic that buckets input into code, prose, log,
// json, documentation, or mixed, so the engine can choose which passes
// are worth running.
package classify

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"tokshrink/internal/protect"
)

// ContentType is the classifier's output bucket.
type ContentType string

// Recognized content types.
const (
	TypeJSON          ContentType = "json"
	TypeLog           ContentType = "log"
	TypeDocumentation ContentType = "documentation"
	TypeCode          ContentType = "code"
	TypeProse         ContentType = "prose"
	TypeMixed         ContentType = "mixed"
)

// Features is the raw signal computed from an input before classification
// rules are applied. Exposed for diagnostics and testing.
type Features struct {
	TotalChars   int
	JSONPercent  float64
	LogPatterns  int
	DocPatterns  int
	CodePercent  float64
	ProsePercent float64
	// HTMLTagCount is the parsed element-node count from countHTMLTags;
	// it is folded into DocPatterns below (rule 4 of Classify), since raw
	// HTML tags embedded in prose — <details>, <img>, badge markup — are
	// as much a documentation signal as a Markdown heading or list item.
	HTMLTagCount int
}

var (
	isoTimestamp    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`)
	syslogTimestamp = regexp.MustCompile(`[A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2}`)
	bracketedLevel  = regexp.MustCompile(`\[(DEBUG|INFO|WARN|WARNING|ERROR|FATAL|TRACE)\]`)
	bareLevelWord   = regexp.MustCompile(`\b(DEBUG|INFO|WARN|WARNING|ERROR|FATAL|TRACE)\b`)
	headingMarker   = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
	fencedMarker    = regexp.MustCompile("(?m)^[ \t]*```")
	bulletMarker    = regexp.MustCompile(`(?m)^\s*[-*+]\s+\S`)
	numberedMarker  = regexp.MustCompile(`(?m)^\s*\d+\.\s+\S`)
	linkSyntax      = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)
	structuralPunct = regexp.MustCompile(`[{}();=<>\[\]]`)
	wordToken       = regexp.MustCompile(`[A-Za-z0-9_]+`)
)

// Classify buckets text into a ContentType and returns the confidence and
// features the decision was based on (spec.md §3's
// {type, confidence, features} record). Rules are evaluated in the fixed
// order spec.md §4.10 specifies:
//
//  1. jsonPercent > 0.8 -> json (confidence 0.9).
//  2. logPatterns > 5 -> log (confidence min(0.9, 0.5+logPatterns/20)).
//  3. codePercent > 0.6 -> code (confidence min(0.9, 0.5+codePercent)).
//  4. docPatterns > 3 and prosePercent > 0.7 -> documentation.
//  5. prosePercent > 0.7 -> prose.
//  6. Otherwise -> mixed (confidence 0.5).
func Classify(text string) (ContentType, float64, Features) {
	if protect.Split(text).WholeDocumentJSON {
		return TypeJSON, 0.9, Features{TotalChars: len([]rune(text)), JSONPercent: 1.0}
	}

	f := computeFeatures(text)

	switch {
	case f.LogPatterns > 5:
		return TypeLog, minConf(0.5+float64(f.LogPatterns)/20.0), f
	case f.CodePercent > 0.6:
		return TypeCode, minConf(0.5 + f.CodePercent), f
	case f.DocPatterns > 3 && f.ProsePercent > 0.7:
		return TypeDocumentation, minConf(0.5 + float64(f.DocPatterns)/20.0), f
	case f.ProsePercent > 0.7:
		return TypeProse, minConf(0.5 + f.ProsePercent), f
	default:
		return TypeMixed, 0.5, f
	}
}

// minConf caps a confidence score at the classifier's 0.9 ceiling.
func minConf(v float64) float64 {
	if v > 0.9 {
		return 0.9
	}
	return v
}

func computeFeatures(text string) Features {
	lines := strings.Split(text, "\n")

	var codeChars, proseChars int
	inFence := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			continue
		}

		fencedLine := false
		if strings.HasPrefix(trimmed, "```") {
			fencedLine = true
			inFence = !inFence
		} else if inFence {
			fencedLine = true
		}

		words := len(wordToken.FindAllString(l, -1))
		punct := len(structuralPunct.FindAllString(l, -1))

		isCode := fencedLine || (words == 0 && punct > 0) || (words > 0 && float64(punct)/float64(words) > 0.3)
		if isCode {
			codeChars += len([]rune(l))
		} else {
			proseChars += len([]rune(l))
		}
	}

	logPatterns := len(isoTimestamp.FindAllString(text, -1)) +
		len(syslogTimestamp.FindAllString(text, -1)) +
		len(bracketedLevel.FindAllString(text, -1)) +
		len(bareLevelWord.FindAllString(text, -1))

	htmlTags := countHTMLTags(text)

	docPatterns := len(headingMarker.FindAllString(text, -1)) +
		len(fencedMarker.FindAllString(text, -1)) +
		len(bulletMarker.FindAllString(text, -1)) +
		len(numberedMarker.FindAllString(text, -1)) +
		len(linkSyntax.FindAllString(text, -1)) +
		htmlTags

	totalChars := len([]rune(text))
	codeAndProse := codeChars + proseChars

	var codePercent, prosePercent float64
	if codeAndProse > 0 {
		codePercent = float64(codeChars) / float64(codeAndProse)
		prosePercent = float64(proseChars) / float64(codeAndProse)
	}

	return Features{
		TotalChars:   totalChars,
		JSONPercent:  0,
		LogPatterns:  logPatterns,
		DocPatterns:  docPatterns,
		CodePercent:  codePercent,
		ProsePercent: prosePercent,
		HTMLTagCount: htmlTags,
	}
}

// countHTMLTags is a cheap, never-failing signal: it parses text as HTML
// (which never errors — html.Parse tolerates arbitrary input) and counts
// element nodes other than the three the parser auto-inserts around any
// fragment, so plain prose scores zero. Its count is folded into
// Features.DocPatterns by computeFeatures.
func countHTMLTags(text string) int {
	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return 0
	}
	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html", "head", "body":
			default:
				count++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return count
}
