// Package filler implements the Filler Stripper: ordered, preset-gated
// regex rules that remove hedges, throat-clearing phrases, and redundant
// intensifiers from prose, while leaving Protected Regions (code, JSON)
// untouched and honoring the adverb adjacency guard near inline code.
package filler

import (
	"fmt"
	"regexp"

	"tokshrink/internal/errs"
	"tokshrink/internal/protect"
)

// Preset selects how aggressively prose is stripped of filler language.
type Preset string

// Recognized presets, each a strict superset of the one before it.
const (
	Conservative Preset = "conservative"
	Standard     Preset = "standard"
	Aggressive   Preset = "aggressive"
	Ultra        Preset = "ultra"
)

type ruleSpec struct {
	name        string
	pattern     string
	replacement string
}

// conservativeSpecs are safe in virtually any prose: they remove language
// that is purely redundant regardless of register or audience.
var conservativeSpecs = []ruleSpec{
	{"in-order-to", `(?i)\bin order to\b`, "to"},
	{"due-to-the-fact-that", `(?i)\bdue to the fact that\b`, "because"},
	{"for-all-intents-and-purposes", `(?i)\bfor all intents and purposes\b,?\s*`, ""},
	{"needless-to-say", `(?i)\bneedless to say,?\s*`, ""},
	{"it-is-important-to-note-that", `(?i)\bit is important to note that\s*`, ""},
	{"please-note-that", `(?i)\bplease note that\s*`, ""},
	{"just", `(?i)\bjust\s+`, ""},
	{"simply", `(?i)\bsimply\s+`, ""},
}

// standardOnlySpecs additionally removes common hedging adverbs and
// throat-clearing openers that are safe outside of technical/legal prose.
var standardOnlySpecs = []ruleSpec{
	{"very", `(?i)\bvery\s+`, ""},
	{"really", `(?i)\breally\s+`, ""},
	{"quite", `(?i)\bquite\s+`, ""},
	{"rather", `(?i)\brather\s+`, ""},
	{"actually", `(?i)\bactually,?\s*`, ""},
	{"basically", `(?i)\bbasically,?\s*`, ""},
	{"in-my-opinion", `(?i)\bin my opinion,?\s*`, ""},
	{"to-be-honest", `(?i)\bto be honest,?\s*`, ""},
	{"as-a-matter-of-fact", `(?i)\bas a matter of fact,?\s*`, ""},
	{"kind-of", `(?i)\bkind of\s+`, ""},
	{"sort-of", `(?i)\bsort of\s+`, ""},
}

// aggressiveOnlySpecs removes first-person hedging clauses and a handful
// of further intensifiers; safe for most informal writing but can flatten
// register in formal prose.
var aggressiveOnlySpecs = []ruleSpec{
	{"i-think-that", `(?i)\bi think that\s*`, ""},
	{"i-believe-that", `(?i)\bi believe that\s*`, ""},
	{"it-should-be-noted-that", `(?i)\bit should be noted that\s*`, ""},
	{"essentially", `(?i)\bessentially,?\s*`, ""},
	{"virtually", `(?i)\bvirtually\s+`, ""},
	{"practically", `(?i)\bpractically\s+`, ""},
	{"in-terms-of", `(?i)\bin terms of\s+`, "for "},
}

// ultraOnlySpecs is the most aggressive tier: phrase-to-word compressions
// that meaningfully shorten clauses at the cost of some stylistic flavor.
// This table and internal/semantic's fixed phrase table intentionally
// split the spec's "~29 verbose-phrase rewrites" example list between
// them rather than duplicating every entry in both passes: phrases with
// a natural single-word-or-short-clause replacement that reads as a
// stripped *hedge* (no residual clause structure) live here, gated behind
// the ultra preset; phrases that are better described as a *business-prose
// idiom swapped for its plain-English equivalent* live in
// internal/semantic's always-on table instead (e.g. "prior to" -> "before",
// "at the present time" -> "currently"). "at this point in time" -> "now"
// is the spec's own ultra-tier example and lives here, not in conservative.
var ultraOnlySpecs = []ruleSpec{
	{"the-fact-that", `(?i)\bthe fact that\s*`, ""},
	{"in-the-event-that", `(?i)\bin the event that\s+`, "if "},
	{"with-regard-to", `(?i)\bwith regard to\s+`, "about "},
	{"a-number-of", `(?i)\ba number of\s+`, "several "},
	{"a-lot-of", `(?i)\ba lot of\s+`, "many "},
	{"literally", `(?i)\bliterally\s+`, ""},
	{"at-this-point-in-time", `(?i)\bat this point in time\b`, "now"},
	{"in-the-final-analysis", `(?i)\bin the final analysis,?\s*`, "finally "},
	{"as-of-yet", `(?i)\bas of yet\b`, "yet"},
	{"in-any-case", `(?i)\bin any case,?\s*`, "anyway "},
	{"all-things-considered", `(?i)\ball things considered,?\s*`, "overall "},
	{"for-the-most-part", `(?i)\bfor the most part\b`, "mostly"},
	{"in-spite-of", `(?i)\bin spite of\b`, "despite"},
	{"on-the-other-hand", `(?i)\bon the other hand,?\s*`, "however "},
	{"more-often-than-not", `(?i)\bmore often than not\b`, "usually"},
	{"each-and-every", `(?i)\beach and every\b`, "every"},
	{"first-and-foremost", `(?i)\bfirst and foremost,?\s*`, "first "},
	{"last-but-not-least", `(?i)\blast but not least,?\s*`, "finally "},
	{"at-the-end-of-the-day", `(?i)\bat the end of the day,?\s*`, "ultimately "},
	{"in-light-of-the-fact-that", `(?i)\bin light of the fact that\s*`, "because "},
	{"it-goes-without-saying-that", `(?i)\bit goes without saying that\s*`, ""},
	{"with-that-being-said", `(?i)\bwith that being said,?\s*`, "however "},
	{"in-a-manner-of-speaking", `(?i)\bin a manner of speaking,?\s*`, ""},
	{"to-a-certain-extent", `(?i)\bto a certain extent\b`, "somewhat"},
	{"a-significant-amount-of", `(?i)\ba significant amount of\s+`, "much "},
	{"in-the-course-of", `(?i)\bin the course of\s+`, "during "},
	{"by-virtue-of-the-fact-that", `(?i)\bby virtue of the fact that\s*`, "because "},
}

func concat(sets ...[]ruleSpec) []ruleSpec {
	out := make([]ruleSpec, 0)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

var (
	conservativeRuleSpecs = concat(conservativeSpecs)
	standardRuleSpecs     = concat(conservativeSpecs, standardOnlySpecs)
	aggressiveRuleSpecs   = concat(conservativeSpecs, standardOnlySpecs, aggressiveOnlySpecs)
	ultraRuleSpecs        = concat(conservativeSpecs, standardOnlySpecs, aggressiveOnlySpecs, ultraOnlySpecs)
)

// Rule is one compiled filler-stripping rule.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

func compile(specs []ruleSpec) []Rule {
	rules := make([]Rule, len(specs))
	for i, s := range specs {
		rules[i] = Rule{Name: s.name, Pattern: regexp.MustCompile(s.pattern), Replacement: s.replacement}
	}
	return rules
}

var presetRules = map[Preset][]Rule{
	Conservative: compile(conservativeRuleSpecs),
	Standard:     compile(standardRuleSpecs),
	Aggressive:   compile(aggressiveRuleSpecs),
	Ultra:        compile(ultraRuleSpecs),
}

// Rules returns the compiled rule table for preset, primarily for tests
// and diagnostics. The returned slice must not be mutated by callers.
func Rules(preset Preset) ([]Rule, bool) {
	r, ok := presetRules[preset]
	return r, ok
}

// Result is the output of a Strip call.
type Result struct {
	Text         string
	Changed      bool
	RulesApplied int
	// RuleNames lists, in table order, the name of every rule that fired
	// at least once. Primarily for --report output; diagnostic only.
	RuleNames []string
}

// Strip applies preset's rule table to text, leaving Protected Regions
// (fenced code, inline code, whole-document JSON) untouched and honoring
// the adverb adjacency guard: a rule never fires on a match that is
// separated from an inline-code Protected Region by whitespace only.
//
// An unrecognized preset returns *errs.Error{Kind: KindUnknownPreset}; per
// the engine's error-handling design this is never surfaced to an end
// user — callers are expected to log it and fall back to a default
// preset rather than fail the whole operation.
func Strip(text string, preset Preset) (Result, error) {
	rules, ok := presetRules[preset]
	if !ok {
		return Result{}, errs.New(errs.KindUnknownPreset,
			fmt.Sprintf("unknown filler preset %q", preset))
	}

	applied := 0
	var names []string
	fired := make(map[string]bool, len(rules))
	scan := protect.Split(text)
	out, changed := scan.MapText(func(seg string, prevInline, nextInline bool) (string, bool) {
		segChanged := false
		for _, r := range rules {
			var n int
			seg, n = applyRule(seg, r, prevInline, nextInline)
			if n > 0 {
				applied += n
				segChanged = true
				if !fired[r.Name] {
					fired[r.Name] = true
					names = append(names, r.Name)
				}
			}
		}
		return seg, segChanged
	})

	return Result{Text: out, Changed: changed, RulesApplied: applied, RuleNames: names}, nil
}

// applyRule rewrites every non-suppressed match of rule in text, returning
// the rewritten text and the number of matches actually replaced.
func applyRule(text string, rule Rule, prevInline, nextInline bool) (string, int) {
	matches := rule.Pattern.FindAllSubmatchIndex([]byte(text), -1)
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
			out = rule.Pattern.ExpandString(out, rule.Replacement, text, m)
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
