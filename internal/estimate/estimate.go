// Package estimate implements the Token Estimator: a pure, total
// character-to-token heuristic. It never calls a real tokenizer and never
// fails — unknown models silently fall back to "generic".
package estimate

import "math"

// ratios is the fixed, bit-exact character-per-token table. It is a
// compile-time constant: no caller can mutate it, and no other part of the
// engine may consult a different source of truth for a model's ratio.
var ratios = map[string]float64{
	"gpt-4o-mini": 4.0,
	"gpt-4.1":     3.7,
	"claude-3.5":  3.8,
	"gemini-1.5":  3.9,
	"generic":     4.0,
}

// defaultModel is used whenever a caller passes an empty or unrecognized model.
const defaultModel = "generic"

// diffBump is the multiplier applied when Options.DiffHeuristicBump is set.
const diffBump = 1.15

// Options configures a single Estimate call.
type Options struct {
	// Model selects a ratio from the table. Unknown or empty values resolve
	// to "generic" rather than failing.
	Model string
	// DiffHeuristicBump multiplies the raw estimate by 1.15 and sets Note to
	// reflect symbol-dense ("diff-like") content.
	DiffHeuristicBump bool
}

// Result is the heuristic token count for one piece of text.
type Result struct {
	Chars  int
	Tokens int
	Model  string
	Note   string
}

// Estimate computes a heuristic token count for text. It never panics and
// never returns an error: an unrecognized Options.Model resolves to
// "generic" rather than failing the call.
func Estimate(text string, opts Options) Result {
	model := opts.Model
	ratio, ok := ratios[model]
	if !ok {
		model = defaultModel
		ratio = ratios[defaultModel]
	}

	chars := len([]rune(text))
	raw := float64(chars) / ratio

	note := ""
	if opts.DiffHeuristicBump {
		raw *= diffBump
		note = "Heuristic – Code Context"
	}
	tokens := int(math.Ceil(raw))

	return Result{
		Chars:  chars,
		Tokens: tokens,
		Model:  model,
		Note:   note,
	}
}

// Ratio returns the configured characters-per-token ratio for model, or the
// generic ratio if model is unrecognized.
func Ratio(model string) float64 {
	if r, ok := ratios[model]; ok {
		return r
	}
	return ratios[defaultModel]
}

// KnownModels returns the list of models with an explicit ratio entry,
// excluding "generic".
func KnownModels() []string {
	return []string{"gpt-4o-mini", "gpt-4.1", "claude-3.5", "gemini-1.5"}
}
