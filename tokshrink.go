// Package tokshrink is the library surface of the token-reduction engine:
// a deterministic, zero-API pipeline that takes arbitrary text and
// produces a semantically-preserving, smaller-token-count rewrite.
//
// Every function here is a thin wrapper over an internal package; the
// package exists so callers outside this module never need to import
// tokshrink/internal/* directly. A lazily-constructed, process-wide
// default Engine backs the package-level convenience functions
// (JSONMinify, StripFillers, OptimizeAdvanced, ...); callers that want
// their own cache capacity, TTL, or persistence path should construct an
// *Engine directly with NewEngine instead.
package tokshrink

import (
	"errors"
	"strings"
	"sync"

	"tokshrink/internal/cache"
	"tokshrink/internal/classify"
	"tokshrink/internal/difflib"
	"tokshrink/internal/engine"
	"tokshrink/internal/errs"
	"tokshrink/internal/estimate"
	"tokshrink/internal/filler"
	"tokshrink/internal/jsonmin"
	"tokshrink/internal/normalize"
	"tokshrink/internal/protect"
)

// Re-exported types so callers never need to import an internal package
// to hold a value this package returns.
type (
	// Kind identifies a stable, machine-checkable error category (§7).
	Kind = errs.Kind
	// Error is the typed error value returned by Normalizer/JSON Minifier failures.
	Error = errs.Error
	// ContentType is the Content-Type Classifier's output bucket.
	ContentType = classify.ContentType
	// Preset selects Filler Stripper aggressiveness.
	Preset = filler.Preset
	// EngineOptions configures a single OptimizeAdvanced call.
	EngineOptions = engine.EngineOptions
	// PipelineResult is the outcome of an OptimizeAdvanced call.
	PipelineResult = engine.PipelineResult
	// CacheStats is a point-in-time snapshot of the Result Cache.
	CacheStats = cache.Stats
	// Engine is a constructed, reusable optimization pipeline.
	Engine = engine.Engine
	// EngineConfig constructs an Engine (cache capacity/TTL/persistence).
	EngineConfig = engine.Config
)

// Error kind constants, re-exported for callers matching on Kind.
const (
	KindInputTooLarge = errs.KindInputTooLarge
	KindInvalidJSON   = errs.KindInvalidJSON
	KindInvalidNDJSON = errs.KindInvalidNDJSON
	KindUnknownPreset = errs.KindUnknownPreset
	KindUnknownModel  = errs.KindUnknownModel
)

// Preset constants, re-exported for callers building EngineOptions or
// StripFillersOptions without importing internal/filler.
const (
	Conservative = filler.Conservative
	Standard     = filler.Standard
	Aggressive   = filler.Aggressive
	Ultra        = filler.Ultra
)

// Content-type constants, re-exported for callers forcing EngineOptions.ContentType.
const (
	TypeJSON          = classify.TypeJSON
	TypeLog           = classify.TypeLog
	TypeDocumentation = classify.TypeDocumentation
	TypeCode          = classify.TypeCode
	TypeProse         = classify.TypeProse
	TypeMixed         = classify.TypeMixed
)

var (
	defaultEngineOnce sync.Once
	defaultEngine     *Engine
)

// DefaultEngine returns the package-wide lazily-constructed Engine backing
// every convenience function below. It is initialized on first use with
// engine.Config{}'s defaults (1000-entry, 1-hour-TTL, memory-only cache)
// and lives for the remainder of the process — never relied upon at
// import time, only on first call.
func DefaultEngine() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = engine.NewEngine(engine.Config{})
	})
	return defaultEngine
}

// NewEngine constructs a new, independent Engine instance per cfg. Use
// this instead of DefaultEngine when a caller needs its own cache
// capacity, TTL, or persistence path.
func NewEngine(cfg EngineConfig) *Engine {
	return engine.NewEngine(cfg)
}

// DefaultEngineOptions returns the recommended posture for OptimizeAdvanced:
// standard preset, every optional pass enabled, no savings target or
// token ceiling.
func DefaultEngineOptions() EngineOptions {
	return engine.DefaultEngineOptions()
}

// OptimizeAdvanced runs the full Advanced Engine pipeline over text using
// the package's DefaultEngine. The only propagated error is
// *Error{Kind: KindInputTooLarge}; every other internal failure is
// absorbed by the pipeline per §7.
func OptimizeAdvanced(text string, opts EngineOptions) (PipelineResult, error) {
	return DefaultEngine().OptimizeAdvanced(text, opts)
}

// GetCacheStats returns the DefaultEngine's Result Cache effectiveness counters.
func GetCacheStats() CacheStats {
	return DefaultEngine().CacheStats()
}

// ClearCache empties the DefaultEngine's Result Cache.
func ClearCache() {
	DefaultEngine().ClearCache()
}

// EstimateOptions configures a single EstimateTokensHeuristic call.
type EstimateOptions struct {
	// Model selects a per-model character-to-token ratio (§4.2). Empty or
	// unrecognized values silently resolve to "generic".
	Model string
	// DiffHeuristicBump multiplies the estimate by 1.15 and sets
	// TokenEstimate.Note, for symbol-dense (diff-like) content.
	DiffHeuristicBump bool
}

// TokenEstimate is the heuristic token count for one piece of text.
type TokenEstimate struct {
	Chars  int
	Tokens int
	Model  string
	Note   string
}

// EstimateTokensHeuristic computes a pure, total character-to-token
// estimate. It never fails: an unrecognized model resolves to "generic".
func EstimateTokensHeuristic(text string, opts EstimateOptions) TokenEstimate {
	e := estimate.Estimate(text, estimate.Options{
		Model:             opts.Model,
		DiffHeuristicBump: opts.DiffHeuristicBump,
	})
	return TokenEstimate{Chars: e.Chars, Tokens: e.Tokens, Model: e.Model, Note: e.Note}
}

// JSONMinifyOptions configures a single JSONMinify call.
type JSONMinifyOptions struct {
	// KeepEOL preserves the input's detected line-ending style in the
	// output instead of normalizing to bare "\n".
	KeepEOL bool
	// MaxBytes bounds the accepted input size. Zero selects the
	// JSON Minifier's default (16 MiB).
	MaxBytes int64
}

// JSONMinifyMeta describes which mode a JSONMinify call actually ran in.
type JSONMinifyMeta struct {
	// NDJSON is true if the input was minified as a newline-delimited
	// stream rather than a single JSON document.
	NDJSON bool
	// Lines is the number of non-blank lines minified, populated only
	// when NDJSON is true.
	Lines int
}

// JSONMinifyResult is the outcome of a successful JSONMinify call.
type JSONMinifyResult struct {
	Output string
	Meta   JSONMinifyMeta
}

// JSONMinify removes insignificant whitespace from a JSON document.
//
// Single-document mode is always attempted first: if the entire
// (EOL-normalized) input parses as one JSON value, that is what gets
// minified — this is the common case, and it holds even when the
// pretty-printed input itself spans multiple lines. Only when that parse
// fails, and the trimmed input contains a newline, does JSONMinify fall
// back to NDJSON mode: each non-empty line is minified independently,
// and the first line that fails to parse is reported via
// *Error{Kind: KindInvalidNDJSON, Line: <1-based>}.
//
// A single-document parse failure on input with no newline is reported
// as *Error{Kind: KindInvalidJSON} — there is nothing to fall back to.
func JSONMinify(text string, opts JSONMinifyOptions) (JSONMinifyResult, error) {
	norm, err := normalize.Normalize(text, normalize.Options{MaxBytes: opts.MaxBytes})
	if err != nil {
		return JSONMinifyResult{}, err
	}

	single, err := jsonmin.Minify(norm.Text, jsonmin.Options{MaxBytes: opts.MaxBytes})
	if err == nil {
		out := single.Text
		if opts.KeepEOL {
			out = normalize.RestoreEOL(out, norm.EOL)
		}
		return JSONMinifyResult{Output: out, Meta: JSONMinifyMeta{}}, nil
	}

	var typed *errs.Error
	if !errors.As(err, &typed) || typed.Kind != errs.KindInvalidJSON || !strings.Contains(strings.TrimSpace(norm.Text), "\n") {
		return JSONMinifyResult{}, err
	}

	ndjson, err := jsonmin.Minify(norm.Text, jsonmin.Options{NDJSON: true, MaxBytes: opts.MaxBytes})
	if err != nil {
		return JSONMinifyResult{}, err
	}
	out := ndjson.Text
	if opts.KeepEOL {
		out = normalize.RestoreEOL(out, norm.EOL)
	}
	return JSONMinifyResult{Output: out, Meta: JSONMinifyMeta{NDJSON: true, Lines: len(ndjson.Lines)}}, nil
}

// DiffOptions configures a single UnifiedDiff call.
type DiffOptions struct {
	// KeepEOL preserves each input's own detected line-ending style
	// rather than normalizing both to bare "\n" before diffing.
	KeepEOL bool
}

// UnifiedDiff produces a deterministic unified diff of before -> after.
// beforeName and afterName are accepted for interface parity with the
// external contract (§6) but never influence the output: headers are
// always the fixed literals "--- before" / "+++ after" (§4.5).
func UnifiedDiff(beforeName, before, afterName, after string, opts DiffOptions) (string, error) {
	_, _ = beforeName, afterName

	nb, err := normalize.Normalize(before, normalize.Options{})
	if err != nil {
		return "", err
	}
	na, err := normalize.Normalize(after, normalize.Options{})
	if err != nil {
		return "", err
	}

	b, a := nb.Text, na.Text
	if opts.KeepEOL {
		b = normalize.RestoreEOL(b, nb.EOL)
		a = normalize.RestoreEOL(a, na.EOL)
	}
	return difflib.UnifiedDiff(b, a, difflib.Options{})
}

// StripFillersOptions configures a single StripFillers call.
type StripFillersOptions struct {
	// Preset selects rule-table aggressiveness. Empty selects Standard.
	Preset Preset
	// KeepEOL preserves the input's detected line-ending style.
	KeepEOL bool
}

// StripFillersMeta reports what a StripFillers call actually did.
type StripFillersMeta struct {
	Changed             bool
	RulesApplied        int
	RuleNames           []string
	ResolvedPreset      Preset
	PreservedCodeBlocks bool
	PreservedInline     bool
	PreservedJSON       bool
}

// StripFillersResult is the outcome of a StripFillers call.
type StripFillersResult struct {
	Output string
	Meta   StripFillersMeta
}

// StripFillers applies preset's ordered rule table to text, leaving
// Protected Regions (fenced code, inline code, whole-document JSON)
// untouched. An unrecognized Preset degrades silently to Standard per
// §7's KindUnknownPreset handling — it is never surfaced as an error.
func StripFillers(text string, opts StripFillersOptions) (StripFillersResult, error) {
	preset := opts.Preset
	if preset == "" {
		preset = Standard
	}

	norm, err := normalize.Normalize(text, normalize.Options{})
	if err != nil {
		return StripFillersResult{}, err
	}

	res, stripErr := filler.Strip(norm.Text, preset)
	if stripErr != nil {
		preset = Standard
		res, _ = filler.Strip(norm.Text, preset)
	}

	scan := protect.Split(norm.Text)
	codeBlocks, inline, json := scan.Preserved()

	out := res.Text
	if opts.KeepEOL {
		out = normalize.RestoreEOL(out, norm.EOL)
	}

	return StripFillersResult{
		Output: out,
		Meta: StripFillersMeta{
			Changed:             res.Changed,
			RulesApplied:        res.RulesApplied,
			RuleNames:           res.RuleNames,
			ResolvedPreset:      preset,
			PreservedCodeBlocks: codeBlocks,
			PreservedInline:     inline,
			PreservedJSON:       json,
		},
	}, nil
}
