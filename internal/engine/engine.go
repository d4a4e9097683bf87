// Package engine implements the Advanced Engine: the orchestrator that
// runs every other pass in a fixed order, stopping early once a caller's
// savings budget is met, and memoizes results in the Result Cache.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tokshrink/internal/cache"
	"tokshrink/internal/classify"
	"tokshrink/internal/contextopt"
	"tokshrink/internal/dedup"
	"tokshrink/internal/estimate"
	"tokshrink/internal/filler"
	"tokshrink/internal/logger"
	"tokshrink/internal/metrics"
	"tokshrink/internal/normalize"
	"tokshrink/internal/oracle"
	"tokshrink/internal/semantic"
	"tokshrink/internal/summarize"
	"tokshrink/internal/whitespace"
)

// presetLadder is the fixed order the Filler Stripper is walked in when
// the engine applies "successively stronger presets up to the requested
// preset", per the orchestrator's step 4.4.
var presetLadder = []filler.Preset{filler.Conservative, filler.Standard, filler.Aggressive, filler.Ultra}

// EngineOptions configures a single OptimizeAdvanced call. This is the
// full, explicit option bag: a zero-value EngineOptions runs none of the
// optional passes, mirroring a dynamic-option struct with every toggle
// defaulted off. Callers that want the library's recommended posture
// should start from DefaultEngineOptions and adjust, the same way
// cmd/tokshrink's cobra flags default every --no-* switch to false.
type EngineOptions struct {
	Preset                      filler.Preset
	TargetSavingsPercent        float64
	MaxTokens                   int
	EnableSemanticCompression   bool
	EnableWhitespaceCompression bool
	EnableDuplicateRemoval      bool
	EnableSummarization         bool
	EnableContextOptimization   bool
	ContentType                 classify.ContentType // forced; empty means auto-detect
	Model                       string               // token-estimation model; empty uses the engine's configured default
	CorrelationID               string               // optional; a uuid is generated when empty
}

// DefaultEngineOptions returns the options the CLI's optimize subcommand
// uses absent any --no-* flag: standard preset, every pass enabled, no
// savings target or token cap.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Preset:                      filler.Standard,
		EnableSemanticCompression:   true,
		EnableWhitespaceCompression: true,
		EnableDuplicateRemoval:      true,
		EnableSummarization:         true,
		EnableContextOptimization:   true,
	}
}

// PipelineResult is the outcome of one OptimizeAdvanced call.
type PipelineResult struct {
	Output          string
	OriginalTokens  int
	OptimizedTokens int
	Saved           int
	SavingsPercent  float64
	Strategies      []string
	ContentType     classify.ContentType
}

// Config constructs an Engine. Unlike EngineOptions (per-call), Config
// describes the engine instance's own resources: its cache, its default
// model for token estimation, and the size/trigger ceilings an operator
// can tune without recompiling (§6's MaxInputBytes and the Summarizer's
// high-water mark).
type Config struct {
	CacheCapacity    int
	CacheTTL         time.Duration
	CachePersistPath string
	LogLevel         string
	DefaultModel     string
	// MaxInputBytes bounds the Text Normalizer's accepted input size.
	// Zero selects normalize.DefaultMaxBytes.
	MaxInputBytes int64
	// SummarizerHighWaterMark is the estimated-token threshold above
	// which the Summarizer engages. Zero selects
	// summarize.DefaultHighWaterMarkTokens.
	SummarizerHighWaterMark int
}

// Engine is a constructed, reusable optimization pipeline. The zero value
// is not usable; construct with NewEngine.
type Engine struct {
	cache        *cache.Cache
	log          *logger.Logger
	metrics      *metrics.Metrics
	model        string
	maxInputSize int64
	summarizeHWM int
}

// NewEngine constructs an Engine per cfg.
func NewEngine(cfg Config) *Engine {
	logLevel := cfg.LogLevel
	if logLevel == "" {
		logLevel = "info"
	}
	return &Engine{
		cache: cache.New(cache.Options{
			Capacity:    cfg.CacheCapacity,
			TTL:         cfg.CacheTTL,
			PersistPath: cfg.CachePersistPath,
		}),
		log:          logger.New("ENGINE", logLevel),
		metrics:      metrics.New(),
		model:        cfg.DefaultModel,
		maxInputSize: cfg.MaxInputBytes,
		summarizeHWM: cfg.SummarizerHighWaterMark,
	}
}

// Close releases the engine's cache resources, including any bbolt
// persistence tier.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// Metrics returns the engine's point-in-time counters.
func (e *Engine) Metrics() metrics.Snapshot {
	return e.metrics.Snapshot()
}

// CacheStats returns the Result Cache's effectiveness counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.Stats()
}

// ClearCache empties the Result Cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// OptimizeAdvanced runs the fixed-order optimization pipeline over text
// per opts, consulting and populating the Result Cache. The only
// propagated error is *errs.Error{Kind: InputTooLarge}, raised by the
// Text Normalizer; every other pass is total and falls through to its
// input unchanged on internal failure.
//
// Given the same text and opts, OptimizeAdvanced is deterministic: two
// calls produce byte-identical output.
func (e *Engine) OptimizeAdvanced(text string, opts EngineOptions) (PipelineResult, error) {
	start := time.Now()
	defer func() { e.metrics.RecordRunLatency(time.Since(start)) }()

	corrID := opts.CorrelationID
	if corrID == "" {
		corrID = uuid.NewString()
	}

	e.metrics.RunsTotal.Add(1)

	model := opts.Model
	if model == "" {
		model = e.model
	}

	norm, err := normalize.Normalize(text, normalize.Options{MaxBytes: e.maxInputSize})
	if err != nil {
		e.metrics.ErrorsInputTooLarge.Add(1)
		e.log.Warnf("normalize", "[%s] rejected oversized input: %v", corrID, err)
		return PipelineResult{}, err
	}

	fp := fingerprint(opts, model)
	key := cache.Key(norm.Text, fp)

	cacheStart := time.Now()
	if cached, ok := e.cache.Get(key); ok {
		e.metrics.RecordCacheLatency(time.Since(cacheStart))
		e.metrics.RunsCached.Add(1)
		e.metrics.CacheHits.Add(1)
		return e.cachedResult(norm.Text, cached, model), nil
	}
	e.metrics.RecordCacheLatency(time.Since(cacheStart))
	e.metrics.CacheMisses.Add(1)

	signal := oracle.Probe(norm.Text, oracle.Options{})
	if !signal.HasPotential() {
		e.metrics.RunsSkipped.Add(1)
		e.log.Debugf("oracle", "[%s] no optimization potential detected", corrID)
		tokens := estimate.Estimate(norm.Text, estimate.Options{Model: model}).Tokens
		return PipelineResult{
			Output:          normalize.RestoreEOL(norm.Text, norm.EOL),
			OriginalTokens:  tokens,
			OptimizedTokens: tokens,
			Strategies:      nil,
			ContentType:     classify.TypeProse,
		}, nil
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType, _, _ = classify.Classify(norm.Text)
	}

	originalTokens := estimate.Estimate(norm.Text, estimate.Options{Model: model}).Tokens
	current := norm.Text
	var strategies []string

	currentTokens := func() int {
		return estimate.Estimate(current, estimate.Options{Model: model}).Tokens
	}
	budgetMet := func() bool {
		return met(originalTokens, currentTokens(), opts)
	}
	record := func(name string, changed bool) {
		e.metrics.PassesExecuted.Add(1)
		if changed {
			e.metrics.PassesChanged.Add(1)
			strategies = append(strategies, name)
		}
	}

	if opts.EnableContextOptimization && !budgetMet() {
		switch contentType {
		case classify.TypeLog:
			res := contextopt.OptimizeLog(current)
			current = res.Text
			record("context-log", res.Changed)
		case classify.TypeDocumentation:
			res := contextopt.OptimizeDocumentation(current)
			current = res.Text
			record("context-documentation", res.Changed)
		case classify.TypeCode:
			res := contextopt.OptimizeCode(current)
			current = res.Text
			record("context-code", res.Changed)
		}
	}

	if opts.EnableDuplicateRemoval && !budgetMet() {
		res := dedup.Dedup(current)
		current = res.Text
		record("duplicate-removal", res.Changed)
	}

	if opts.EnableSemanticCompression && !budgetMet() {
		res := semantic.Compress(current)
		current = res.Text
		record("semantic-compression", res.Changed)
	}

	if opts.Preset != "" {
		requested := -1
		for i, p := range presetLadder {
			if p == opts.Preset {
				requested = i
				break
			}
		}
		if requested < 0 {
			e.log.Warnf("filler", "[%s] unknown preset %q, falling back to %q", corrID, opts.Preset, filler.Standard)
			requested = 1 // filler.Standard's position in presetLadder
		}
		for i := 0; i <= requested && !budgetMet(); i++ {
			res, err := filler.Strip(current, presetLadder[i])
			if err != nil {
				e.log.Warnf("filler", "[%s] preset %q failed: %v", corrID, presetLadder[i], err)
				continue
			}
			current = res.Text
			record("filler-"+string(presetLadder[i]), res.Changed)
		}
	}

	if opts.EnableWhitespaceCompression && !budgetMet() {
		res := whitespace.Compress(current)
		current = res.Text
		record("whitespace-compression", res.Changed)
	}

	if opts.EnableSummarization && !budgetMet() {
		res := summarize.Summarize(current, currentTokens(), summarize.Options{HighWaterMarkTokens: e.summarizeHWM})
		current = res.Text
		record("summarization", res.Applied)
	}

	finalTokens := currentTokens()
	output := normalize.RestoreEOL(current, norm.EOL)

	e.metrics.TokensBefore.Add(int64(originalTokens))
	e.metrics.TokensAfter.Add(int64(finalTokens))

	e.cache.Set(key, output)

	result := PipelineResult{
		Output:          output,
		OriginalTokens:  originalTokens,
		OptimizedTokens: finalTokens,
		Saved:           originalTokens - finalTokens,
		SavingsPercent:  savingsPercent(originalTokens, finalTokens),
		Strategies:      strategies,
		ContentType:     contentType,
	}
	e.log.Infof("optimize", "[%s] savings=%.1f%% strategies=%v", corrID, result.SavingsPercent, strategies)
	return result, nil
}

// cachedResult rebuilds a PipelineResult for a cache hit. The original
// token count is recomputed from the normalized input rather than stored,
// since Estimate is a pure, cheap function and storing it would be one
// more place for the cache entry and the input to drift apart.
func (e *Engine) cachedResult(normalizedInput, cachedOutput, model string) PipelineResult {
	originalTokens := estimate.Estimate(normalizedInput, estimate.Options{Model: model}).Tokens
	optimizedTokens := estimate.Estimate(cachedOutput, estimate.Options{Model: model}).Tokens
	contentType, _, _ := classify.Classify(normalizedInput)
	return PipelineResult{
		Output:          cachedOutput,
		OriginalTokens:  originalTokens,
		OptimizedTokens: optimizedTokens,
		Saved:           originalTokens - optimizedTokens,
		SavingsPercent:  savingsPercent(originalTokens, optimizedTokens),
		Strategies:      []string{"cached"},
		ContentType:     contentType,
	}
}

// met reports whether the caller's savings budget (either a target
// percentage or a hard token ceiling) has been reached. Either target is
// optional; if neither is set the budget is never considered met, and
// the full pipeline runs.
func met(originalTokens, currentTokens int, opts EngineOptions) bool {
	if opts.TargetSavingsPercent > 0 && savingsPercent(originalTokens, currentTokens) >= opts.TargetSavingsPercent {
		return true
	}
	if opts.MaxTokens > 0 && currentTokens <= opts.MaxTokens {
		return true
	}
	return false
}

func savingsPercent(before, after int) float64 {
	if before <= 0 {
		return 0
	}
	return (float64(before-after) / float64(before)) * 100
}

// fingerprint folds every option that affects OptimizeAdvanced's output
// into a stable string, so the Result Cache never conflates two distinct
// option combinations for the same input.
func fingerprint(opts EngineOptions, model string) string {
	return fmt.Sprintf("preset=%s|target=%g|maxtok=%d|sem=%t|ws=%t|dup=%t|sum=%t|ctx=%t|type=%s|model=%s",
		opts.Preset, opts.TargetSavingsPercent, opts.MaxTokens,
		opts.EnableSemanticCompression, opts.EnableWhitespaceCompression,
		opts.EnableDuplicateRemoval, opts.EnableSummarization,
		opts.EnableContextOptimization, opts.ContentType, model)
}
