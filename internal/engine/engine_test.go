package engine

import (
	"strings"
	"testing"

	"tokshrink/internal/filler"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(Config{CacheCapacity: 100})
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestOptimizeAdvanced_StripsFillerAndReportsStrategy(t *testing.T) {
	e := newTestEngine(t)
	opts := DefaultEngineOptions()

	text := strings.Repeat("This is basically actually very simple in fact and simply verbose. ", 5)
	res, err := e.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output == text {
		t.Error("expected output to differ from input")
	}
	found := false
	for _, s := range res.Strategies {
		if strings.HasPrefix(s, "filler-") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a filler-* strategy, got %v", res.Strategies)
	}
}

func TestOptimizeAdvanced_CacheHitReturnsSameOutput(t *testing.T) {
	e := newTestEngine(t)
	opts := DefaultEngineOptions()
	text := strings.Repeat("This is really very basically simple. ", 10)

	first, err := e.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Output != second.Output {
		t.Errorf("cache hit produced different output: %q vs %q", first.Output, second.Output)
	}
	if len(second.Strategies) != 1 || second.Strategies[0] != "cached" {
		t.Errorf("Strategies = %v, want [cached]", second.Strategies)
	}
}

func TestOptimizeAdvanced_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	opts := DefaultEngineOptions()
	opts.CorrelationID = "fixed-id"
	text := "In order to proceed, due to the fact that this is basically simple, we continue."

	a, err := e.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e2 := newTestEngine(t)
	b, err := e2.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Output != b.Output {
		t.Errorf("non-deterministic output: %q vs %q", a.Output, b.Output)
	}
}

func TestOptimizeAdvanced_OracleNegativeIsUnchanged(t *testing.T) {
	e := newTestEngine(t)
	opts := DefaultEngineOptions()
	text := "The dog ran across the yard and sat by the gate."

	res, err := e.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output != text {
		t.Errorf("Output = %q, want unchanged %q", res.Output, text)
	}
	if len(res.Strategies) != 0 {
		t.Errorf("Strategies = %v, want none", res.Strategies)
	}
}

func TestOptimizeAdvanced_SmallInputNeverErrors(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.OptimizeAdvanced(strings.Repeat("x", 10), EngineOptions{}); err != nil {
		t.Fatalf("unexpected error for small input: %v", err)
	}
}

func TestOptimizeAdvanced_AllPassesDisabledIsNoOp(t *testing.T) {
	e := newTestEngine(t)
	text := strings.Repeat("This is just really very basically simple.   ", 5) + "\n\n\n\nmore"
	res, err := e.OptimizeAdvanced(text, EngineOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output != text {
		t.Errorf("with every pass disabled, Output should equal input verbatim\ngot:  %q\nwant: %q", res.Output, text)
	}
	if len(res.Strategies) != 0 {
		t.Errorf("Strategies = %v, want none", res.Strategies)
	}
}

func TestOptimizeAdvanced_MaxTokensStopsEarly(t *testing.T) {
	e := newTestEngine(t)
	opts := DefaultEngineOptions()
	opts.Preset = filler.Ultra
	opts.MaxTokens = 1 << 30 // absurdly high, budget always already met
	text := strings.Repeat("This is just really very basically simple. ", 20)

	res, err := e.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Strategies) != 0 {
		t.Errorf("Strategies = %v, want none (budget already met)", res.Strategies)
	}
}

func TestOptimizeAdvanced_UnknownPresetDoesNotFailCall(t *testing.T) {
	e := newTestEngine(t)
	opts := DefaultEngineOptions()
	opts.Preset = filler.Preset("not-a-real-preset")
	text := strings.Repeat("This is just really simple. ", 10)

	res, err := e.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fellBack := false
	for _, s := range res.Strategies {
		if s == "filler-standard" {
			fellBack = true
		}
	}
	if !fellBack {
		t.Errorf("expected an unknown preset to fall back to filler-standard, got %v", res.Strategies)
	}
}

func TestCacheStats_ReportsHitsAndMisses(t *testing.T) {
	e := newTestEngine(t)
	opts := DefaultEngineOptions()
	text := strings.Repeat("This is really very basically simple. ", 10)

	if _, err := e.OptimizeAdvanced(text, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := e.OptimizeAdvanced(text, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := e.CacheStats()
	if stats.Hits < 1 {
		t.Errorf("Hits = %d, want >= 1", stats.Hits)
	}
}

func TestClearCache_ForcesRecompute(t *testing.T) {
	e := newTestEngine(t)
	opts := DefaultEngineOptions()
	text := strings.Repeat("This is really very basically simple. ", 10)

	if _, err := e.OptimizeAdvanced(text, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.ClearCache()
	res, err := e.OptimizeAdvanced(text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Strategies) == 1 && res.Strategies[0] == "cached" {
		t.Error("expected a fresh computation after ClearCache, got a cache hit")
	}
}
