package estimate

import (
	"math"
	"testing"
)

func TestEstimate_GenericRatio(t *testing.T) {
	text := "abcdefgh" // 8 chars, ratio 4.0 -> 2 tokens
	got := Estimate(text, Options{})
	if got.Tokens != 2 {
		t.Errorf("Tokens = %d, want 2", got.Tokens)
	}
	if got.Model != "generic" {
		t.Errorf("Model = %s, want generic", got.Model)
	}
	if got.Chars != 8 {
		t.Errorf("Chars = %d, want 8", got.Chars)
	}
}

func TestEstimate_UnknownModelFallsBackToGeneric(t *testing.T) {
	got := Estimate("abcd", Options{Model: "not-a-real-model"})
	if got.Model != "generic" {
		t.Errorf("Model = %s, want generic", got.Model)
	}
}

func TestEstimate_AllRatiosBitExact(t *testing.T) {
	cases := []struct {
		model string
		ratio float64
	}{
		{"gpt-4o-mini", 4.0},
		{"gpt-4.1", 3.7},
		{"claude-3.5", 3.8},
		{"gemini-1.5", 3.9},
		{"generic", 4.0},
	}
	text := "01234567890123456789012345678" // 29 chars
	for _, c := range cases {
		got := Estimate(text, Options{Model: c.model})
		want := int(math.Ceil(29.0 / c.ratio))
		if got.Tokens != want {
			t.Errorf("model %s: Tokens = %d, want %d", c.model, got.Tokens, want)
		}
	}
}

func TestEstimate_DiffHeuristicBump(t *testing.T) {
	text := "0123456789" // 10 chars
	got := Estimate(text, Options{Model: "generic", DiffHeuristicBump: true})
	want := int(math.Ceil((10.0 / 4.0) * 1.15))
	if got.Tokens != want {
		t.Errorf("Tokens = %d, want %d", got.Tokens, want)
	}
	if got.Note != "Heuristic – Code Context" {
		t.Errorf("Note = %q", got.Note)
	}
}

func TestEstimate_EmptyText(t *testing.T) {
	got := Estimate("", Options{})
	if got.Tokens != 0 {
		t.Errorf("Tokens = %d, want 0", got.Tokens)
	}
}

func TestEstimate_NeverErrors(t *testing.T) {
	// Estimate has no error return; this documents the total-function contract.
	for _, model := range []string{"", "garbage", "GPT-4.1", "claude-3.5"} {
		_ = Estimate("x", Options{Model: model})
	}
}

func TestRatio(t *testing.T) {
	if Ratio("claude-3.5") != 3.8 {
		t.Errorf("Ratio(claude-3.5) = %f, want 3.8", Ratio("claude-3.5"))
	}
	if Ratio("unknown") != 4.0 {
		t.Errorf("Ratio(unknown) = %f, want 4.0", Ratio("unknown"))
	}
}

func TestKnownModels(t *testing.T) {
	models := KnownModels()
	if len(models) != 4 {
		t.Errorf("KnownModels() len = %d, want 4", len(models))
	}
}
