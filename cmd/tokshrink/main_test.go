package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes rootCmd with args, feeding stdin (if non-empty) and
// capturing stdout/stderr, returning the exit code Execute would report.
func runCLI(t *testing.T, args []string, stdin string) (code int, stdout, stderr string) {
	t.Helper()

	if stdin != "" {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatalf("pipe: %v", err)
		}
		oldStdin := os.Stdin
		os.Stdin = r
		defer func() { os.Stdin = oldStdin }()
		go func() {
			_, _ = w.WriteString(stdin)
			w.Close()
		}()
	}

	outR, outW, _ := os.Pipe()
	errR, errW, _ := os.Pipe()
	oldOut, oldErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = outW, errW

	rootCmd.SetArgs(args)
	code = Execute()

	outW.Close()
	errW.Close()
	os.Stdout, os.Stderr = oldOut, oldErr

	var outBuf, errBuf bytes.Buffer
	io.Copy(&outBuf, outR)
	io.Copy(&errBuf, errR)
	return code, outBuf.String(), errBuf.String()
}

func TestJSONMinify_SingleDocument(t *testing.T) {
	code, out, _ := runCLI(t, []string{"json-minify"}, "{\n  \"a\": 1,\n  \"b\": [1, 2]\n}\n")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if out != `{"a":1,"b":[1,2]}` {
		t.Errorf("got %q", out)
	}
}

func TestJSONMinify_InvalidNDJSON_Exit2(t *testing.T) {
	code, _, stderr := runCLI(t, []string{"json-minify"}, "{\"x\":1}\n{\"y\":2}\n{\"z\":oops}\n")
	if code != 2 {
		t.Fatalf("expected exit 2, got %d (stderr=%s)", code, stderr)
	}
	if !strings.Contains(stderr, "InvalidNDJSON") {
		t.Errorf("expected InvalidNDJSON in stderr, got %q", stderr)
	}
}

func TestStripFillers_Standard(t *testing.T) {
	code, out, _ := runCLI(t, []string{"strip-fillers", "--preset=standard"}, "This is basically actually very simple in fact and simply verbose.")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if len(out) >= len("This is basically actually very simple in fact and simply verbose.") {
		t.Errorf("expected output shorter than input, got %q", out)
	}
}

func TestOptimize_WithReport(t *testing.T) {
	code, out, stderr := runCLI(t, []string{"optimize", "--preset=ultra", "--target-savings=30", "--report"},
		strings.Repeat("basically ", 100)+strings.Repeat("actually ", 100))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr=%s)", code, stderr)
	}
	if out != "" {
		t.Errorf("expected every filler word stripped, got %q", out)
	}
	var report struct {
		SavedPercent float64  `json:"savedPercent"`
		Strategies   []string `json:"strategies"`
	}
	if err := json.Unmarshal([]byte(stderr), &report); err != nil {
		t.Fatalf("failed to parse report: %v\nstderr=%s", err, stderr)
	}
	if report.SavedPercent < 25 {
		t.Errorf("expected savedPercent >= 25, got %.1f", report.SavedPercent)
	}
}

func TestDiff_ProducesUnifiedDiff(t *testing.T) {
	dir := t.TempDir()
	beforePath := filepath.Join(dir, "before.txt")
	afterPath := filepath.Join(dir, "after.txt")
	if err := os.WriteFile(beforePath, []byte("line1\nline2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(afterPath, []byte("line1\nline2 changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(t, []string{"diff", beforePath, afterPath}, "")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.HasPrefix(out, "--- before") || !strings.Contains(out, "+++ after") || !strings.Contains(out, "@@") {
		t.Errorf("unexpected diff output: %q", out)
	}
}

func TestBudgetSentry_ExceedsBudget_Exit3(t *testing.T) {
	code, _, stderr := runCLI(t, []string{"budget-sentry", "--budget=5"}, strings.Repeat("word ", 200))
	if code != 3 {
		t.Fatalf("expected exit 3, got %d (stderr=%s)", code, stderr)
	}
	var report struct {
		Tokens           int      `json:"tokens"`
		Budget           int      `json:"budget"`
		SuggestedActions []string `json:"suggestedActions"`
	}
	// The JSON report comes first; Execute then prints the one-line error.
	if err := json.NewDecoder(strings.NewReader(stderr)).Decode(&report); err != nil {
		t.Fatalf("failed to parse sentry report: %v\nstderr=%s", err, stderr)
	}
	if report.Budget != 5 {
		t.Errorf("expected budget=5, got %d", report.Budget)
	}
	if len(report.SuggestedActions) == 0 {
		t.Errorf("expected at least one suggested action")
	}
}

func TestBudgetSentry_WithinBudget_Exit0(t *testing.T) {
	code, _, stderr := runCLI(t, []string{"budget-sentry", "--budget=1000000"}, "a short prompt")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr=%s)", code, stderr)
	}
	if stderr != "" {
		t.Errorf("expected no stderr output, got %q", stderr)
	}
}
