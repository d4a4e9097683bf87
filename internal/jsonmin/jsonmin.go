// Package jsonmin implements the JSON Minifier: whitespace-exact removal
// from either a single JSON document or a newline-delimited JSON (NDJSON)
// stream, with no semantic reinterpretation of the data.
package jsonmin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"tokshrink/internal/errs"
)

// DefaultMaxBytes is the size guard applied before any parse is attempted.
const DefaultMaxBytes int64 = 16 * 1024 * 1024

// Options configures a single Minify call.
type Options struct {
	// NDJSON selects line-delimited mode: each non-blank line is minified
	// independently. The first invalid line ends the call with an
	// InvalidNDJSON error carrying its 1-based line number; no partial
	// result is returned.
	NDJSON bool
	// MaxBytes bounds the accepted input size. Zero selects DefaultMaxBytes.
	MaxBytes int64
}

// Result is the output of a successful Minify call.
type Result struct {
	Text string
	// Lines is non-nil only in NDJSON mode, one minified line per input
	// non-blank line, in order.
	Lines []string
}

// Minify removes insignificant whitespace from text.
//
// In single-document mode (the default), the entire input must parse as
// one JSON value; a parse failure returns *errs.Error{Kind: KindInvalidJSON}.
//
// In NDJSON mode, text is split on "\n"; blank lines are preserved as
// blank lines in the output, and the first line that fails to parse as a
// JSON value returns *errs.Error{Kind: KindInvalidNDJSON, Line: <1-based>}
// without reporting which lines before it succeeded.
//
// Either mode returns *errs.Error{Kind: KindInputTooLarge} if the input
// exceeds the configured size guard, checked before any parse is attempted.
func Minify(text string, opts Options) (Result, error) {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(text)) > maxBytes {
		return Result{}, errs.New(errs.KindInputTooLarge,
			"input exceeds configured JSON size guard")
	}

	if opts.NDJSON {
		return minifyNDJSON(text)
	}
	return minifySingle(text)
}

func minifySingle(text string) (Result, error) {
	minified, err := compact(text)
	if err != nil {
		return Result{}, errs.New(errs.KindInvalidJSON, err.Error())
	}
	return Result{Text: minified}, nil
}

func minifyNDJSON(text string) (Result, error) {
	rawLines := strings.Split(text, "\n")
	lines := make([]string, len(rawLines))
	for i, line := range rawLines {
		if strings.TrimSpace(line) == "" {
			lines[i] = line
			continue
		}
		minified, err := compact(line)
		if err != nil {
			return Result{}, errs.NewLine(errs.KindInvalidNDJSON, i+1, err.Error())
		}
		lines[i] = minified
	}
	return Result{Text: strings.Join(lines, "\n"), Lines: nonBlank(lines, rawLines)}, nil
}

func nonBlank(minified, raw []string) []string {
	out := make([]string, 0, len(minified))
	for i, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, minified[i])
	}
	return out
}

func compact(s string) (string, error) {
	if !json.Valid([]byte(s)) {
		return "", fmt.Errorf("invalid JSON")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
