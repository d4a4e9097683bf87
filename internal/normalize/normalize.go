// Package normalize implements the Text Normalizer: Unicode NFC
// normalization plus end-of-line detection and rewriting.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"tokshrink/internal/errs"
)

// EOL identifies the dominant line-ending style detected in an input.
type EOL string

const (
	// EOLLF is a bare "\n" line ending.
	EOLLF EOL = "\n"
	// EOLCRLF is a "\r\n" line ending.
	EOLCRLF EOL = "\r\n"
)

// Options configures a single Normalize call.
type Options struct {
	// KeepEOL, if true, preserves the input's detected line-ending style in
	// the output instead of rewriting everything to bare "\n".
	KeepEOL bool
	// MaxBytes bounds the accepted input size. Zero selects the default
	// (32 MiB), matching the engine-wide ceiling in the Normalizer's contract.
	MaxBytes int64
}

// DefaultMaxBytes is the Normalizer's default input size ceiling.
const DefaultMaxBytes int64 = 32 * 1024 * 1024

// Result is the output of a Normalize call.
type Result struct {
	Text string
	EOL  EOL // the EOL style detected in the original input
}

// Normalize converts text to Unicode NFC and detects its dominant EOL style.
// If opts.KeepEOL is false (the default), CRLF sequences are rewritten to LF.
// If opts.KeepEOL is true, the original EOL style is preserved in Text and
// Result.EOL still reports what was detected, so a later stage can restore it
// on demand.
//
// Returns *errs.Error{Kind: errs.KindInputTooLarge} when len(text) exceeds
// the configured maximum.
func Normalize(text string, opts Options) (Result, error) {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(text)) > maxBytes {
		return Result{}, errs.New(errs.KindInputTooLarge,
			"input exceeds configured maximum byte length")
	}

	nfc := norm.NFC.String(text)
	eol := detectEOL(nfc)

	if opts.KeepEOL {
		return Result{Text: nfc, EOL: eol}, nil
	}

	rewritten := strings.ReplaceAll(nfc, string(EOLCRLF), string(EOLLF))
	return Result{Text: rewritten, EOL: eol}, nil
}

// detectEOL counts CRLF vs bare-LF occurrences and returns the majority
// style. Ties resolve to LF.
func detectEOL(text string) EOL {
	crlf := strings.Count(text, string(EOLCRLF))
	totalLF := strings.Count(text, "\n")
	bareLF := totalLF - crlf
	if crlf > bareLF {
		return EOLCRLF
	}
	return EOLLF
}

// RestoreEOL rewrites every bare "\n" in text to the given EOL style. It is
// a no-op for EOLLF. Existing CRLF sequences are first collapsed to LF so
// repeated calls are idempotent.
func RestoreEOL(text string, eol EOL) string {
	collapsed := strings.ReplaceAll(text, string(EOLCRLF), string(EOLLF))
	if eol == EOLCRLF {
		return strings.ReplaceAll(collapsed, string(EOLLF), string(EOLCRLF))
	}
	return collapsed
}
