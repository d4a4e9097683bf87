// Package errs defines the typed error taxonomy shared by every pass in the
// optimization pipeline. Only the JSON Minifier and the Text Normalizer
// raise these to end callers; all other passes are total and absorb
// internal failures instead (see internal/engine).
package errs

import "fmt"

// Kind identifies a stable, machine-checkable error category.
type Kind string

// Recognized error kinds. UnknownPreset is returned only by
// internal/filler.Strip; the engine and the root package catch it and fall
// back to the standard preset. UnknownModel is never returned — the Token
// Estimator resolves an unknown model to "generic" — but the constant is
// kept so every error category shares one vocabulary.
const (
	KindInputTooLarge Kind = "InputTooLarge"
	KindInvalidJSON   Kind = "InvalidJSON"
	KindInvalidNDJSON Kind = "InvalidNDJSON"
	KindUnknownPreset Kind = "UnknownPreset"
	KindUnknownModel  Kind = "UnknownModel"
)

// Error is the typed error value returned by pass-level failures that must
// propagate (Normalizer, JSON Minifier). Line is populated only for
// KindInvalidNDJSON, where it carries the 1-based offending line number.
type Error struct {
	Kind Kind
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Msg, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New constructs an Error of the given kind with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// NewLine constructs a KindInvalidNDJSON error citing a 1-based line number.
func NewLine(kind Kind, line int, msg string) *Error {
	return &Error{Kind: kind, Line: line, Msg: msg}
}

// Is enables errors.Is matching against a sentinel Kind-only Error, e.g.
// errors.Is(err, &Error{Kind: KindInputTooLarge}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
