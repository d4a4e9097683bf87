package jsonmin

import (
	"errors"
	"testing"

	"tokshrink/internal/errs"
)

func TestMinify_SingleDocument(t *testing.T) {
	got, err := Minify(`{  "a" :  1,  "b": [1, 2,   3]  }`, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"a":1,"b":[1,2,3]}`
	if got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
}

func TestMinify_SingleDocument_Invalid(t *testing.T) {
	_, err := Minify(`{"a": }`, Options{})
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	var e *errs.Error
	if !errors.As(err, &e) || e.Kind != errs.KindInvalidJSON {
		t.Errorf("err = %v, want KindInvalidJSON", err)
	}
}

func TestMinify_NDJSON_Basic(t *testing.T) {
	input := "{ \"a\" : 1 }\n{\"b\":  2}\n"
	got, err := Minify(input, Options{NDJSON: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\"a\":1}\n{\"b\":2}\n"
	if got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
	if len(got.Lines) != 2 {
		t.Errorf("Lines = %v, want 2 entries", got.Lines)
	}
}

func TestMinify_NDJSON_BlankLinesPreserved(t *testing.T) {
	input := "{\"a\":1}\n\n{\"b\":2}\n"
	got, err := Minify(input, Options{NDJSON: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\"a\":1}\n\n{\"b\":2}\n"
	if got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
}

func TestMinify_NDJSON_InvalidLineReportsLineNumber(t *testing.T) {
	input := "{\"a\":1}\nnot json\n{\"b\":2}\n"
	_, err := Minify(input, Options{NDJSON: true})
	var e *errs.Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %v, want *errs.Error", err)
	}
	if e.Kind != errs.KindInvalidNDJSON {
		t.Errorf("Kind = %v, want KindInvalidNDJSON", e.Kind)
	}
	if e.Line != 2 {
		t.Errorf("Line = %d, want 2", e.Line)
	}
}

func TestMinify_InputTooLarge(t *testing.T) {
	_, err := Minify(`{"a":1}`, Options{MaxBytes: 3})
	var e *errs.Error
	if !errors.As(err, &e) || e.Kind != errs.KindInputTooLarge {
		t.Errorf("err = %v, want KindInputTooLarge", err)
	}
}

func TestMinify_SizeGuardCheckedBeforeParse(t *testing.T) {
	// Invalid JSON that is also too large: InputTooLarge must win.
	_, err := Minify(`not json at all`, Options{MaxBytes: 3})
	var e *errs.Error
	if !errors.As(err, &e) || e.Kind != errs.KindInputTooLarge {
		t.Errorf("err = %v, want KindInputTooLarge (size guard checked first)", err)
	}
}
