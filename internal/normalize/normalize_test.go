package normalize

import "testing"

func TestNormalize_NFC(t *testing.T) {
	// "e" + combining acute accent (U+0065 U+0301) should compose to U+00E9.
	decomposed := "café"
	got, err := Normalize(decomposed, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "café"
	if got.Text != want {
		t.Errorf("Normalize() = %q, want %q", got.Text, want)
	}
}

func TestNormalize_CRLFRewrittenByDefault(t *testing.T) {
	got, err := Normalize("line1\r\nline2\r\n", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "line1\nline2\n"
	if got.Text != want {
		t.Errorf("Normalize() = %q, want %q", got.Text, want)
	}
	if got.EOL != EOLCRLF {
		t.Errorf("EOL = %v, want CRLF", got.EOL)
	}
}

func TestNormalize_KeepEOL(t *testing.T) {
	input := "line1\r\nline2\r\n"
	got, err := Normalize(input, Options{KeepEOL: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != input {
		t.Errorf("Normalize() with KeepEOL = %q, want unchanged %q", got.Text, input)
	}
	if got.EOL != EOLCRLF {
		t.Errorf("EOL = %v, want CRLF", got.EOL)
	}
}

func TestNormalize_DetectsLF(t *testing.T) {
	got, err := Normalize("line1\nline2\n", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EOL != EOLLF {
		t.Errorf("EOL = %v, want LF", got.EOL)
	}
}

func TestNormalize_MixedEOL_MajorityWins(t *testing.T) {
	// Three CRLF, one bare LF: CRLF should win.
	got, err := Normalize("a\r\nb\r\nc\r\nd\n", Options{KeepEOL: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EOL != EOLCRLF {
		t.Errorf("EOL = %v, want CRLF", got.EOL)
	}
}

func TestNormalize_InputTooLarge(t *testing.T) {
	_, err := Normalize("abcdef", Options{MaxBytes: 3})
	if err == nil {
		t.Fatal("expected InputTooLarge error")
	}
}

func TestRestoreEOL_LF(t *testing.T) {
	got := RestoreEOL("a\nb\nc", EOLLF)
	if got != "a\nb\nc" {
		t.Errorf("RestoreEOL(LF) = %q", got)
	}
}

func TestRestoreEOL_CRLF(t *testing.T) {
	got := RestoreEOL("a\nb\nc", EOLCRLF)
	want := "a\r\nb\r\nc"
	if got != want {
		t.Errorf("RestoreEOL(CRLF) = %q, want %q", got, want)
	}
}

func TestRestoreEOL_Idempotent(t *testing.T) {
	once := RestoreEOL("a\nb", EOLCRLF)
	twice := RestoreEOL(once, EOLCRLF)
	if once != twice {
		t.Errorf("RestoreEOL not idempotent: %q vs %q", once, twice)
	}
}
