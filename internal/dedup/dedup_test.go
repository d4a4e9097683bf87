package dedup

import (
	"strings"
	"testing"
)

func TestDedup_RemovesDuplicateSentenceAcrossParagraphs(t *testing.T) {
	input := "The sky is blue. Birds fly south.\n\nBirds fly south. The grass is green."
	got := Dedup(input)
	if n := strings.Count(got.Text, "Birds fly south"); n != 1 {
		t.Errorf("Text = %q, want exactly one occurrence of the duplicate sentence", got.Text)
	}
	if got.SentencesRemoved != 1 {
		t.Errorf("SentencesRemoved = %d, want 1", got.SentencesRemoved)
	}
}

func TestDedup_RemovesDuplicateParagraph(t *testing.T) {
	input := "Quarterly results improved.\n\nQuarterly results improved.\n\nStaff grew by ten."
	got := Dedup(input)
	if n := strings.Count(got.Text, "Quarterly results improved"); n != 1 {
		t.Errorf("Text = %q, want exactly one occurrence", got.Text)
	}
	if got.ParagraphsRemoved != 1 {
		t.Errorf("ParagraphsRemoved = %d, want 1", got.ParagraphsRemoved)
	}
}

func TestDedup_ParagraphDuplicateIsCaseAndWhitespaceInsensitive(t *testing.T) {
	input := "Revenue   grew.\n\nREVENUE GREW."
	got := Dedup(input)
	if got.ParagraphsRemoved != 1 {
		t.Errorf("ParagraphsRemoved = %d, want 1", got.ParagraphsRemoved)
	}
}

func TestDedup_NoDuplicatesIsNoOp(t *testing.T) {
	input := "First idea here.\n\nSecond, unrelated idea."
	got := Dedup(input)
	if got.Changed {
		t.Error("Changed = true, want false")
	}
}

func TestDedup_PreservesProtectedFencedParagraph(t *testing.T) {
	input := "```\nsame code\n```\n\n```\nsame code\n```"
	got := Dedup(input)
	if n := strings.Count(got.Text, "same code"); n != 2 {
		t.Errorf("protected code paragraphs must never be deduplicated: %q", got.Text)
	}
}

func TestDedup_WholeDocumentJSONIsNoOp(t *testing.T) {
	input := `{"a": 1}`
	got := Dedup(input)
	if got.Text != input || got.Changed {
		t.Errorf("got = %+v, want unchanged whole-document JSON", got)
	}
}

func TestDedup_PreservesInlineCodeTerminatorWhenUnchanged(t *testing.T) {
	input := "This is basically the `config.json` file."
	got := Dedup(input)
	if got.Text != input {
		t.Errorf("Text = %q, want unchanged %q (inline code must not split on its internal period)", got.Text, input)
	}
	if got.Changed {
		t.Error("Changed = true, want false: no duplicate sentences present")
	}
}

func TestDedup_PreservesMultiLineListWhenUnchanged(t *testing.T) {
	input := "Intro line.\n- item one.\n- item two.\n- item three."
	got := Dedup(input)
	if got.Text != input {
		t.Errorf("Text = %q, want unchanged %q (no duplicate sentences, list structure must survive)", got.Text, input)
	}
}

func TestDedup_ParagraphDroppedWhenAllSentencesAreDuplicates(t *testing.T) {
	input := "The system failed. Power was lost.\n\nPower was lost. The system failed."
	got := Dedup(input)
	if got.ParagraphsRemoved != 1 {
		t.Errorf("ParagraphsRemoved = %d, want 1", got.ParagraphsRemoved)
	}
	if strings.Count(got.Text, "The system failed") != 1 {
		t.Errorf("Text = %q, want the sentence kept exactly once", got.Text)
	}
}
