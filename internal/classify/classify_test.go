package classify

import "testing"

func TestClassify_JSON(t *testing.T) {
	got, conf, _ := Classify(`{"key":"value"}`)
	if got != TypeJSON {
		t.Errorf("Classify() = %v, want json", got)
	}
	if conf < 0.8 {
		t.Errorf("expected confidence >= 0.8 for json, got %v", conf)
	}
}

func TestClassify_Log(t *testing.T) {
	input := "2024-01-02T15:04:05Z INFO starting up\n2024-01-02T15:04:06Z WARN cache miss\n2024-01-02T15:04:07Z ERROR connection refused\n"
	got, conf, f := Classify(input)
	if got != TypeLog {
		t.Errorf("Classify() = %v, want log (features: %+v)", got, f)
	}
	if conf <= 0 || conf > 1 {
		t.Errorf("expected confidence in (0,1], got %v", conf)
	}
}

func TestClassify_Documentation(t *testing.T) {
	input := "# Title\n\nSome introductory prose about the project and its goals.\n\n## Usage\n\n- first step\n- second step\n\nMore descriptive prose follows here to explain things in more detail.\n"
	got, _, f := Classify(input)
	if got != TypeDocumentation {
		t.Errorf("Classify() = %v, want documentation (features: %+v)", got, f)
	}
}

func TestClassify_Code(t *testing.T) {
	input := "func main() {\n\tif x == 1 && y != 2 {\n\t\tfmt.Println(x, y);\n\t}\n}\n"
	got, _, f := Classify(input)
	if got != TypeCode {
		t.Errorf("Classify() = %v, want code (features: %+v)", got, f)
	}
}

func TestClassify_Prose(t *testing.T) {
	input := "The quick brown fox jumps over the lazy dog near the riverbank every single morning without fail."
	got, _, f := Classify(input)
	if got != TypeProse {
		t.Errorf("Classify() = %v, want prose (features: %+v)", got, f)
	}
}

func TestClassify_HTMLCountsAsCode(t *testing.T) {
	input := "<div><p>Hello</p><span>World</span><a href=\"#\">link</a><ul><li>x</li><li>y</li></ul></div>"
	got, _, f := Classify(input)
	if got != TypeCode {
		t.Errorf("Classify() = %v, want code for HTML markup (features: %+v)", got, f)
	}
}

func TestClassify_HTMLTagsFeedDocPatterns(t *testing.T) {
	input := "Some introductory prose about the widget and how it behaves in practice today.\n\n<details><summary>More</summary>Extra prose about the widget explaining further detail and context for readers.</details>\n\nClosing prose about the widget that wraps up the explanation nicely for everyone.\n"
	_, _, f := Classify(input)
	if f.HTMLTagCount == 0 {
		t.Fatalf("expected countHTMLTags to find element nodes in %q", input)
	}
	if f.DocPatterns < f.HTMLTagCount {
		t.Errorf("DocPatterns = %d, want it to include HTMLTagCount = %d", f.DocPatterns, f.HTMLTagCount)
	}
}

func TestClassify_NeverErrorsOnGarbageHTML(t *testing.T) {
	for _, s := range []string{"", "<<<>>>", "\x00\x01garbage", "not markup at all really"} {
		_, _, _ = Classify(s)
	}
}

func TestClassify_ConfidenceAlwaysInRange(t *testing.T) {
	inputs := []string{
		`{"a":1}`,
		"2024-01-02T15:04:05Z ERROR boom\n2024-01-02T15:04:06Z ERROR boom\n2024-01-02T15:04:07Z ERROR boom\n",
		"func f() { return 1; }\n",
		"# Doc\n\nprose prose prose prose prose.\n\n- a\n- b\n- c\n- d\n",
		"Plain prose with no structure at all, just sentences.",
		"mixed 123 {} stuff maybe?",
	}
	for _, in := range inputs {
		_, conf, _ := Classify(in)
		if conf < 0 || conf > 1 {
			t.Errorf("Classify(%q) confidence out of range: %v", in, conf)
		}
	}
}
