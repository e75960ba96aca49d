package evalnorm

import (
	"strings"
	"testing"
)

func TestParseExplicitCriteria(t *testing.T) {
	raw := `{"criteria":[{"question":"Prep","score":4,"feedback":"good"},{"question":"Depth","score":3,"feedback":"ok"}],"summary":"Solid work"}`

	eval, err := New(nil).Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(eval.Criteria) != 2 {
		t.Fatalf("expected 2 criteria, got %d", len(eval.Criteria))
	}
	if eval.TotalScore != 7 {
		t.Fatalf("totalScore = %f, want 7 (summed)", eval.TotalScore)
	}
	if eval.Summary != "Solid work" {
		t.Fatalf("summary = %q", eval.Summary)
	}
}

func TestParsePrefersExplicitTotal(t *testing.T) {
	raw := `{"criteria":[{"question":"x","score":1,"feedback":""}],"total_score":10}`

	eval, err := New(nil).Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if eval.TotalScore != 10 {
		t.Fatalf("totalScore = %f, want explicit 10", eval.TotalScore)
	}
}

func TestParseEvaluationCriteriaSchema(t *testing.T) {
	raw := `{"evaluation_criteria":[{"criterion":"Preparation","score":5,"feedback":"excellent"}],"overall_summary":"Well done"}`

	eval, err := New(nil).Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(eval.Criteria) != 1 {
		t.Fatalf("expected 1 criterion, got %d", len(eval.Criteria))
	}
	if eval.Criteria[0].Question != "Preparation" {
		t.Fatalf("question = %q", eval.Criteria[0].Question)
	}
	if eval.Summary != "Well done" {
		t.Fatalf("summary = %q", eval.Summary)
	}
}

func TestParseFixedQuestionSchema(t *testing.T) {
	raw := `{"q1_score":3,"q1_feedback":"a","q2_score":4,"q2_feedback":"b","q3_score":2,"q3_feedback":"c"}`

	eval, err := New(nil).Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(eval.Criteria) != 3 {
		t.Fatalf("expected 3 criteria, got %d", len(eval.Criteria))
	}
	if eval.TotalScore != 9 {
		t.Fatalf("totalScore = %f, want 9", eval.TotalScore)
	}
	if eval.Criteria[0].Feedback != "a" || eval.Criteria[1].Feedback != "b" || eval.Criteria[2].Feedback != "c" {
		t.Fatalf("unexpected feedback ordering: %+v", eval.Criteria)
	}
}

func TestParseFencedJSON(t *testing.T) {
	fenced := "```json\n{\"criteria\":[],\"summary\":\"s\"}\n```"
	bare := `{"criteria":[],"summary":"s"}`

	fromFenced, err := New(nil).Parse(fenced)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	fromBare, err := New(nil).Parse(bare)
	if err != nil {
		t.Fatalf("parse bare: %v", err)
	}
	if fromFenced.Summary != fromBare.Summary || len(fromFenced.Criteria) != len(fromBare.Criteria) {
		t.Fatal("fenced and bare JSON should parse identically")
	}
}

func TestParseWithSurroundingProse(t *testing.T) {
	raw := "Here is the evaluation you asked for:\n{\"criteria\":[{\"question\":\"q\",\"score\":2,\"feedback\":\"f\"}]}\nHope that helps!"

	eval, err := New(nil).Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(eval.Criteria) != 1 || eval.TotalScore != 2 {
		t.Fatalf("unexpected result: %+v", eval)
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := New(nil).Parse("not json at all")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid evaluation JSON") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseDefaults(t *testing.T) {
	eval, err := New(nil).Parse(`{"unrelated":true}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(eval.Criteria) != 0 {
		t.Fatalf("expected no criteria, got %d", len(eval.Criteria))
	}
	if eval.TotalScore != 0 {
		t.Fatalf("totalScore = %f, want 0", eval.TotalScore)
	}
	if eval.Summary != FallbackSummary {
		t.Fatalf("summary = %q, want fallback", eval.Summary)
	}
	if eval.Hints != 0 {
		t.Fatalf("hints = %d, want 0", eval.Hints)
	}
}

func TestParseHintsAliases(t *testing.T) {
	cases := map[string]string{
		"hints":       `{"hints":2}`,
		"hint_count":  `{"hint_count":3}`,
		"total_hints": `{"total_hints":4}`,
		"hints_used":  `{"hints_used":5}`,
	}
	want := map[string]int{"hints": 2, "hint_count": 3, "total_hints": 4, "hints_used": 5}

	for name, raw := range cases {
		eval, err := New(nil).Parse(raw)
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		if eval.Hints != want[name] {
			t.Fatalf("%s: hints = %d, want %d", name, eval.Hints, want[name])
		}
	}
}

func TestParseNonNumericScoreDefaultsToZero(t *testing.T) {
	raw := `{"criteria":[{"question":"q","score":"high","feedback":"f"}]}`

	eval, err := New(nil).Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if eval.Criteria[0].Score != 0 {
		t.Fatalf("score = %f, want 0 for non-numeric input", eval.Criteria[0].Score)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"prefix {\"a\":1} suffix", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := ExtractJSON(tc.in); got != tc.want {
			t.Errorf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
