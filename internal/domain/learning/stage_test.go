package learning

import (
	"errors"
	"testing"
)

func TestStageResultValidate(t *testing.T) {
	cases := []struct {
		name string
		in   StageResult
		want error
	}{
		{"explain ok", StageResult{Stage: StageExplain, Content: "x"}, nil},
		{"explain missing content", StageResult{Stage: StageExplain}, ErrMissingContent},
		{"no stage", StageResult{Content: "x"}, ErrMissingStage},
		{"error without content", StageResult{Stage: StageError}, nil},
		{"quiz empty", StageResult{Stage: StageQuiz}, ErrNoQuestions},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.in.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateQuestions(t *testing.T) {
	good := Question{ID: 1, Question: "q", Options: []string{"A", "B", "C", "D"}, Answer: 2}
	if err := ValidateQuestions([]Question{good}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := good
	bad.Answer = 4
	if err := ValidateQuestions([]Question{bad}); err == nil {
		t.Fatalf("expected out-of-range answer to fail")
	}
	if err := ValidateQuestions([]Question{good, good}); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
}

func TestRenumber(t *testing.T) {
	qs := []Question{{ID: 0}, {ID: 0}, {ID: 3}}
	got := Renumber(qs)
	for i, q := range got {
		if q.ID != i+1 {
			t.Fatalf("question %d has id %d", i, q.ID)
		}
	}
	kept := []Question{{ID: 5}, {ID: 9}}
	if out := Renumber(kept); out[0].ID != 5 || out[1].ID != 9 {
		t.Fatalf("unique ids should be kept, got %+v", out)
	}
}

func TestMessage(t *testing.T) {
	if got := NotFound("").Message(); got != "not found" {
		t.Fatalf("got %q", got)
	}
	if got := Errorf("Quiz generation failed: %s", "bad json").Message(); got != "Quiz generation failed: bad json" {
		t.Fatalf("got %q", got)
	}
}
