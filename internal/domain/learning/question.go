package learning

import (
	"errors"
	"fmt"
	"strings"
)

// Question is one multiple choice item. Answer indexes into Options.
type Question struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

var ErrNoQuestions = errors.New("question set is empty")

func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question %d: empty text", q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %d: needs at least two options", q.ID)
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return fmt.Errorf("question %d: answer index %d out of range [0,%d)", q.ID, q.Answer, len(q.Options))
	}
	return nil
}

// ValidateQuestions requires a non-empty set of valid questions with unique ids.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return ErrNoQuestions
	}
	seen := make(map[int]struct{}, len(qs))
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return err
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// Renumber assigns ids 1..n when generated ids are missing or repeated.
func Renumber(qs []Question) []Question {
	seen := map[int]bool{}
	clash := false
	for _, q := range qs {
		if q.ID <= 0 || seen[q.ID] {
			clash = true
			break
		}
		seen[q.ID] = true
	}
	if !clash {
		return qs
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.ID = i + 1
		out[i] = q
	}
	return out
}
