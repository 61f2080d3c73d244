package session

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/campusai/teachassist/internal/domain/learning"
)

var (
	ErrIncomplete      = errors.New("every question needs an answer before scoring")
	ErrUnknownQuestion = errors.New("unknown question")
	ErrOptionRange     = errors.New("option out of range")
)

type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// ScoreAnswers grades answers (question id to option index) against qs.
// One point per exact match, nothing else.
func ScoreAnswers(qs []learning.Question, answers map[int]int) Score {
	s := Score{Total: len(qs)}
	for _, q := range qs {
		if got, ok := answers[q.ID]; ok && got == q.Answer {
			s.Correct++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
	}
	return s
}

// Quiz collects one answer per question of a fixed set.
type Quiz struct {
	questions []learning.Question
	byID      map[int]int

	mu      sync.Mutex
	answers map[int]int
}

func NewQuiz(qs []learning.Question) (*Quiz, error) {
	if err := learning.ValidateQuestions(qs); err != nil {
		return nil, err
	}
	byID := make(map[int]int, len(qs))
	for i, q := range qs {
		byID[q.ID] = i
	}
	return &Quiz{questions: slices.Clone(qs), byID: byID, answers: map[int]int{}}, nil
}

func (q *Quiz) Questions() []learning.Question { return slices.Clone(q.questions) }

func (q *Quiz) Len() int { return len(q.questions) }

// Select records option for question id, replacing an earlier choice.
func (q *Quiz) Select(id, option int) error {
	i, ok := q.byID[id]
	if !ok {
		return fmt.Errorf("%w %d", ErrUnknownQuestion, id)
	}
	if option < 0 || option >= len(q.questions[i].Options) {
		return fmt.Errorf("question %d: %w: %d", id, ErrOptionRange, option)
	}
	q.mu.Lock()
	q.answers[id] = option
	q.mu.Unlock()
	return nil
}

func (q *Quiz) Answered(id int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.answers[id]
	return ok
}

// Ready reports whether every question has an answer.
func (q *Quiz) Ready() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.answers) == len(q.questions)
}

func (q *Quiz) Score() (Score, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.answers) != len(q.questions) {
		return Score{}, ErrIncomplete
	}
	return ScoreAnswers(q.questions, q.answers), nil
}

func (q *Quiz) Reset() {
	q.mu.Lock()
	q.answers = map[int]int{}
	q.mu.Unlock()
}
