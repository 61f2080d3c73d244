package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusai/teachassist/internal/domain/learning"
)

func oneQuestion() []learning.Question {
	return []learning.Question{{ID: 1, Question: "Pick C", Options: []string{"A", "B", "C", "D"}, Answer: 2}}
}

func TestQuizSingleQuestionExample(t *testing.T) {
	q, err := NewQuiz(oneQuestion())
	require.NoError(t, err)

	require.NoError(t, q.Select(1, 2))
	s, err := q.Score()
	require.NoError(t, err)
	assert.Equal(t, Score{Correct: 1, Total: 1, Percent: 100}, s)

	require.NoError(t, q.Select(1, 0))
	s, err = q.Score()
	require.NoError(t, err)
	assert.Equal(t, Score{Correct: 0, Total: 1, Percent: 0}, s)
}

func TestQuizScoresOnlyWhenComplete(t *testing.T) {
	qs := []learning.Question{
		{ID: 1, Question: "a", Options: []string{"x", "y"}, Answer: 0},
		{ID: 2, Question: "b", Options: []string{"x", "y"}, Answer: 1},
		{ID: 3, Question: "c", Options: []string{"x", "y"}, Answer: 1},
	}
	q, err := NewQuiz(qs)
	require.NoError(t, err)

	assert.False(t, q.Ready())
	_, err = q.Score()
	assert.ErrorIs(t, err, ErrIncomplete)

	require.NoError(t, q.Select(1, 0))
	require.NoError(t, q.Select(2, 0))
	assert.True(t, q.Answered(2))
	assert.False(t, q.Answered(3))
	_, err = q.Score()
	assert.ErrorIs(t, err, ErrIncomplete)

	require.NoError(t, q.Select(3, 1))
	require.True(t, q.Ready())
	s, err := q.Score()
	require.NoError(t, err)
	assert.Equal(t, Score{Correct: 2, Total: 3, Percent: 67}, s)

	again, err := q.Score()
	require.NoError(t, err)
	assert.Equal(t, s, again)

	q.Reset()
	assert.False(t, q.Ready())
}

func TestQuizRejectsBadSelections(t *testing.T) {
	q, err := NewQuiz(oneQuestion())
	require.NoError(t, err)
	assert.ErrorIs(t, q.Select(9, 0), ErrUnknownQuestion)
	assert.ErrorIs(t, q.Select(1, 4), ErrOptionRange)
	assert.ErrorIs(t, q.Select(1, -1), ErrOptionRange)
	assert.False(t, q.Answered(1))
}

func TestNewQuizValidates(t *testing.T) {
	_, err := NewQuiz(nil)
	assert.ErrorIs(t, err, learning.ErrNoQuestions)

	_, err = NewQuiz([]learning.Question{{ID: 1, Question: "q", Options: []string{"a", "b"}, Answer: 2}})
	assert.Error(t, err)

	dup := []learning.Question{
		{ID: 1, Question: "q", Options: []string{"a", "b"}, Answer: 0},
		{ID: 1, Question: "r", Options: []string{"a", "b"}, Answer: 1},
	}
	_, err = NewQuiz(dup)
	assert.ErrorContains(t, err, "duplicate")
}

func TestScoreAnswersBounds(t *testing.T) {
	qs := make([]learning.Question, 0, 7)
	for i := 1; i <= 7; i++ {
		qs = append(qs, learning.Question{ID: i, Question: "q", Options: []string{"a", "b", "c", "d"}, Answer: i % 4})
	}
	for mask := 0; mask < 1<<len(qs); mask++ {
		answers := map[int]int{}
		want := 0
		for i, q := range qs {
			if mask&(1<<i) != 0 {
				answers[q.ID] = q.Answer
				want++
			} else {
				answers[q.ID] = (q.Answer + 1) % 4
			}
		}
		s := ScoreAnswers(qs, answers)
		require.Equal(t, want, s.Correct)
		require.LessOrEqual(t, s.Correct, s.Total)
		require.Equal(t, int(float64(want)/7*100+0.5), s.Percent)
	}
	assert.Equal(t, Score{}, ScoreAnswers(nil, nil))
}
