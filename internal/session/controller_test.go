package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/domain/learning"
)

type scripted struct {
	calls   []string
	results map[string]learning.StageResult
	errs    map[string]error
}

func (s *scripted) FetchStage(_ context.Context, subject, stage string) (learning.StageResult, error) {
	s.calls = append(s.calls, subject+"/"+stage)
	if err := s.errs[stage]; err != nil {
		return learning.StageResult{}, err
	}
	if res, ok := s.results[stage]; ok {
		return res, nil
	}
	return learning.StageResult{Stage: learning.Stage(stage), Content: subject + " " + stage}, nil
}

func newScripted() *scripted {
	return &scripted{results: map[string]learning.StageResult{}, errs: map[string]error{}}
}

func TestControllerLinearWalk(t *testing.T) {
	f := newScripted()
	c := NewController(Lab, f)
	c.SetSubject("Dijkstra")
	ctx := context.Background()

	assert.Equal(t, StateIdle, c.State())
	_, err := c.Advance(ctx, "viva")
	require.ErrorIs(t, err, ErrStageLocked)
	assert.Empty(t, f.calls)

	for _, stage := range Lab.Stages {
		res, err := c.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Dijkstra "+stage, res.Content)
		assert.Equal(t, stage, c.State())
	}
	_, err = c.Next(ctx)
	assert.ErrorIs(t, err, ErrFinished)
	assert.Equal(t, []string{"Dijkstra/explanation", "Dijkstra/pseudocode", "Dijkstra/viva"}, f.calls)
	assert.Len(t, c.History(), 3)
}

func TestControllerBackNavigationUsesCache(t *testing.T) {
	f := newScripted()
	c := NewController(Theory, f)
	c.SetSubject("Heaps")
	ctx := context.Background()

	_, err := c.Advance(ctx, "explain")
	require.NoError(t, err)
	_, err = c.Advance(ctx, "deep")
	require.NoError(t, err)

	res, ok := c.Back()
	require.True(t, ok)
	assert.Equal(t, "Heaps explain", res.Content)
	assert.Equal(t, "explain", c.State())

	res, err = c.Advance(ctx, "deep")
	require.NoError(t, err)
	assert.Equal(t, "Heaps deep", res.Content)
	assert.Len(t, f.calls, 2, "revisiting a completed stage must not fetch")

	_, ok = NewController(Theory, f).Back()
	assert.False(t, ok)
}

func TestControllerNeverAdvancesOnFailure(t *testing.T) {
	for name, failure := range map[string]error{
		"not found": &client.BackendError{Op: "learn", Stage: learning.StageNotFound, Message: "This topic is not covered in the syllabus."},
		"error":     &client.BackendError{Op: "learn", Stage: learning.StageError, Message: "Invalid stage specified"},
		"transport": &client.ConnectError{Op: "learn", Err: errors.New("connection refused")},
	} {
		t.Run(name, func(t *testing.T) {
			f := newScripted()
			c := NewController(Theory, f)
			c.SetSubject("Tries")
			ctx := context.Background()
			_, err := c.Advance(ctx, "explain")
			require.NoError(t, err)

			f.errs["deep"] = failure
			_, err = c.Advance(ctx, "deep")
			require.ErrorIs(t, err, failure)

			assert.Equal(t, "explain", c.State())
			assert.Len(t, c.History(), 1)
			assert.False(t, c.Completed("deep"))
			assert.ErrorIs(t, c.Err(), failure)
			assert.False(t, c.Loading())

			delete(f.errs, "deep")
			_, err = c.Advance(ctx, "deep")
			require.NoError(t, err)
			assert.NoError(t, c.Err())
		})
	}
}

func TestControllerRejectsLocally(t *testing.T) {
	f := newScripted()
	c := NewController(Theory, f)
	ctx := context.Background()

	_, err := c.Advance(ctx, "explain")
	assert.ErrorIs(t, err, client.ErrEmptyInput)

	c.SetSubject("   ")
	_, err = c.Advance(ctx, "explain")
	assert.ErrorIs(t, err, client.ErrEmptyInput)

	c.SetSubject("Graphs")
	_, err = c.Advance(ctx, "pseudocode")
	assert.ErrorIs(t, err, ErrUnknownStage)

	assert.Empty(t, f.calls)
}

func TestControllerResetAndNewTopic(t *testing.T) {
	f := newScripted()
	c := NewController(Theory, f)
	c.SetSubject("Graphs")
	ctx := context.Background()
	_, err := c.Advance(ctx, "explain")
	require.NoError(t, err)
	f.errs["deep"] = &client.BackendError{Op: "learn", Stage: learning.StageError, Message: "boom"}
	_, _ = c.Advance(ctx, "deep")
	require.Error(t, c.Err())

	c.Reset()
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, c.History())
	assert.NoError(t, c.Err())
	_, ok := c.Current()
	assert.False(t, ok)

	_, err = c.Advance(ctx, "explain")
	require.NoError(t, err)
	c.SetSubject("Graphs")
	assert.Len(t, c.History(), 1, "same subject keeps history")
	c.SetSubject("Sorting")
	assert.Empty(t, c.History())
	assert.Equal(t, "explain", c.NextStage())
}

func TestControllerRefetchReplacesOnSuccessOnly(t *testing.T) {
	f := newScripted()
	c := NewController(Theory, f)
	c.SetSubject("Graphs")
	ctx := context.Background()

	_, err := c.Refetch(ctx)
	require.ErrorIs(t, err, ErrNoStage)

	f.results["explain"] = learning.StageResult{Stage: learning.StageExplain, Content: "v1"}
	_, err = c.Advance(ctx, "explain")
	require.NoError(t, err)

	f.errs["explain"] = &client.BackendError{Op: "learn", Stage: learning.StageError, Message: "quota"}
	_, err = c.Refetch(ctx)
	require.Error(t, err)
	cur, _ := c.Current()
	assert.Equal(t, "v1", cur.Result.Content)

	delete(f.errs, "explain")
	f.results["explain"] = learning.StageResult{Stage: learning.StageExplain, Content: "v2"}
	_, err = c.Refetch(ctx)
	require.NoError(t, err)
	cur, _ = c.Current()
	assert.Equal(t, "v2", cur.Result.Content)
	assert.Len(t, c.History(), 1)
}

type fakeLearner struct{ userID string }

func (f *fakeLearner) Learn(_ context.Context, topic, stage, userID string) (learning.StageResult, error) {
	f.userID = userID
	return learning.StageResult{Stage: learning.StageExplain, Content: topic}, nil
}

type fakeLab struct{}

func (fakeLab) Lab(_ context.Context, experiment, step string) (learning.LabResult, error) {
	return learning.LabResult{StageResult: learning.StageResult{Stage: learning.StageExplanation, Content: experiment + ":" + step}}, nil
}

func TestFetchersAdaptTheClient(t *testing.T) {
	l := &fakeLearner{}
	res, err := TheoryFetcher(l, "user_abc").FetchStage(context.Background(), "Heaps", "explain")
	require.NoError(t, err)
	assert.Equal(t, "Heaps", res.Content)
	assert.Equal(t, "user_abc", l.userID)

	res, err = LabFetcher(fakeLab{}).FetchStage(context.Background(), "BFS", "viva")
	require.NoError(t, err)
	assert.Equal(t, "BFS:viva", res.Content)
}

var (
	_ Learner     = (*client.Client)(nil)
	_ LabRunner   = (*client.Client)(nil)
	_ ProgressAPI = (*client.Client)(nil)
	_ Tracker     = (*client.Client)(nil)
)
