package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/domain/progress"
)

type fakeProgress struct {
	mu      sync.Mutex
	seen    []string
	failOn  string
	tracked []client.Activity
}

func (f *fakeProgress) record(op, userID string) error {
	f.mu.Lock()
	f.seen = append(f.seen, op+":"+userID)
	f.mu.Unlock()
	if op == f.failOn {
		return &client.BackendError{Op: op, Status: 500, Message: op + " failed"}
	}
	return nil
}

func (f *fakeProgress) Progress(_ context.Context, userID string) (progress.View, error) {
	return progress.View{UserID: userID, TotalActivities: 4}, f.record("progress", userID)
}

func (f *fakeProgress) Recommendations(_ context.Context, userID string) (progress.Recommendations, error) {
	return progress.Recommendations{Recommendations: []string{"Take a quiz"}}, f.record("recommendations", userID)
}

func (f *fakeProgress) Analytics(_ context.Context, userID string) (progress.Analytics, error) {
	return progress.Analytics{TotalStudyTimeMinutes: 20}, f.record("analytics", userID)
}

func (f *fakeProgress) Performance(_ context.Context, userID string) (progress.Performance, error) {
	return progress.Performance{Status: progress.PerformanceInsufficientData}, f.record("performance", userID)
}

func (f *fakeProgress) TrackActivity(_ context.Context, a client.Activity) (progress.TrackAck, error) {
	f.mu.Lock()
	f.tracked = append(f.tracked, a)
	f.mu.Unlock()
	return progress.TrackAck{Status: "success"}, nil
}

func TestLoadDashboardJoinsAllViews(t *testing.T) {
	api := &fakeProgress{}
	d, err := LoadDashboard(context.Background(), api, "user_abc123def")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Progress.TotalActivities)
	assert.Equal(t, []string{"Take a quiz"}, d.Recommendations.Recommendations)
	assert.Equal(t, 20, d.Analytics.TotalStudyTimeMinutes)
	assert.Equal(t, progress.PerformanceInsufficientData, d.Performance.Status)
	assert.ElementsMatch(t, []string{
		"progress:user_abc123def", "recommendations:user_abc123def",
		"analytics:user_abc123def", "performance:user_abc123def",
	}, api.seen)
}

func TestLoadDashboardFirstFailureAbortsView(t *testing.T) {
	api := &fakeProgress{failOn: "analytics"}
	d, err := LoadDashboard(context.Background(), api, "u")
	var be *client.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "analytics failed", be.Message)
	assert.Equal(t, Dashboard{}, d)

	_, err = LoadDashboard(context.Background(), api, "")
	assert.ErrorIs(t, err, client.ErrEmptyInput)
}

func TestReportQuizTracksScore(t *testing.T) {
	api := &fakeProgress{}
	require.NoError(t, ReportQuiz(context.Background(), api, "u", "Heaps", Score{Correct: 4, Total: 5, Percent: 80}))
	require.Len(t, api.tracked, 1)
	got := api.tracked[0]
	assert.Equal(t, progress.ActivityQuiz, got.Type)
	assert.Equal(t, 4, *got.Score)
	assert.Equal(t, 5, *got.Total)
	assert.Equal(t, "80%", Percent(80))
}
