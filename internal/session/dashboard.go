package session

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/domain/progress"
)

type ProgressAPI interface {
	Progress(ctx context.Context, userID string) (progress.View, error)
	Recommendations(ctx context.Context, userID string) (progress.Recommendations, error)
	Analytics(ctx context.Context, userID string) (progress.Analytics, error)
	Performance(ctx context.Context, userID string) (progress.Performance, error)
}

type Tracker interface {
	TrackActivity(ctx context.Context, a client.Activity) (progress.TrackAck, error)
}

// Dashboard is the backend's view of one user, fetched together.
type Dashboard struct {
	Progress        progress.View
	Recommendations progress.Recommendations
	Analytics       progress.Analytics
	Performance     progress.Performance
}

// LoadDashboard fetches the four progress views in parallel. The first
// failure cancels the rest and no partial dashboard is returned.
func LoadDashboard(ctx context.Context, api ProgressAPI, userID string) (Dashboard, error) {
	if userID == "" {
		return Dashboard{}, client.ErrEmptyInput
	}
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Progress, err = api.Progress(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.Recommendations, err = api.Recommendations(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.Analytics, err = api.Analytics(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.Performance, err = api.Performance(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// ReportQuiz folds a finished quiz into the backend's progress. Callers
// reload the dashboard afterwards instead of patching it locally.
func ReportQuiz(ctx context.Context, api Tracker, userID, topic string, s Score) error {
	score, total := s.Correct, s.Total
	_, err := api.TrackActivity(ctx, client.Activity{
		UserID: userID,
		Topic:  topic,
		Type:   progress.ActivityQuiz,
		Score:  &score,
		Total:  &total,
	})
	if err != nil {
		return fmt.Errorf("report quiz: %w", err)
	}
	return nil
}

// Percent formats a 0-100 value the way the progress view shows it.
func Percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}
