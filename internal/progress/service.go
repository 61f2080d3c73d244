// Package progress folds learning activity events into per-session progress
// records and derives the views the dashboard shows: summary,
// recommendations, analytics and a performance analysis.
package progress

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	repo "github.com/campusai/teachassist/internal/data/repos/progress"
	types "github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/apierr"
	"github.com/campusai/teachassist/internal/platform/dbctx"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type TrackInput struct {
	UserID   string
	Topic    string
	Activity string
	Score    *int
	Total    *int
}

type Service interface {
	Track(ctx context.Context, in TrackInput) (types.TrackAck, error)
	View(ctx context.Context, userID string) (types.View, error)
	Recommendations(ctx context.Context, userID string) (types.Recommendations, error)
	Analytics(ctx context.Context, userID string) (types.Analytics, error)
	Performance(ctx context.Context, userID string) (types.Performance, error)
}

type service struct {
	log     *logger.Logger
	repo    repo.Repo
	metrics *observability.Metrics
	now     func() time.Time
}

func NewService(baseLog *logger.Logger, r repo.Repo, m *observability.Metrics) Service {
	return newService(baseLog, r, m)
}

func newService(baseLog *logger.Logger, r repo.Repo, m *observability.Metrics) *service {
	return &service{
		log:     baseLog.With("service", "ProgressService"),
		repo:    r,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

const (
	masteryExplain = 25
	masteryDeep    = 50
	masteryGood    = 75
	masteryLab     = 80
	masteryFull    = 100

	quizMasterThreshold = 80.0
	quizMasterCount     = 5
	explorerTopics      = 5
	streakKeeperDays    = 7
)

func (s *service) Track(ctx context.Context, in TrackInput) (types.TrackAck, error) {
	userID := strings.TrimSpace(in.UserID)
	topic := strings.TrimSpace(in.Topic)
	if userID == "" {
		return types.TrackAck{}, apierr.BadRequest("missing_user_id", "user_id is required")
	}
	if topic == "" {
		return types.TrackAck{}, apierr.BadRequest("missing_topic", "topic is required")
	}
	activity, err := types.ParseActivity(in.Activity)
	if err != nil {
		return types.TrackAck{}, apierr.New(http.StatusBadRequest, "invalid_activity", err)
	}
	score, total := deref(in.Score), deref(in.Total)
	if score < 0 || total < 0 {
		return types.TrackAck{}, apierr.BadRequest("invalid_score", "score and total must not be negative")
	}
	if activity == types.ActivityQuiz && in.Score != nil && in.Total == nil {
		return types.TrackAck{}, apierr.BadRequest("invalid_score", "a quiz score requires total")
	}
	if total > 0 && score > total {
		return types.TrackAck{}, apierr.BadRequest("invalid_score", "score must not exceed total")
	}

	now := s.now()
	err = s.repo.Transaction(ctx, func(dbc dbctx.Context) error {
		user, err := s.repo.LockUser(dbc, userID)
		if err != nil {
			return fmt.Errorf("lock user progress: %w", err)
		}
		tp, err := s.repo.LockTopic(dbc, userID, topic, now)
		if err != nil {
			return fmt.Errorf("lock topic progress: %w", err)
		}

		switch activity {
		case types.ActivityExplain:
			tp.Explained = true
			tp.MasteryLevel = max(tp.MasteryLevel, masteryExplain)
		case types.ActivityDeep:
			tp.DeepExplained = true
			tp.MasteryLevel = max(tp.MasteryLevel, masteryDeep)
		case types.ActivityReferences:
			tp.ReferencesViewed = true
		case types.ActivityQuiz:
			pct := percentage(score, total)
			if err := s.repo.AddQuiz(dbc, &types.QuizRecord{
				UserID: userID, Topic: topic, Score: score, Total: total, Percentage: pct, TakenAt: now,
			}); err != nil {
				return fmt.Errorf("record quiz: %w", err)
			}
			user.QuizzesTaken++
			switch {
			case pct >= 90:
				tp.MasteryLevel = masteryFull
			case pct >= 70:
				tp.MasteryLevel = max(tp.MasteryLevel, masteryGood)
			}
		case types.ActivityLab:
			if err := s.repo.AddLab(dbc, &types.LabRecord{UserID: userID, Experiment: topic, CompletedAt: now}); err != nil {
				return fmt.Errorf("record lab: %w", err)
			}
			tp.MasteryLevel = max(tp.MasteryLevel, masteryLab)
		case types.ActivityQuestion:
			tp.QuestionsAsked++
		}

		tp.LastStudied = &now
		if err := s.repo.SaveTopic(dbc, tp); err != nil {
			return fmt.Errorf("save topic progress: %w", err)
		}

		user.StreakDays = nextStreak(user.LastActivity, user.StreakDays, now)
		user.LastActivity = &now
		user.TotalActivities++

		quizzes, err := s.repo.ListQuizzes(dbc, userID)
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		user.AverageScore = averagePercentage(quizzes)

		if err := s.unlockAchievements(dbc, user, quizzes); err != nil {
			return err
		}
		return s.repo.SaveUser(dbc, user)
	})
	if err != nil {
		s.log.Warn("track activity failed", "user_id", userID, "activity", activity, "error", err)
		return types.TrackAck{}, err
	}
	s.metrics.IncActivity(string(activity))
	return types.TrackAck{Status: "success", Message: "Progress tracked"}, nil
}

func (s *service) unlockAchievements(dbc dbctx.Context, user *types.UserProgress, quizzes []types.QuizRecord) error {
	topics, err := s.repo.CountTopics(dbc, user.UserID)
	if err != nil {
		return fmt.Errorf("count topics: %w", err)
	}
	high, perfect := 0, false
	for _, q := range quizzes {
		if q.Percentage >= quizMasterThreshold {
			high++
		}
		if q.Percentage == 100 {
			perfect = true
		}
	}

	var codes []string
	if user.TotalActivities >= 1 {
		codes = append(codes, types.AchievementFirstSteps)
	}
	if high >= quizMasterCount {
		codes = append(codes, types.AchievementQuizMaster)
	}
	if topics >= explorerTopics {
		codes = append(codes, types.AchievementExplorer)
	}
	if perfect {
		codes = append(codes, types.AchievementPerfectionist)
	}
	if user.StreakDays >= streakKeeperDays {
		codes = append(codes, types.AchievementStreakKeeper)
	}
	if err := s.repo.Unlock(dbc, user.UserID, codes, *user.LastActivity); err != nil {
		return fmt.Errorf("unlock achievements: %w", err)
	}
	return nil
}

// nextStreak counts consecutive UTC calendar days with at least one activity.
func nextStreak(last *time.Time, streak int, now time.Time) int {
	if last == nil || streak <= 0 {
		return 1
	}
	switch days := calendarDays(*last, now); {
	case days <= 0:
		return streak
	case days == 1:
		return streak + 1
	default:
		return 1
	}
}

func calendarDays(from, to time.Time) int {
	y1, m1, d1 := from.UTC().Date()
	y2, m2, d2 := to.UTC().Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return round(float64(score)/float64(total)*100, 2)
}

func averagePercentage(quizzes []types.QuizRecord) float64 {
	if len(quizzes) == 0 {
		return 0
	}
	sum := 0.0
	for _, q := range quizzes {
		sum += q.Percentage
	}
	return round(sum/float64(len(quizzes)), 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
