package progress

import (
	"context"
	"fmt"
	"sort"
	"strings"

	types "github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/platform/apierr"
	"github.com/campusai/teachassist/internal/platform/dbctx"
)

const (
	masteredThreshold = 80
	weakQuizAverage   = 60.0

	maxRecommendations = 3
	quizHistoryLimit   = 10
	minutesPerActivity = 5
)

// snapshot is everything stored for one user, with topics in first-studied
// order.
type snapshot struct {
	user         *types.UserProgress
	topics       []types.TopicProgress
	quizzes      map[string][]types.QuizRecord
	labs         map[string][]types.LabRecord
	achievements []string
}

func (s *service) load(ctx context.Context, userID string) (*snapshot, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apierr.BadRequest("missing_user_id", "user_id is required")
	}
	dbc := dbctx.Of(ctx)
	snap := &snapshot{
		quizzes:      map[string][]types.QuizRecord{},
		labs:         map[string][]types.LabRecord{},
		achievements: []string{},
	}

	user, err := s.repo.GetUser(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load user progress: %w", err)
	}
	if user == nil {
		return snap, nil
	}
	snap.user = user

	if snap.topics, err = s.repo.ListTopics(dbc, userID); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	quizzes, err := s.repo.ListQuizzes(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	for _, q := range quizzes {
		snap.quizzes[q.Topic] = append(snap.quizzes[q.Topic], q)
	}
	labs, err := s.repo.ListLabs(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	for _, l := range labs {
		snap.labs[l.Experiment] = append(snap.labs[l.Experiment], l)
	}
	ach, err := s.repo.ListAchievements(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	for _, a := range ach {
		snap.achievements = append(snap.achievements, a.Code)
	}
	return snap, nil
}

func (snap *snapshot) totalActivities() int {
	if snap.user == nil {
		return 0
	}
	return snap.user.TotalActivities
}

func (snap *snapshot) topicView(tp types.TopicProgress) types.TopicView {
	first := tp.FirstStudied
	v := types.TopicView{
		Explained:        tp.Explained,
		DeepExplained:    tp.DeepExplained,
		ReferencesViewed: tp.ReferencesViewed,
		Quizzes:          []types.QuizEntry{},
		LabsCompleted:    []types.LabEntry{},
		QuestionsAsked:   tp.QuestionsAsked,
		FirstStudied:     &first,
		LastStudied:      tp.LastStudied,
		MasteryLevel:     tp.MasteryLevel,
	}
	for _, q := range snap.quizzes[tp.Topic] {
		v.Quizzes = append(v.Quizzes, types.QuizEntry{Date: q.TakenAt, Score: q.Score, Total: q.Total, Percentage: q.Percentage})
	}
	for _, l := range snap.labs[tp.Topic] {
		v.LabsCompleted = append(v.LabsCompleted, types.LabEntry{Experiment: l.Experiment, Date: l.CompletedAt})
	}
	return v
}

func (snap *snapshot) summary() types.Summary {
	sum := types.Summary{TotalTopics: len(snap.topics), WeakTopics: []types.WeakTopic{}}
	for _, tp := range snap.topics {
		switch {
		case tp.MasteryLevel >= masteredThreshold:
			sum.MasteredTopics++
		case tp.MasteryLevel > 0:
			sum.InProgressTopics++
		}
		quizzes := snap.quizzes[tp.Topic]
		if len(quizzes) == 0 {
			continue
		}
		// Unrounded mean here, unlike the stored user average.
		avg := 0.0
		for _, q := range quizzes {
			avg += q.Percentage
		}
		avg /= float64(len(quizzes))
		if avg < weakQuizAverage {
			sum.WeakTopics = append(sum.WeakTopics, types.WeakTopic{
				Topic: tp.Topic, AverageScore: round(avg, 2), Attempts: len(quizzes),
			})
		}
	}
	return sum
}

func (s *service) View(ctx context.Context, userID string) (types.View, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return types.View{}, err
	}
	v := types.View{
		UserID:       strings.TrimSpace(userID),
		Topics:       make(map[string]types.TopicView, len(snap.topics)),
		Achievements: snap.achievements,
		Summary:      snap.summary(),
	}
	if u := snap.user; u != nil {
		v.TotalActivities = u.TotalActivities
		v.QuizzesTaken = u.QuizzesTaken
		v.AverageScore = u.AverageScore
		v.StreakDays = u.StreakDays
		v.LastActivity = u.LastActivity
	}
	for _, tp := range snap.topics {
		v.Topics[tp.Topic] = snap.topicView(tp)
	}
	return v, nil
}

func (s *service) Recommendations(ctx context.Context, userID string) (types.Recommendations, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return types.Recommendations{}, err
	}
	return types.Recommendations{Recommendations: snap.recommendations()}, nil
}

func (snap *snapshot) recommendations() []string {
	if snap.totalActivities() == 0 {
		return []string{"Start by uploading your syllabus and exploring a topic!"}
	}
	var out []string
	if weak := snap.summary().WeakTopics; len(weak) > 0 {
		out = append(out, fmt.Sprintf("📚 Review '%s' - your quiz scores are below 60%%", weak[0].Topic))
	}
	for _, tp := range snap.topics {
		if tp.Explained && len(snap.quizzes[tp.Topic]) == 0 {
			out = append(out, fmt.Sprintf("🧠 Take a quiz on '%s' to test your understanding", tp.Topic))
			break
		}
	}
	for _, tp := range snap.topics {
		if tp.Explained && !tp.DeepExplained {
			out = append(out, fmt.Sprintf("🔍 Get a deeper explanation of '%s'", tp.Topic))
			break
		}
	}
	if snap.totalActivities() < 10 {
		out = append(out, "⭐ Keep it up! Try to study a little bit each day")
	}
	if len(snap.topics) < 3 {
		out = append(out, "🌟 Explore more topics from your syllabus")
	}
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

func (s *service) Analytics(ctx context.Context, userID string) (types.Analytics, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return types.Analytics{}, err
	}
	out := types.Analytics{
		QuizHistory:           []types.QuizPoint{},
		TotalStudyTimeMinutes: snap.totalActivities() * minutesPerActivity,
		AchievementCount:      len(snap.achievements),
	}
	for _, tp := range snap.topics {
		switch level := tp.MasteryLevel; {
		case level <= 25:
			out.MasteryDistribution.Beginner++
		case level <= 50:
			out.MasteryDistribution.Learning++
		case level <= 75:
			out.MasteryDistribution.Practicing++
		default:
			out.MasteryDistribution.Mastered++
		}
		for _, q := range snap.quizzes[tp.Topic] {
			out.QuizHistory = append(out.QuizHistory, types.QuizPoint{Topic: tp.Topic, Date: q.TakenAt, Percentage: q.Percentage})
		}
	}
	sort.SliceStable(out.QuizHistory, func(i, j int) bool {
		return out.QuizHistory[i].Date.Before(out.QuizHistory[j].Date)
	})
	if n := len(out.QuizHistory); n > quizHistoryLimit {
		out.QuizHistory = out.QuizHistory[n-quizHistoryLimit:]
	}
	return out, nil
}
