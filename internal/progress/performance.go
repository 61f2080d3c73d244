package progress

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	types "github.com/campusai/teachassist/internal/domain/progress"
)

const (
	weightExplained  = 15.0
	weightDeep       = 25.0
	weightReferences = 10.0
	weightQuiz       = 40.0
	weightRecency    = 10.0

	categoryStrong     = "strong"
	categoryModerate   = "moderate"
	categoryWeak       = "weak"
	categoryNotStarted = "not_started"

	maxFocusWeak       = 3
	maxFocusModerate   = 2
	maxPerformanceRecs = 5
)

func (s *service) Performance(ctx context.Context, userID string) (types.Performance, error) {
	snap, err := s.load(ctx, userID)
	if err != nil {
		return types.Performance{}, err
	}
	return snap.analyze(s.now()), nil
}

func (snap *snapshot) analyze(now time.Time) types.Performance {
	out := types.Performance{
		StrongTopics:    []types.TopicScore{},
		WeakTopics:      []types.TopicScore{},
		ModerateTopics:  []types.TopicScore{},
		FocusAreas:      []types.FocusArea{},
		Recommendations: []string{},
	}
	if len(snap.topics) == 0 {
		out.Status = types.PerformanceInsufficientData
		out.Message = "Not enough data to analyze. Study more topics to get predictions!"
		return out
	}

	scores := make([]types.TopicScore, 0, len(snap.topics))
	details := make(map[string]types.TopicScore, len(snap.topics))
	for _, tp := range snap.topics {
		ts := snap.topicScore(tp, now)
		scores = append(scores, ts)
		details[tp.Topic] = ts
	}
	ranked := append([]types.TopicScore(nil), scores...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	for _, ts := range ranked {
		switch ts.Category {
		case categoryStrong:
			out.StrongTopics = append(out.StrongTopics, ts)
		case categoryModerate:
			out.ModerateTopics = append(out.ModerateTopics, ts)
		default:
			out.WeakTopics = append(out.WeakTopics, ts)
		}
	}

	for i, ts := range out.WeakTopics {
		if i == maxFocusWeak {
			break
		}
		out.FocusAreas = append(out.FocusAreas, types.FocusArea{
			Topic: ts.Name, Reason: focusReason(ts), SuggestedAction: suggestedAction(ts), Priority: "high",
		})
	}
	for i, ts := range out.ModerateTopics {
		if i == maxFocusModerate {
			break
		}
		out.FocusAreas = append(out.FocusAreas, types.FocusArea{
			Topic:           ts.Name,
			Reason:          "Can be improved with more practice",
			SuggestedAction: "Take a quiz to test understanding",
			Priority:        "medium",
		})
	}

	pat := snap.patterns()
	overall := 0.0
	for _, ts := range scores {
		overall += ts.Score
	}
	overall /= float64(len(scores))

	pred := &types.Predictions{
		OverallReadiness:     round(overall, 1),
		ReadinessLevel:       readinessLevel(overall),
		ExamPrediction:       examPrediction(overall, scores),
		ImprovementPotential: improvementPotential(overall, scores),
		LearningStyle:        pat.learningStyle(),
		ConsistencyScore:     consistency(snap.totalActivities()),
	}

	analyzed := now
	out.Status = types.PerformanceSuccess
	out.AnalysisDate = &analyzed
	out.TotalTopicsAnalyzed = len(snap.topics)
	out.Predictions = pred
	out.TopicDetails = details
	out.Recommendations = performanceRecommendations(out, pat, pred)
	return out
}

func (snap *snapshot) topicScore(tp types.TopicProgress, now time.Time) types.TopicScore {
	quizzes := snap.quizzes[tp.Topic]
	score := 0.0
	if tp.Explained {
		score += weightExplained
	}
	if tp.DeepExplained {
		score += weightDeep
	}
	if tp.ReferencesViewed {
		score += weightReferences
	}
	// Later quizzes weigh more.
	if len(quizzes) > 0 {
		weighted, weights := 0.0, 0.0
		for i, q := range quizzes {
			w := float64(i + 1)
			weighted += q.Percentage * w
			weights += w
		}
		score += weighted / weights / 100 * weightQuiz
	}
	if tp.LastStudied != nil {
		switch days := int(now.Sub(*tp.LastStudied).Hours() / 24); {
		case days <= 1:
			score += weightRecency
		case days <= 7:
			score += weightRecency * 0.5
		}
	}
	score = min(score, 100)

	avgQuiz := 0.0
	if len(quizzes) > 0 {
		for _, q := range quizzes {
			avgQuiz += q.Percentage
		}
		avgQuiz = round(avgQuiz/float64(len(quizzes)), 1)
	}
	return types.TopicScore{
		Name:         tp.Topic,
		Score:        round(score, 1),
		Category:     categorize(score),
		QuizzesTaken: len(quizzes),
		AvgQuizScore: avgQuiz,
		MasteryLevel: tp.MasteryLevel,
		NeedsReview:  tp.MasteryLevel < 50,
	}
}

func categorize(score float64) string {
	switch {
	case score >= 80:
		return categoryStrong
	case score >= 50:
		return categoryModerate
	case score >= 25:
		return categoryWeak
	default:
		return categoryNotStarted
	}
}

func focusReason(ts types.TopicScore) string {
	switch {
	case ts.QuizzesTaken == 0:
		return "Never tested - understanding not verified"
	case ts.AvgQuizScore < 50:
		return fmt.Sprintf("Low quiz performance (%g%%)", ts.AvgQuizScore)
	case ts.Score < 25:
		return "Minimal study activity"
	default:
		return "Needs more practice"
	}
}

func suggestedAction(ts types.TopicScore) string {
	switch {
	case ts.QuizzesTaken == 0:
		return "📝 Take a quiz to test your knowledge"
	case ts.AvgQuizScore < 50:
		return "📚 Review the topic and retake the quiz"
	case ts.MasteryLevel < 50:
		return "🔍 Get a deep explanation of this topic"
	default:
		return "🔄 Practice more to reinforce learning"
	}
}

func readinessLevel(score float64) string {
	switch {
	case score >= 80:
		return "Excellent - Ready for exams! 🌟"
	case score >= 60:
		return "Good - Minor revision needed 📚"
	case score >= 40:
		return "Fair - More practice required ⚡"
	case score >= 20:
		return "Needs Work - Focus on weak areas 📖"
	default:
		return "Getting Started - Keep learning! 🚀"
	}
}

func examPrediction(overall float64, scores []types.TopicScore) types.ExamPrediction {
	predicted := overall*0.8 + 10
	sum, n := 0.0, 0
	for _, ts := range scores {
		if ts.AvgQuizScore > 0 {
			sum += ts.AvgQuizScore
			n++
		}
	}
	if n > 0 {
		predicted = (predicted + sum/float64(n)) / 2
	}
	confidence := "Low"
	if len(scores) >= 5 {
		confidence = "Medium"
	}
	return types.ExamPrediction{
		PredictedPercentage: round(min(predicted, 95), 1),
		Confidence:          confidence,
		GradePrediction:     grade(predicted),
	}
}

func grade(score float64) string {
	switch {
	case score >= 90:
		return "A+ (Outstanding)"
	case score >= 80:
		return "A (Excellent)"
	case score >= 70:
		return "B (Good)"
	case score >= 60:
		return "C (Average)"
	case score >= 50:
		return "D (Below Average)"
	default:
		return "Needs Improvement"
	}
}

func improvementPotential(current float64, scores []types.TopicScore) types.ImprovementPotential {
	weak := 0
	for _, ts := range scores {
		if ts.Category == categoryWeak || ts.Category == categoryNotStarted {
			weak++
		}
	}
	return types.ImprovementPotential{
		CurrentAverage:    round(current, 1),
		PotentialAverage:  round(min(current+float64(weak)*10, 95), 1),
		ImprovementPoints: round(100-current, 1),
		QuickWins:         weak,
	}
}

type patterns struct {
	deepDive  int
	quizTaker int
	surface   int
	total     int
}

func (snap *snapshot) patterns() patterns {
	p := patterns{total: len(snap.topics)}
	for _, tp := range snap.topics {
		quizzed := len(snap.quizzes[tp.Topic]) > 0
		if tp.DeepExplained {
			p.deepDive++
		}
		if quizzed {
			p.quizTaker++
		}
		if tp.Explained && !tp.DeepExplained && !quizzed {
			p.surface++
		}
	}
	return p
}

func (p patterns) learningStyle() string {
	if p.total == 0 {
		return "Not enough data"
	}
	total := float64(p.total)
	switch {
	case float64(p.deepDive)/total > 0.7:
		return "Deep Learner - You prefer thorough understanding 🔬"
	case float64(p.quizTaker)/total > 0.7:
		return "Active Learner - You learn by testing 📝"
	case float64(p.surface)/total > 0.5:
		return "Quick Learner - Try going deeper for better retention 📖"
	default:
		return "Balanced Learner - Good mix of reading and practice ⚖️"
	}
}

func consistency(total int) types.Consistency {
	c := types.Consistency{TotalActivities: total, Message: "Study regularly for best results!"}
	switch {
	case total >= 20:
		c.Level, c.Emoji = "High", "🔥"
	case total >= 10:
		c.Level, c.Emoji = "Medium", "⚡"
	case total >= 5:
		c.Level, c.Emoji = "Low", "📈"
	default:
		c.Level, c.Emoji = "Just Started", "🌱"
	}
	if total >= 10 {
		c.Message = "Keep up the momentum!"
	}
	return c
}

func performanceRecommendations(perf types.Performance, pat patterns, pred *types.Predictions) []string {
	var out []string
	weak := perf.WeakTopics
	if len(weak) > 0 {
		out = append(out, fmt.Sprintf("🎯 Focus on '%s' - it needs the most attention", weak[0].Name))
	}
	if len(weak) > 2 {
		out = append(out, fmt.Sprintf("📚 You have %d weak topics. Dedicate 30 mins daily to each", len(weak)))
	}

	var untested []string
	for _, ts := range append(append([]types.TopicScore(nil), perf.ModerateTopics...), weak...) {
		if ts.QuizzesTaken == 0 && len(untested) < 3 {
			untested = append(untested, ts.Name)
		}
	}
	if len(untested) > 0 {
		out = append(out, "📝 Take quizzes for: "+strings.Join(untested, ", "))
	}

	if len(perf.StrongTopics) > 0 {
		out = append(out, fmt.Sprintf("✅ Great job on '%s'! Use this confidence to tackle weak areas", perf.StrongTopics[0].Name))
	}
	if pat.surface > pat.deepDive {
		out = append(out, "🔬 Try 'Deep Dive' explanations for better understanding")
	}
	if pred.ImprovementPotential.QuickWins > 3 {
		out = append(out, "💡 Quick wins available! Even 10 mins on weak topics will boost your score")
	}
	if len(out) > maxPerformanceRecs {
		out = out[:maxPerformanceRecs]
	}
	return out
}
