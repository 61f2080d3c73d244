package progress

import "time"

type QuizEntry struct {
	Date       time.Time `json:"date"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
}

type LabEntry struct {
	Experiment string    `json:"experiment"`
	Date       time.Time `json:"date"`
}

// TopicView is one topic as returned under progress.topics.
type TopicView struct {
	Explained        bool        `json:"explained"`
	DeepExplained    bool        `json:"deep_explained"`
	ReferencesViewed bool        `json:"references_viewed"`
	Quizzes          []QuizEntry `json:"quizzes"`
	LabsCompleted    []LabEntry  `json:"labs_completed"`
	QuestionsAsked   int         `json:"questions_asked"`
	FirstStudied     *time.Time  `json:"first_studied,omitempty"`
	LastStudied      *time.Time  `json:"last_studied,omitempty"`
	MasteryLevel     int         `json:"mastery_level"`
}

type WeakTopic struct {
	Topic        string  `json:"topic"`
	AverageScore float64 `json:"average_score"`
	Attempts     int     `json:"attempts"`
}

type Summary struct {
	TotalTopics      int         `json:"total_topics"`
	MasteredTopics   int         `json:"mastered_topics"`
	InProgressTopics int         `json:"in_progress_topics"`
	WeakTopics       []WeakTopic `json:"weak_topics"`
}

type View struct {
	UserID          string               `json:"user_id"`
	Topics          map[string]TopicView `json:"topics"`
	TotalActivities int                  `json:"total_activities"`
	QuizzesTaken    int                  `json:"quizzes_taken"`
	AverageScore    float64              `json:"average_score"`
	StreakDays      int                  `json:"streak_days"`
	LastActivity    *time.Time           `json:"last_activity,omitempty"`
	Achievements    []string             `json:"achievements"`
	Summary         Summary              `json:"summary"`
}

type Recommendations struct {
	Recommendations []string `json:"recommendations"`
}

type MasteryDistribution struct {
	Beginner   int `json:"beginner"`
	Learning   int `json:"learning"`
	Practicing int `json:"practicing"`
	Mastered   int `json:"mastered"`
}

type QuizPoint struct {
	Topic      string    `json:"topic"`
	Date       time.Time `json:"date"`
	Percentage float64   `json:"percentage"`
}

type Analytics struct {
	MasteryDistribution   MasteryDistribution `json:"mastery_distribution"`
	QuizHistory           []QuizPoint         `json:"quiz_history"`
	TotalStudyTimeMinutes int                 `json:"total_study_time_minutes"`
	AchievementCount      int                 `json:"achievement_count"`
}

type TopicScore struct {
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Category     string  `json:"category"`
	QuizzesTaken int     `json:"quizzes_taken"`
	AvgQuizScore float64 `json:"avg_quiz_score"`
	MasteryLevel int     `json:"mastery_level"`
	NeedsReview  bool    `json:"needs_review"`
}

type FocusArea struct {
	Topic           string `json:"topic"`
	Reason          string `json:"reason"`
	SuggestedAction string `json:"suggested_action"`
	Priority        string `json:"priority"`
}

type ExamPrediction struct {
	PredictedPercentage float64 `json:"predicted_percentage"`
	Confidence          string  `json:"confidence"`
	GradePrediction     string  `json:"grade_prediction"`
}

type ImprovementPotential struct {
	CurrentAverage    float64 `json:"current_average"`
	PotentialAverage  float64 `json:"potential_average"`
	ImprovementPoints float64 `json:"improvement_points"`
	QuickWins         int     `json:"quick_wins"`
}

type Consistency struct {
	Level           string `json:"level"`
	Emoji           string `json:"emoji"`
	TotalActivities int    `json:"total_activities"`
	Message         string `json:"message"`
}

type Predictions struct {
	OverallReadiness     float64              `json:"overall_readiness"`
	ReadinessLevel       string               `json:"readiness_level"`
	ExamPrediction       ExamPrediction       `json:"exam_prediction"`
	ImprovementPotential ImprovementPotential `json:"improvement_potential"`
	LearningStyle        string               `json:"learning_style"`
	ConsistencyScore     Consistency          `json:"consistency_score"`
}

const (
	PerformanceSuccess          = "success"
	PerformanceInsufficientData = "insufficient_data"
)

type Performance struct {
	Status              string                `json:"status"`
	Message             string                `json:"message,omitempty"`
	AnalysisDate        *time.Time            `json:"analysis_date,omitempty"`
	TotalTopicsAnalyzed int                   `json:"total_topics_analyzed"`
	StrongTopics        []TopicScore          `json:"strong_topics"`
	WeakTopics          []TopicScore          `json:"weak_topics"`
	ModerateTopics      []TopicScore          `json:"moderate_topics"`
	FocusAreas          []FocusArea           `json:"focus_areas"`
	Predictions         *Predictions          `json:"predictions,omitempty"`
	Recommendations     []string              `json:"recommendations"`
	TopicDetails        map[string]TopicScore `json:"topic_details,omitempty"`
}

type TrackAck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
