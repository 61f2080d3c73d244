package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProgress holds the per-session counters folded from activity events.
type UserProgress struct {
	UserID          string     `gorm:"column:user_id;primaryKey;size:128" json:"user_id"`
	TotalActivities int        `gorm:"column:total_activities;not null;default:0" json:"total_activities"`
	QuizzesTaken    int        `gorm:"column:quizzes_taken;not null;default:0" json:"quizzes_taken"`
	AverageScore    float64    `gorm:"column:average_score;not null;default:0" json:"average_score"`
	StreakDays      int        `gorm:"column:streak_days;not null;default:0" json:"streak_days"`
	LastActivity    *time.Time `gorm:"column:last_activity" json:"last_activity,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

type TopicProgress struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string     `gorm:"column:user_id;size:128;not null;uniqueIndex:idx_topic_progress_user_topic" json:"user_id"`
	Topic            string     `gorm:"column:topic;size:512;not null;uniqueIndex:idx_topic_progress_user_topic" json:"topic"`
	Explained        bool       `gorm:"column:explained;not null;default:false" json:"explained"`
	DeepExplained    bool       `gorm:"column:deep_explained;not null;default:false" json:"deep_explained"`
	ReferencesViewed bool       `gorm:"column:references_viewed;not null;default:false" json:"references_viewed"`
	QuestionsAsked   int        `gorm:"column:questions_asked;not null;default:0" json:"questions_asked"`
	MasteryLevel     int        `gorm:"column:mastery_level;not null;default:0" json:"mastery_level"`
	FirstStudied     time.Time  `gorm:"column:first_studied;not null" json:"first_studied"`
	LastStudied      *time.Time `gorm:"column:last_studied" json:"last_studied,omitempty"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

func (TopicProgress) TableName() string { return "topic_progress" }

func (t *TopicProgress) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type QuizRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"column:user_id;size:128;not null;index:idx_quiz_record_user_topic" json:"user_id"`
	Topic      string    `gorm:"column:topic;size:512;not null;index:idx_quiz_record_user_topic" json:"topic"`
	Score      int       `gorm:"column:score;not null" json:"score"`
	Total      int       `gorm:"column:total;not null" json:"total"`
	Percentage float64   `gorm:"column:percentage;not null" json:"percentage"`
	TakenAt    time.Time `gorm:"column:taken_at;not null;index" json:"date"`
}

func (QuizRecord) TableName() string { return "quiz_record" }

func (q *QuizRecord) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type LabRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id;size:128;not null;index" json:"user_id"`
	Experiment  string    `gorm:"column:experiment;size:512;not null" json:"experiment"`
	CompletedAt time.Time `gorm:"column:completed_at;not null" json:"date"`
}

func (LabRecord) TableName() string { return "lab_record" }

func (l *LabRecord) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type Achievement struct {
	UserID     string    `gorm:"column:user_id;size:128;primaryKey" json:"user_id"`
	Code       string    `gorm:"column:code;size:64;primaryKey" json:"code"`
	UnlockedAt time.Time `gorm:"column:unlocked_at;not null" json:"unlocked_at"`
}

func (Achievement) TableName() string { return "achievement" }
