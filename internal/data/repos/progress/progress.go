package progress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/platform/dbctx"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type Repo interface {
	Transaction(ctx context.Context, fn func(dbc dbctx.Context) error) error

	GetUser(dbc dbctx.Context, userID string) (*types.UserProgress, error)
	LockUser(dbc dbctx.Context, userID string) (*types.UserProgress, error)
	SaveUser(dbc dbctx.Context, row *types.UserProgress) error

	GetTopic(dbc dbctx.Context, userID, topic string) (*types.TopicProgress, error)
	LockTopic(dbc dbctx.Context, userID, topic string, firstStudied time.Time) (*types.TopicProgress, error)
	SaveTopic(dbc dbctx.Context, row *types.TopicProgress) error
	ListTopics(dbc dbctx.Context, userID string) ([]types.TopicProgress, error)
	CountTopics(dbc dbctx.Context, userID string) (int64, error)

	AddQuiz(dbc dbctx.Context, row *types.QuizRecord) error
	ListQuizzes(dbc dbctx.Context, userID string) ([]types.QuizRecord, error)

	AddLab(dbc dbctx.Context, row *types.LabRecord) error
	ListLabs(dbc dbctx.Context, userID string) ([]types.LabRecord, error)

	ListAchievements(dbc dbctx.Context, userID string) ([]types.Achievement, error)
	Unlock(dbc dbctx.Context, userID string, codes []string, at time.Time) error
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{
		db:  db,
		log: baseLog.With("repo", "ProgressRepo"),
	}
}

func (r *repo) Transaction(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func (r *repo) GetUser(dbc dbctx.Context, userID string) (*types.UserProgress, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}
	var rows []types.UserProgress
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// LockUser creates the user row if it is missing and returns it locked for
// the rest of the transaction.
func (r *repo) LockUser(dbc dbctx.Context, userID string) (*types.UserProgress, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("missing user_id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockUser requires dbc.Tx")
	}
	now := time.Now().UTC()
	seed := &types.UserProgress{UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := dbc.DB(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, err
	}
	var out types.UserProgress
	if err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repo) SaveUser(dbc dbctx.Context, row *types.UserProgress) error {
	if row == nil {
		return nil
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_activities", "quizzes_taken", "average_score",
				"streak_days", "last_activity", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *repo) GetTopic(dbc dbctx.Context, userID, topic string) (*types.TopicProgress, error) {
	var rows []types.TopicProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND topic = ?", userID, topic).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// LockTopic creates the (user, topic) row if it is missing and returns it
// locked for the rest of the transaction.
func (r *repo) LockTopic(dbc dbctx.Context, userID, topic string, firstStudied time.Time) (*types.TopicProgress, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockTopic requires dbc.Tx")
	}
	seed := &types.TopicProgress{UserID: userID, Topic: topic, FirstStudied: firstStudied}
	if err := dbc.DB(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, err
	}
	var out types.TopicProgress
	if err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND topic = ?", userID, topic).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repo) SaveTopic(dbc dbctx.Context, row *types.TopicProgress) error {
	if row == nil {
		return nil
	}
	return dbc.DB(r.db).Save(row).Error
}

func (r *repo) ListTopics(dbc dbctx.Context, userID string) ([]types.TopicProgress, error) {
	var rows []types.TopicProgress
	err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("first_studied ASC, topic ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repo) CountTopics(dbc dbctx.Context, userID string) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.TopicProgress{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *repo) AddQuiz(dbc dbctx.Context, row *types.QuizRecord) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *repo) ListQuizzes(dbc dbctx.Context, userID string) ([]types.QuizRecord, error) {
	var rows []types.QuizRecord
	err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("taken_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repo) AddLab(dbc dbctx.Context, row *types.LabRecord) error {
	return dbc.DB(r.db).Create(row).Error
}

func (r *repo) ListLabs(dbc dbctx.Context, userID string) ([]types.LabRecord, error) {
	var rows []types.LabRecord
	err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("completed_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repo) ListAchievements(dbc dbctx.Context, userID string) ([]types.Achievement, error) {
	var rows []types.Achievement
	err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC, code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repo) Unlock(dbc dbctx.Context, userID string, codes []string, at time.Time) error {
	if len(codes) == 0 {
		return nil
	}
	rows := make([]types.Achievement, 0, len(codes))
	for _, c := range codes {
		rows = append(rows, types.Achievement{UserID: userID, Code: c, UnlockedAt: at})
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
