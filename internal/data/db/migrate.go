package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/domain/syllabus"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Syllabus corpus
		&syllabus.Document{},
		&syllabus.Chunk{},

		// Learner progress
		&progress.UserProgress{},
		&progress.TopicProgress{},
		&progress.QuizRecord{},
		&progress.LabRecord{},
		&progress.Achievement{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	if err := AutoMigrateAll(s.db); err != nil {
		return err
	}
	s.log.Info("Database schema migrated")
	return nil
}
