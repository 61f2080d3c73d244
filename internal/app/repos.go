package app

import (
	"gorm.io/gorm"

	"github.com/campusai/teachassist/internal/data/repos/progress"
	"github.com/campusai/teachassist/internal/data/repos/syllabus"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type Repos struct {
	Syllabus syllabus.Repo
	Progress progress.Repo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Syllabus: syllabus.NewRepo(db, log),
		Progress: progress.NewRepo(db, log),
	}
}
