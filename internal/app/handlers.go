package app

import (
	httpH "github.com/campusai/teachassist/internal/http/handlers"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Syllabus  *httpH.SyllabusHandler
	Learning  *httpH.LearningHandler
	Chat      *httpH.ChatHandler
	Research  *httpH.ResearchHandler
	Project   *httpH.ProjectHandler
	TechStack *httpH.TechStackHandler
	Progress  *httpH.ProgressHandler
	Session   *httpH.SessionHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Syllabus:  httpH.NewSyllabusHandler(services.Ingestor),
		Learning:  httpH.NewLearningHandler(log, services.Tutor, services.DeepResearch, services.Progress),
		Chat:      httpH.NewChatHandler(services.Chat),
		Research:  httpH.NewResearchHandler(log, services.Research),
		Project:   httpH.NewProjectHandler(log, services.Project),
		TechStack: httpH.NewTechStackHandler(log, services.TechStack),
		Progress:  httpH.NewProgressHandler(services.Progress),
		Session:   httpH.NewSessionHandler(services.Sessions),
	}
}
