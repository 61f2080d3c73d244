package app

import (
	"github.com/campusai/teachassist/internal/http"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) http.RouterConfig {
	rc := http.RouterConfig{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		SessionAuth: middleware.SessionAuth,

		HealthHandler:    handlers.Health,
		SyllabusHandler:  handlers.Syllabus,
		LearningHandler:  handlers.Learning,
		ChatHandler:      handlers.Chat,
		ResearchHandler:  handlers.Research,
		ProjectHandler:   handlers.Project,
		TechStackHandler: handlers.TechStack,
		ProgressHandler:  handlers.Progress,
		SessionHandler:   handlers.Session,
	}
	if cfg.MetricsEnabled {
		rc.Metrics = metrics
	}
	if cfg.Otel.Enabled {
		rc.ServiceName = cfg.Otel.ServiceName
	}
	return rc
}
