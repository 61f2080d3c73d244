package app

import (
	httpMW "github.com/campusai/teachassist/internal/http/middleware"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type Middleware struct {
	SessionAuth *httpMW.SessionAuth
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		SessionAuth: httpMW.NewSessionAuth(log, services.Sessions, cfg.Session.Required),
	}
}
