package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/campusai/teachassist/internal/data/db"
	"github.com/campusai/teachassist/internal/http"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/envutil"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics

	dbs          *db.Service
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.NewMetrics()

	dbs, err := db.Open(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbs.AutoMigrateAll(); err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(dbs.DB(), log)

	serviceset, err := wireServices(log, cfg, clients, reposet, metrics)
	if err != nil {
		clients.Close()
		_ = dbs.Close()
		log.Sync()
		return nil, err
	}
	if err := serviceset.Retriever.Load(ctx); err != nil {
		log.Warn("Retrieval index not loaded; uploads will rebuild it", "error", err)
	}

	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, cfg, serviceset)
	server := http.NewServer(wireRouterConfig(log, cfg, handlerset, middleware, metrics))

	return &App{
		Log:          log,
		DB:           dbs.DB(),
		Server:       server,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		dbs:          dbs,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := a.Cfg.Address()
	a.Log.Info("Server listening", "address", addr)
	return a.Server.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.dbs != nil {
		if err := a.dbs.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Tracer shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
