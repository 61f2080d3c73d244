package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/papers"
	"github.com/campusai/teachassist/internal/platform/cache"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/platform/objectstore"
)

type Clients struct {
	Cache       cache.Cache
	ObjectStore objectstore.Store
	LLM         llm.Provider
	Embedder    llm.Embedder
	Papers      *papers.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var c cache.Cache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rc, err := cache.NewRedis(log, cfg.RedisAddr, cfg.CachePrefix)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		c = rc
	} else {
		log.Warn("REDIS_ADDR is empty; using the in-process cache")
		c = cache.NewMemory()
	}

	// Object storage
	store, err := resolveObjectStore(ctx, log, cfg.Storage)
	if err != nil {
		_ = c.Close()
		return Clients{}, err
	}

	// LLM
	provider, err := llm.NewProvider(ctx, cfg.LLM, log, metrics)
	if err != nil {
		_ = store.Close()
		_ = c.Close()
		return Clients{}, fmt.Errorf("init llm provider: %w", err)
	}
	embedder, err := resolveEmbedder(log, cfg, metrics)
	if err != nil {
		_ = store.Close()
		_ = c.Close()
		return Clients{}, err
	}

	return Clients{
		Cache:       c,
		ObjectStore: store,
		LLM:         provider,
		Embedder:    embedder,
		Papers:      papers.NewClient(log, c, cfg.Papers),
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ObjectStore != nil {
		_ = c.ObjectStore.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
