package app

import (
	"context"
	"time"

	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/observability"
)

type instrumentedEmbedder struct {
	provider string
	inner    llm.Embedder
	metrics  *observability.Metrics
}

func instrumentEmbedder(provider string, inner llm.Embedder, metrics *observability.Metrics) llm.Embedder {
	if inner == nil {
		return nil
	}
	if metrics == nil {
		return inner
	}
	return &instrumentedEmbedder{
		provider: provider,
		inner:    inner,
		metrics:  metrics,
	}
}

func (e *instrumentedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	out, err := e.inner.Embed(ctx, texts)
	e.metrics.ObserveEmbedding(e.provider, err, time.Since(start))
	return out, err
}

func (e *instrumentedEmbedder) Name() string { return e.inner.Name() }
