package llm

import (
	"context"
	"time"

	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
)

// LoggingProvider logs every generation and records latency metrics.
type LoggingProvider struct {
	inner   Provider
	log     *logger.Logger
	metrics *observability.Metrics
}

func WithLogging(p Provider, log *logger.Logger, m *observability.Metrics) Provider {
	return &LoggingProvider{inner: p, log: log.With("service", "LLM", "model", p.ModelID()), metrics: m}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)
	l.metrics.ObserveLLM(purpose, err, elapsed)

	fields := []interface{}{
		"purpose", purpose,
		"latency_ms", elapsed.Milliseconds(),
		"structured", req.Schema != nil,
	}
	if resp != nil {
		fields = append(fields,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"stop", resp.StopReason,
		)
	}
	if err != nil {
		l.log.Warn("LLM generation failed", append(fields, "error", err)...)
	} else {
		l.log.Debug("LLM generation", fields...)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
