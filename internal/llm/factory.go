package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
)

// NewProvider builds the configured vendor provider wrapped as
// caller -> timeout -> retry -> logging -> vendor.
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger, m *observability.Metrics) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewOfflineProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}
	log.Info("LLM provider ready", "provider", cfg.Provider, "model", base.ModelID())
	return WithTimeout(WithRetry(WithLogging(base, log, m), cfg.Retry), cfg.Timeout), nil
}

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout bounds every Generate call. A non-positive timeout is a no-op.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: d}
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string { return t.inner.ModelID() }
