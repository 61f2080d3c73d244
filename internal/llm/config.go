package llm

import (
	"fmt"
	"os"
	"time"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

type Config struct {
	// Provider is one of anthropic, openai, gemini or mock. Empty means
	// discover from the standard API key variables.
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	EmbeddingModel string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv reads LLM_PROVIDER and the vendor key/model variables on
// top of the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	set := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, "LLM_PROVIDER")
	set(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	set(&cfg.Anthropic.Model, "ANTHROPIC_MODEL")
	set(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	set(&cfg.OpenAI.Model, "OPENAI_MODEL")
	set(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	set(&cfg.OpenAI.EmbeddingModel, "OPENAI_EMBEDDING_MODEL")
	set(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	set(&cfg.Gemini.Model, "GEMINI_MODEL")
	if cfg.Provider == "" {
		cfg.Provider = cfg.discover()
	}
	return cfg
}

// discover picks the first vendor with a key, in Gemini, OpenAI, Anthropic
// order.
func (c Config) discover() string {
	switch {
	case c.Gemini.APIKey != "":
		return ProviderGemini
	case c.OpenAI.APIKey != "":
		return ProviderOpenAI
	case c.Anthropic.APIKey != "":
		return ProviderAnthropic
	}
	return ""
}

func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderMock:
	case "":
		return fmt.Errorf("no LLM provider configured: set LLM_PROVIDER or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
