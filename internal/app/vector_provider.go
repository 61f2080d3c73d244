package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type VectorProvider string

const (
	VectorProviderOpenAI VectorProvider = "openai"
	VectorProviderHash   VectorProvider = "hash"
)

var (
	newOpenAIEmbedder = func(cfg llm.OpenAIConfig) (llm.Embedder, error) { return llm.NewOpenAIEmbedder(cfg) }
	newHashEmbedder   = func(dim int) llm.Embedder { return llm.NewHashEmbedder(dim) }
)

type VectorProviderConfigErrorCode string

const (
	VectorProviderConfigErrorInvalidProvider VectorProviderConfigErrorCode = "invalid_provider"
	VectorProviderConfigErrorMissingAPIKey   VectorProviderConfigErrorCode = "missing_api_key"
	VectorProviderConfigErrorInvalidDim      VectorProviderConfigErrorCode = "invalid_vector_dim"
	VectorProviderConfigErrorInitFailed      VectorProviderConfigErrorCode = "provider_init_failed"
)

type VectorProviderConfigError struct {
	Code     VectorProviderConfigErrorCode
	Provider VectorProvider
	Cause    error
}

func (e *VectorProviderConfigError) Error() string {
	if e == nil {
		return "invalid vector provider config"
	}
	return fmt.Sprintf(
		"invalid vector provider config (code=%s provider=%q): %v",
		e.Code,
		e.Provider,
		e.Cause,
	)
}

func (e *VectorProviderConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveVectorProvider picks the embedding backend. An explicit choice
// wins; otherwise OpenAI is used when a key is configured and the offline
// hash embedder when not.
func resolveVectorProvider(cfg Config) (VectorProvider, string, error) {
	switch p := VectorProvider(strings.ToLower(strings.TrimSpace(cfg.RAG.EmbeddingsProvider))); p {
	case VectorProviderOpenAI, VectorProviderHash:
		return p, "env", nil
	case "":
		if strings.TrimSpace(cfg.LLM.OpenAI.APIKey) != "" {
			return VectorProviderOpenAI, "openai_key_present", nil
		}
		return VectorProviderHash, "default", nil
	default:
		return "", "", &VectorProviderConfigError{
			Code:     VectorProviderConfigErrorInvalidProvider,
			Provider: p,
			Cause:    fmt.Errorf("unsupported embeddings provider %q", p),
		}
	}
}

func resolveEmbedder(log *logger.Logger, cfg Config, metrics *observability.Metrics) (llm.Embedder, error) {
	provider, source, err := resolveVectorProvider(cfg)
	if err != nil {
		log.Error("Vector provider selection failed", "error_code", vectorProviderConfigErrorCode(err), "error", err)
		return nil, err
	}
	log.Info("Selecting vector provider", "provider", provider, "provider_source", source)

	var emb llm.Embedder
	switch provider {
	case VectorProviderOpenAI:
		if strings.TrimSpace(cfg.LLM.OpenAI.APIKey) == "" {
			return nil, &VectorProviderConfigError{
				Code:     VectorProviderConfigErrorMissingAPIKey,
				Provider: provider,
				Cause:    errors.New("OPENAI_API_KEY is required for openai embeddings"),
			}
		}
		emb, err = newOpenAIEmbedder(cfg.LLM.OpenAI)
		if err != nil {
			return nil, &VectorProviderConfigError{Code: VectorProviderConfigErrorInitFailed, Provider: provider, Cause: err}
		}
	case VectorProviderHash:
		if cfg.RAG.HashDim < 0 {
			return nil, &VectorProviderConfigError{
				Code:     VectorProviderConfigErrorInvalidDim,
				Provider: provider,
				Cause:    fmt.Errorf("HASH_EMBEDDING_DIM must be positive, got %d", cfg.RAG.HashDim),
			}
		}
		emb = newHashEmbedder(cfg.RAG.HashDim)
	}
	return instrumentEmbedder(string(provider), emb, metrics), nil
}

func vectorProviderConfigErrorCode(err error) VectorProviderConfigErrorCode {
	var cfgErr *VectorProviderConfigError
	if errors.As(err, &cfgErr) && cfgErr.Code != "" {
		return cfgErr.Code
	}
	return VectorProviderConfigErrorInitFailed
}
