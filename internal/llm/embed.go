package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder turns texts into vectors of a fixed dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Name() string
}

const openAIEmbedBatch = 96

type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required for embeddings")
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{client: openai.NewClientWithConfig(config), model: openai.EmbeddingModel(model)}, nil
}

func (e *OpenAIEmbedder) Name() string { return "openai:" + string(e.model) }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += openAIEmbedBatch {
		end := min(start+openAIEmbedBatch, len(texts))
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: e.model,
		})
		if err != nil {
			return nil, mapOpenAIError(err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("embeddings: got %d vectors for %d inputs", len(resp.Data), end-start)
		}
		for _, d := range resp.Data {
			out = append(out, d.Embedding)
		}
	}
	return out, nil
}

// HashEmbedder is a deterministic bag-of-words embedder using feature
// hashing over unigrams and bigrams. It needs no network and is good enough
// for keyword-heavy syllabus text.
type HashEmbedder struct {
	Dim int
}

func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 512
	}
	return &HashEmbedder{Dim: dim}
}

func (h *HashEmbedder) Name() string { return fmt.Sprintf("hash:%d", h.Dim) }

func (h *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.vector(t)
	}
	return out, nil
}

func (h *HashEmbedder) vector(text string) []float32 {
	v := make([]float32, h.Dim)
	tokens := tokenize(text)
	add := func(term string, weight float32) {
		f := fnv.New32a()
		_, _ = f.Write([]byte(term))
		sum := f.Sum32()
		idx := int(sum % uint32(h.Dim))
		if sum&(1<<31) != 0 {
			weight = -weight
		}
		v[idx] += weight
	}
	for i, tok := range tokens {
		add(tok, 1)
		if i > 0 {
			add(tokens[i-1]+" "+tok, 0.5)
		}
	}
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= inv
	}
	return v
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "what": {}, "how": {}, "by": {},
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; stop || len(f) < 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}
