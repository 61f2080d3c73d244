package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/campusai/teachassist/internal/data/repos/syllabus"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/platform/dbctx"
	"github.com/campusai/teachassist/internal/platform/logger"
)

const (
	DefaultTopK = 4
	// MaxSources caps the merged multi-query context.
	MaxSources = 10
	// SourceSeparator joins formatted sources.
	SourceSeparator = "\n\n---\n\n"
)

type RetrieverConfig struct {
	TopK     int
	MinScore float64
}

// Retriever embeds queries and searches the chunk index. The index is
// loaded from the syllabus repo at startup and extended on every upload.
type Retriever struct {
	log      *logger.Logger
	embedder llm.Embedder
	repo     syllabus.Repo
	index    *Index
	cfg      RetrieverConfig
}

func NewRetriever(baseLog *logger.Logger, embedder llm.Embedder, repo syllabus.Repo, cfg RetrieverConfig) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	return &Retriever{
		log:      baseLog.With("service", "Retriever"),
		embedder: embedder,
		repo:     repo,
		index:    NewIndex(),
		cfg:      cfg,
	}
}

// Load rebuilds the index from every stored chunk. Chunks embedded by a
// different embedder are skipped by dimension in Search.
func (r *Retriever) Load(ctx context.Context) error {
	chunks, err := r.repo.ListChunks(dbctx.Of(ctx))
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}
	r.index.Reset()
	skipped := 0
	for _, c := range chunks {
		var vec []float32
		if len(c.Embedding) == 0 || json.Unmarshal(c.Embedding, &vec) != nil {
			skipped++
			continue
		}
		r.index.Add(c.ID, c.DocumentID, c.Content, vec)
	}
	r.log.Info("retrieval index loaded", "chunks", r.index.Len(), "skipped", skipped)
	return nil
}

// Empty reports whether no syllabus content is indexed.
func (r *Retriever) Empty() bool { return r.index.Len() == 0 }

func (r *Retriever) TopK() int { return r.cfg.TopK }

// Retrieve returns the k chunks most similar to query. k <= 0 uses the
// configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 {
		k = r.cfg.TopK
	}
	query = strings.TrimSpace(query)
	if query == "" || r.Empty() {
		return nil, nil
	}
	vecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vecs))
	}
	return r.index.Search(vecs[0], k, r.cfg.MinScore), nil
}

// MultiRetrieve runs every query concurrently, keeps the first occurrence of
// each distinct chunk text in query order and caps the result at
// MaxSources. A failing query is logged and skipped.
func (r *Retriever) MultiRetrieve(ctx context.Context, queries []string, k int) []Hit {
	results := make([][]Hit, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, q := range queries {
		g.Go(func() error {
			hits, err := r.Retrieve(gctx, q, k)
			if err != nil {
				r.log.Warn("retrieval failed for query", "query", q, "error", err)
				return nil
			}
			results[i] = hits
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	var out []Hit
	for _, hits := range results {
		for _, h := range hits {
			key := strings.TrimSpace(h.Content)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, h)
		}
	}
	if len(out) > MaxSources {
		out = out[:MaxSources]
	}
	return out
}

// FormatSources renders hits as numbered sources for prompts.
func FormatSources(hits []Hit) string {
	if len(hits) == 0 {
		return ""
	}
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("Source %d:\n%s", i+1, h.Content)
	}
	return strings.Join(parts, SourceSeparator)
}

// JoinContents concatenates hit texts with blank lines.
func JoinContents(hits []Hit) string {
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = h.Content
	}
	return strings.Join(parts, "\n\n")
}

// CountSources counts the sections of a formatted context.
func CountSources(formatted string) int {
	if strings.TrimSpace(formatted) == "" {
		return 0
	}
	return len(strings.Split(formatted, "---"))
}
