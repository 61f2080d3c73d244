package papers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/platform/cache"
	"github.com/campusai/teachassist/internal/platform/httpx"
	"github.com/campusai/teachassist/internal/platform/logger"
)

const (
	DefaultArxivURL           = "http://export.arxiv.org/api/query"
	DefaultSemanticScholarURL = "https://api.semanticscholar.org/graph/v1/paper/search"

	maxAbstractRunes  = 500
	maxAuthors        = 3
	maxErrorBodyBytes = 1024
	maxRetryAfter     = 10 * time.Second
)

type Config struct {
	ArxivURL           string
	SemanticScholarURL string
	Timeout            time.Duration
	CacheTTL           time.Duration
	// MaxRetries applies to 429, 5xx and timeouts only.
	MaxRetries   int
	RetryBackoff time.Duration
}

// Client searches arXiv and Semantic Scholar. Results are cached per
// source, query and limit.
type Client struct {
	log   *logger.Logger
	cfg   Config
	http  *http.Client
	cache cache.Cache
}

func NewClient(baseLog *logger.Logger, c cache.Cache, cfg Config) *Client {
	if cfg.ArxivURL == "" {
		cfg.ArxivURL = DefaultArxivURL
	}
	if cfg.SemanticScholarURL == "" {
		cfg.SemanticScholarURL = DefaultSemanticScholarURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 6 * time.Hour
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	return &Client{
		log:   baseLog.With("service", "PaperSearch"),
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: c,
	}
}

// Search queries both sources concurrently with perSource results each. A
// failing source contributes no papers; the failure is logged.
func (c *Client) Search(ctx context.Context, query string, perSource int) (arxiv, scholar []learning.Paper) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		papers, err := c.cached(gctx, "arxiv", query, perSource, c.SearchArxiv)
		if err != nil {
			c.log.Warn("arXiv search failed", "query", query, "error", err)
			return nil
		}
		arxiv = papers
		return nil
	})
	g.Go(func() error {
		papers, err := c.cached(gctx, "s2", query, perSource, c.SearchSemanticScholar)
		if err != nil {
			c.log.Warn("Semantic Scholar search failed", "query", query, "error", err)
			return nil
		}
		scholar = papers
		return nil
	})
	_ = g.Wait()
	return arxiv, scholar
}

type searchFunc func(ctx context.Context, query string, limit int) ([]learning.Paper, error)

func (c *Client) cached(ctx context.Context, source, query string, limit int, fn searchFunc) ([]learning.Paper, error) {
	key := fmt.Sprintf("papers:%s:%d:%s", source, limit, strings.ToLower(strings.TrimSpace(query)))
	var papers []learning.Paper
	if ok, err := cache.GetJSON(ctx, c.cache, key, &papers); err != nil {
		c.log.Debug("paper cache read failed", "key", key, "error", err)
	} else if ok {
		return papers, nil
	}
	papers, err := fn(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, c.cache, key, papers, c.cfg.CacheTTL); err != nil {
		c.log.Debug("paper cache write failed", "key", key, "error", err)
	}
	return papers, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, err := c.getOnce(ctx, endpoint)
		if err == nil || attempt >= c.cfg.MaxRetries || !httpx.IsRetryableError(err) {
			return body, err
		}
		wait := httpx.JitterSleep(c.cfg.RetryBackoff * time.Duration(attempt+1))
		var se *httpx.StatusError
		if errors.As(err, &se) && se.RetryAfter > 0 {
			wait = se.RetryAfter
		}
		c.log.Debug("paper search retry", "attempt", attempt+1, "wait", wait, "error", err)
		if err := httpx.Sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (c *Client) getOnce(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "teachassist/1.0")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &httpx.StatusError{
			Status:     resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: httpx.RetryAfterDuration(resp, 0, maxRetryAfter),
		}
	}
	return io.ReadAll(resp.Body)
}

// MostCited merges paper lists, ordered by citation count descending, and
// keeps at most limit papers. Equal counts keep input order.
func MostCited(limit int, lists ...[]learning.Paper) []learning.Paper {
	var all []learning.Paper
	for _, l := range lists {
		all = append(all, l...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Citations > all[j].Citations })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all
}

func truncateRunes(s string, n int) (string, bool) {
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return string(r[:n]), true
}
