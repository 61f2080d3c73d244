package papers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/campusai/teachassist/internal/domain/learning"
)

type s2Response struct {
	Data []s2Paper `json:"data"`
}

type s2Paper struct {
	Title         string     `json:"title"`
	Abstract      *string    `json:"abstract"`
	Authors       []s2Author `json:"authors"`
	Year          *int       `json:"year"`
	CitationCount int        `json:"citationCount"`
	URL           string     `json:"url"`
}

type s2Author struct {
	Name string `json:"name"`
}

// SearchSemanticScholar queries the Semantic Scholar graph API, which
// carries citation counts.
func (c *Client) SearchSemanticScholar(ctx context.Context, query string, limit int) ([]learning.Paper, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("fields", "title,abstract,authors,year,citationCount,url")

	body, err := c.get(ctx, c.cfg.SemanticScholarURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("semantic scholar: %w", err)
	}
	var res s2Response
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("semantic scholar: decode: %w", err)
	}

	out := make([]learning.Paper, 0, len(res.Data))
	for _, p := range res.Data {
		title := p.Title
		if title == "" {
			title = "Unknown"
		}
		abstract := ""
		if p.Abstract != nil {
			abstract, _ = truncateRunes(*p.Abstract, maxAbstractRunes)
		}
		authors := make([]string, 0, maxAuthors)
		for i, a := range p.Authors {
			if i == maxAuthors {
				break
			}
			authors = append(authors, a.Name)
		}
		year := 0
		if p.Year != nil {
			year = *p.Year
		}
		out = append(out, learning.Paper{
			Title:     title,
			Abstract:  abstract,
			Authors:   authors,
			Year:      year,
			Citations: p.CitationCount,
			URL:       p.URL,
			Source:    learning.SourceSemanticScholar,
		})
	}
	return out, nil
}
