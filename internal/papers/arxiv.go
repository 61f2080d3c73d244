package papers

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/campusai/teachassist/internal/domain/learning"
)

type arxivFeed struct {
	Entries []arxivEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type arxivEntry struct {
	ID        string        `xml:"http://www.w3.org/2005/Atom id"`
	Title     string        `xml:"http://www.w3.org/2005/Atom title"`
	Summary   string        `xml:"http://www.w3.org/2005/Atom summary"`
	Published string        `xml:"http://www.w3.org/2005/Atom published"`
	Authors   []arxivAuthor `xml:"http://www.w3.org/2005/Atom author"`
}

type arxivAuthor struct {
	Name string `xml:"http://www.w3.org/2005/Atom name"`
}

// SearchArxiv queries the arXiv Atom API by relevance.
func (c *Client) SearchArxiv(ctx context.Context, query string, limit int) ([]learning.Paper, error) {
	q := url.Values{}
	q.Set("search_query", "all:"+query)
	q.Set("start", "0")
	q.Set("max_results", strconv.Itoa(limit))
	q.Set("sortBy", "relevance")
	q.Set("sortOrder", "descending")

	body, err := c.get(ctx, c.cfg.ArxivURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("arxiv: %w", err)
	}
	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}

	out := make([]learning.Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		title := collapse(e.Title)
		if title == "" {
			title = "Unknown"
		}
		abstract := ""
		if s := strings.TrimSpace(e.Summary); s != "" {
			abstract, _ = truncateRunes(s, maxAbstractRunes)
			abstract += "..."
		}
		var authors []string
		for _, a := range e.Authors {
			if name := strings.TrimSpace(a.Name); name != "" {
				authors = append(authors, name)
			}
		}
		if len(authors) > maxAuthors {
			authors = authors[:maxAuthors]
		}
		published := strings.TrimSpace(e.Published)
		if len(published) > 10 {
			published = published[:10]
		}
		out = append(out, learning.Paper{
			Title:     title,
			Abstract:  abstract,
			Authors:   authors,
			Published: published,
			URL:       strings.TrimSpace(e.ID),
			Source:    learning.SourceArxiv,
		})
	}
	return out, nil
}

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }
