package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type fakeSearcher struct {
	arxiv, scholar []learning.Paper
	perSource      []int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, n int) ([]learning.Paper, []learning.Paper) {
	f.perSource = append(f.perSource, n)
	return f.arxiv, f.scholar
}

func TestResearchTopic(t *testing.T) {
	searcher := &fakeSearcher{
		arxiv: []learning.Paper{{Title: "A", Source: learning.SourceArxiv}},
		scholar: []learning.Paper{
			{Title: "S1", Citations: 10, Source: learning.SourceSemanticScholar},
			{Title: "S2", Citations: 500, Source: learning.SourceSemanticScholar},
		},
	}
	mock := llm.NewMockProvider(llm.MockResponse{Text: "explanation"}, llm.MockResponse{Text: "directions"})
	ret := &fakeRetriever{}
	svc := NewResearchService(logger.Nop(), newAnswerer(mock), ret, searcher)

	res, err := svc.ResearchTopic(context.Background(), "graph neural networks", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stage != learning.StageResearch || res.Explanation != "explanation" || res.ResearchDirections != "directions" {
		t.Fatalf("got %+v", res)
	}
	if res.Sources.Syllabus || res.Sources.Arxiv != 1 || res.Sources.SemanticScholar != 2 {
		t.Fatalf("sources = %+v", res.Sources)
	}
	if len(res.Papers) != 3 || res.Papers[0].Title != "S2" {
		t.Fatalf("papers should be ordered by citations: %+v", res.Papers)
	}
	if searcher.perSource[0] != 3 {
		t.Fatalf("per-source limit = %d", searcher.perSource[0])
	}
	if len(ret.queries) != 4 || ret.queries[3] != "graph neural networks theory" {
		t.Fatalf("queries = %v", ret.queries)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "Research topic: graph neural networks. Provide comprehensive academic coverage.") {
		t.Fatal("fallback context missing from prompt")
	}
}

func TestResearchWithoutPapers(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "e"}, llm.MockResponse{Text: "d"})
	searcher := &fakeSearcher{}
	svc := NewResearchService(logger.Nop(), newAnswerer(mock), &fakeRetriever{hits: hits("syllabus")}, searcher)

	res, err := svc.ResearchTopic(context.Background(), "t", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Sources.Syllabus || len(res.Papers) != 0 || len(searcher.perSource) != 0 {
		t.Fatalf("got %+v", res)
	}
}

func TestSearchPapersAndSummarize(t *testing.T) {
	searcher := &fakeSearcher{
		arxiv:   []learning.Paper{{Title: "A"}},
		scholar: []learning.Paper{{Title: "B"}, {Title: "C"}},
	}
	mock := llm.NewMockProvider(llm.MockResponse{Text: "summary"})
	svc := NewResearchService(logger.Nop(), newAnswerer(mock), &fakeRetriever{}, searcher)
	ctx := context.Background()

	found := svc.SearchPapers(ctx, "q")
	if found.Stage != learning.StagePapers || found.Total != 3 || found.Papers[0].Title != "A" || searcher.perSource[0] != 5 {
		t.Fatalf("got %+v", found)
	}

	empty, err := svc.Summarize(ctx, "q", nil)
	if err != nil || empty.Content != "No papers provided for summarization." || empty.Stage != learning.StageSummary {
		t.Fatalf("got %+v, %v", empty, err)
	}

	many := make([]learning.Paper, 7)
	for i := range many {
		many[i] = learning.Paper{Title: string(rune('A' + i))}
	}
	sum, err := svc.Summarize(ctx, "q", many)
	if err != nil || sum.Content != "summary" || sum.PapersAnalyzed != 7 {
		t.Fatalf("got %+v, %v", sum, err)
	}
	if prompt := mock.LastCall().Messages[0].Content; strings.Contains(prompt, "Paper: F") {
		t.Fatal("at most five papers should be summarized")
	}
}
