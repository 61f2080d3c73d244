package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/papers"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/rag"
)

// PaperSearcher is implemented by papers.Client.
type PaperSearcher interface {
	Search(ctx context.Context, query string, perSource int) (arxiv, scholar []learning.Paper)
}

type ResearchService interface {
	ResearchTopic(ctx context.Context, topic string, includePapers bool) (learning.ResearchResult, error)
	SearchPapers(ctx context.Context, query string) learning.PapersResult
	Summarize(ctx context.Context, topic string, papers []learning.Paper) (learning.SummaryResult, error)
}

const (
	researchK          = 4
	researchPerSource  = 3
	researchMaxPapers  = 6
	searchPerSource    = 5
	summaryMaxPapers   = 5
	msgNoPapersToSumup = "No papers provided for summarization."
)

type researchService struct {
	log       *logger.Logger
	answerer  *Answerer
	retriever Retriever
	papers    PaperSearcher
}

func NewResearchService(baseLog *logger.Logger, answerer *Answerer, retriever Retriever, searcher PaperSearcher) ResearchService {
	return &researchService{
		log:       baseLog.With("service", "ResearchService"),
		answerer:  answerer,
		retriever: retriever,
		papers:    searcher,
	}
}

func (s *researchService) ResearchTopic(ctx context.Context, topic string, includePapers bool) (learning.ResearchResult, error) {
	out := learning.ResearchResult{Stage: learning.StageResearch, Topic: topic, Papers: []learning.Paper{}}
	trace := func(format string, args ...any) {
		out.ReasoningTrace = append(out.ReasoningTrace, fmt.Sprintf(format, args...))
	}

	trace("🔍 Researching: %s", topic)
	queries := []string{topic, topic + " concepts", topic + " applications", topic + " theory"}
	background := rag.FormatSources(s.retriever.MultiRetrieve(ctx, queries, researchK))
	if background != "" {
		out.Sources.Syllabus = true
		trace("✅ Syllabus context retrieved")
	} else {
		trace("📝 No syllabus - using general knowledge")
		background = fmt.Sprintf("Research topic: %s. Provide comprehensive academic coverage.", topic)
	}

	trace("📚 Generating concept explanation...")
	explanation, err := s.answerer.Mentor(llm.WithPurpose(ctx, "research.explain"), background, researchExplanationPrompt(topic))
	if err != nil {
		return out, fmt.Errorf("explain topic: %w", err)
	}
	out.Explanation = explanation
	trace("✅ Concept explanation generated")

	if includePapers && s.papers != nil {
		trace("📄 Searching academic databases...")
		arxiv, scholar := s.papers.Search(ctx, topic, researchPerSource)
		out.Sources.Arxiv = len(arxiv)
		out.Sources.SemanticScholar = len(scholar)
		out.Papers = papers.MostCited(researchMaxPapers, arxiv, scholar)
		trace("✅ Found %d research papers", len(arxiv)+len(scholar))
	}

	trace("🎯 Suggesting research directions...")
	directions, err := s.answerer.Mentor(llm.WithPurpose(ctx, "research.directions"), background, researchDirectionsPrompt(topic))
	if err != nil {
		return out, fmt.Errorf("research directions: %w", err)
	}
	out.ResearchDirections = directions
	trace("✅ Research complete")
	return out, nil
}

func (s *researchService) SearchPapers(ctx context.Context, query string) learning.PapersResult {
	all := []learning.Paper{}
	if s.papers != nil {
		arxiv, scholar := s.papers.Search(ctx, query, searchPerSource)
		all = append(append(all, arxiv...), scholar...)
	}
	return learning.PapersResult{Stage: learning.StagePapers, Query: query, Papers: all, Total: len(all)}
}

func (s *researchService) Summarize(ctx context.Context, topic string, ps []learning.Paper) (learning.SummaryResult, error) {
	out := learning.SummaryResult{Stage: learning.StageSummary, Topic: topic, PapersAnalyzed: len(ps)}
	if len(ps) == 0 {
		out.Content = msgNoPapersToSumup
		return out, nil
	}
	if len(ps) > summaryMaxPapers {
		ps = ps[:summaryMaxPapers]
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = "Paper: " + p.Title + "\nAbstract: " + p.Abstract
	}
	joined := strings.Join(parts, "\n\n")

	content, err := s.answerer.Mentor(llm.WithPurpose(ctx, "research.summarize"), joined, summaryPrompt(topic, joined))
	if err != nil {
		return out, fmt.Errorf("summarize papers: %w", err)
	}
	out.Content = content
	return out, nil
}
