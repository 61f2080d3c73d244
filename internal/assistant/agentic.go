package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/rag"
)

// DeepResearchService answers complex questions with planned multi-query
// retrieval and self-evaluated refinement.
type DeepResearchService interface {
	DeepResearch(ctx context.Context, question string) (learning.DeepResearchResult, error)
}

type DeepResearchConfig struct {
	MaxIterations int
	PlanK         int
	RefineK       int
}

type deepResearchService struct {
	log       *logger.Logger
	answerer  *Answerer
	retriever Retriever
	cfg       DeepResearchConfig
}

func NewDeepResearchService(baseLog *logger.Logger, answerer *Answerer, retriever Retriever, cfg DeepResearchConfig) DeepResearchService {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 3
	}
	if cfg.PlanK <= 0 {
		cfg.PlanK = 3
	}
	if cfg.RefineK <= 0 {
		cfg.RefineK = 2
	}
	return &deepResearchService{
		log:       baseLog.With("service", "DeepResearchService"),
		answerer:  answerer,
		retriever: retriever,
		cfg:       cfg,
	}
}

type evaluation struct {
	Sufficient      bool   `json:"sufficient"`
	MissingInfo     string `json:"missing_info"`
	RefinementQuery string `json:"refinement_query"`
}

func (s *deepResearchService) DeepResearch(ctx context.Context, question string) (learning.DeepResearchResult, error) {
	ctx, span := observability.Tracer("assistant").Start(ctx, "deep_research")
	defer span.End()

	out := learning.DeepResearchResult{Stage: learning.StageDeepResearch, Topic: question}
	trace := func(format string, args ...any) {
		out.ReasoningTrace = append(out.ReasoningTrace, fmt.Sprintf(format, args...))
	}

	trace("🧠 Planning retrieval strategy...")
	out.SubQueries = s.plan(ctx, question)
	trace("📋 Sub-queries: %s", strings.Join(out.SubQueries, "; "))

	trace("🔍 Retrieving information...")
	syllabus := rag.FormatSources(s.retriever.MultiRetrieve(ctx, out.SubQueries, s.cfg.PlanK))
	if syllabus == "" {
		out.Content = msgNoDeepContext
		return out, nil
	}
	trace("✅ Retrieved information from multiple sources")

	answerCtx := llm.WithPurpose(ctx, "deep_research.answer")
	for i := 0; i < s.cfg.MaxIterations; i++ {
		out.Iterations = i + 1
		iterCtx, iterSpan := observability.Tracer("assistant").Start(answerCtx, "deep_research.iteration")
		iterSpan.SetAttributes(attribute.Int("iteration", i+1), attribute.Int("context_runes", len([]rune(syllabus))))
		trace("💭 Generating answer (iteration %d)...", i+1)

		answer, err := s.answerer.Answer(iterCtx, syllabus, question)
		if err != nil {
			iterSpan.RecordError(err)
			iterSpan.SetStatus(codes.Error, err.Error())
			iterSpan.End()
			span.RecordError(err)
			return out, fmt.Errorf("generate answer: %w", err)
		}
		out.Content = answer

		if i == s.cfg.MaxIterations-1 {
			iterSpan.End()
			break
		}
		trace("🔎 Evaluating answer quality...")
		ev := s.evaluate(iterCtx, question, answer, syllabus)
		iterSpan.SetAttributes(attribute.Bool("sufficient", ev.Sufficient))
		if ev.Sufficient {
			trace("✅ Answer is sufficient")
			iterSpan.End()
			break
		}
		missing := ev.MissingInfo
		if missing == "" {
			missing = "unknown"
		}
		trace("⚠️ Missing info: %s", missing)
		if q := strings.TrimSpace(ev.RefinementQuery); q != "" {
			trace("🔄 Refining with query: %s", q)
			if extra := rag.FormatSources(s.retriever.MultiRetrieve(iterCtx, []string{q}, s.cfg.RefineK)); extra != "" {
				syllabus += rag.SourceSeparator + extra
			}
		}
		iterSpan.End()
	}

	trace("✅ Final answer generated")
	out.SourcesUsed = rag.CountSources(syllabus)
	span.SetAttributes(attribute.Int("iterations", out.Iterations), attribute.Int("sources_used", out.SourcesUsed))
	return out, nil
}

// plan splits the question into sub-queries, falling back to the question
// itself when planning fails.
func (s *deepResearchService) plan(ctx context.Context, question string) []string {
	var p struct {
		Queries []string `json:"queries"`
	}
	ctx = llm.WithPurpose(ctx, "deep_research.plan")
	if err := s.answerer.Structured(ctx, "You are a query planning assistant.", planPrompt(question), planSchema, &p); err != nil {
		s.log.Debug("query planning failed, using the question", "error", err)
		return []string{question}
	}
	var out []string
	for _, q := range p.Queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return []string{question}
	}
	return out
}

// evaluate treats any evaluation failure as a sufficient answer.
func (s *deepResearchService) evaluate(ctx context.Context, question, answer, syllabus string) evaluation {
	var ev evaluation
	ctx = llm.WithPurpose(ctx, "deep_research.evaluate")
	if err := s.answerer.Structured(ctx, truncate(syllabus, 500), evaluationPrompt(question, answer), evaluationSchema, &ev); err != nil {
		s.log.Debug("answer evaluation failed, accepting answer", "error", err)
		return evaluation{Sufficient: true}
	}
	return ev
}
