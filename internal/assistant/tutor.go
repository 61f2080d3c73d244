package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/platform/cache"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/rag"
)

// TutorService answers syllabus questions and walks the theory and lab
// stage flows.
type TutorService interface {
	Ask(ctx context.Context, question string) learning.AskResult
	Learn(ctx context.Context, topic, stage string) learning.StageResult
	Lab(ctx context.Context, experiment, step string) learning.LabResult
}

type TutorConfig struct {
	TopK int
	// CacheTTL bounds how long generated stage content is reused.
	CacheTTL time.Duration
	// QuizContextRunes caps the syllabus excerpt sent with quiz prompts.
	QuizContextRunes int
}

type tutorService struct {
	log       *logger.Logger
	answerer  *Answerer
	retriever Retriever
	cache     cache.Cache
	cfg       TutorConfig
}

func NewTutorService(baseLog *logger.Logger, answerer *Answerer, retriever Retriever, c cache.Cache, cfg TutorConfig) TutorService {
	if cfg.TopK <= 0 {
		cfg.TopK = rag.DefaultTopK
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.QuizContextRunes <= 0 {
		cfg.QuizContextRunes = 2000
	}
	return &tutorService{
		log:       baseLog.With("service", "TutorService"),
		answerer:  answerer,
		retriever: retriever,
		cache:     c,
		cfg:       cfg,
	}
}

func (s *tutorService) Ask(ctx context.Context, question string) learning.AskResult {
	ctx = llm.WithPurpose(ctx, "ask")
	out := learning.AskResult{Question: question}

	syllabus, err := s.context(ctx, question)
	if err != nil {
		out.StageResult = learning.Errorf("Error generating answer: %v", err)
		out.Answer = out.Content
		return out
	}
	if syllabus == "" {
		out.StageResult = learning.NotFound(msgTopicNotCovered)
		out.Answer = msgTopicNotCovered
		return out
	}

	answer, err := s.answerer.Answer(ctx, syllabus, question)
	if err != nil {
		s.log.Warn("answer generation failed", "error", err)
		out.StageResult = learning.Errorf("Error generating answer: %v", err)
		out.Answer = out.Content
		return out
	}
	out.StageResult = learning.StageResult{Stage: learning.StageAnswer, Content: answer}
	out.Answer = answer
	return out
}

type contentStage struct {
	stage  learning.Stage
	prompt func(string) string
	next   string
}

var theoryStages = map[string]contentStage{
	"explain":    {learning.StageExplain, explainPrompt, "Would you like a deeper explanation?"},
	"deep":       {learning.StageDeep, deepPrompt, "Would you like learning references?"},
	"references": {learning.StageReferences, referencesPrompt, "Ready to take a quiz?"},
}

var labSteps = map[string]contentStage{
	"explanation": {learning.StageExplanation, labPrompt(labExplanationPrompt), "Do you want pseudocode to understand the working?"},
	"pseudocode":  {learning.StagePseudocode, labPrompt(labPseudocodePrompt), "Do you want viva questions?"},
	"viva":        {learning.StageViva, labPrompt(labVivaPrompt), "Ask doubts or visit Theory page for more"},
}

func labPrompt(base string) func(string) string {
	return func(experiment string) string { return base + "\n\nExperiment: " + experiment }
}

func (s *tutorService) Learn(ctx context.Context, topic, stage string) learning.StageResult {
	stage = normalize(stage)
	cs, known := theoryStages[stage]
	if !known && stage != "quiz" {
		return learning.Errorf("Invalid stage specified")
	}
	ctx = llm.WithPurpose(ctx, "learn."+stage)

	syllabus, err := s.context(ctx, topic)
	if err != nil {
		return learning.Errorf("Retrieval failed: %v", err)
	}
	if syllabus == "" {
		return learning.NotFound(msgTopicNotCovered)
	}

	if stage == "quiz" {
		return s.quiz(ctx, topic, syllabus)
	}
	return s.content(ctx, "learn", topic, syllabus, cs)
}

func (s *tutorService) Lab(ctx context.Context, experiment, step string) learning.LabResult {
	out := learning.LabResult{Experiment: experiment}
	step = normalize(step)
	if step == "" {
		step = "explanation"
	}
	cs, ok := labSteps[step]
	if !ok {
		out.StageResult = learning.Errorf("Invalid step requested")
		return out
	}
	ctx = llm.WithPurpose(ctx, "lab."+step)

	syllabus, err := s.context(ctx, experiment)
	switch {
	case err != nil:
		out.StageResult = learning.Errorf("Error generating lab content: %v", err)
	case syllabus == "":
		out.StageResult = learning.NotFound(msgLabNotFound)
	default:
		out.StageResult = s.content(ctx, "lab", experiment, syllabus, cs)
	}
	return out
}

// content generates a markdown stage, reusing cached text for the same
// subject and stage.
func (s *tutorService) content(ctx context.Context, ns, subject, syllabus string, cs contentStage) learning.StageResult {
	key := cacheKey(ns+":"+strings.ToLower(string(cs.stage)), subject)
	var cached learning.StageResult
	if ok, err := cache.GetJSON(ctx, s.cache, key, &cached); err != nil {
		s.log.Debug("stage cache read failed", "error", err)
	} else if ok && cached.Content != "" {
		return cached
	}

	text, err := s.answerer.Answer(ctx, syllabus, cs.prompt(subject))
	if err != nil {
		s.log.Warn("stage generation failed", "stage", cs.stage, "error", err)
		return learning.Errorf("LLM Error: %v", err)
	}
	res := learning.StageResult{Stage: cs.stage, Content: text, Next: cs.next}
	if err := cache.SetJSON(ctx, s.cache, key, res, s.cfg.CacheTTL); err != nil {
		s.log.Debug("stage cache write failed", "error", err)
	}
	return res
}

// quiz always generates a fresh question set so retakes differ.
func (s *tutorService) quiz(ctx context.Context, topic, syllabus string) learning.StageResult {
	questions, err := generateQuiz(ctx, s.answerer, quizQuestionCount, topic, truncate(syllabus, s.cfg.QuizContextRunes))
	if err != nil {
		s.log.Warn("quiz generation failed", "topic", topic, "error", err)
		return learning.Errorf("Quiz generation failed: %v", err)
	}
	return learning.StageResult{Stage: learning.StageQuiz, Questions: questions}
}

func generateQuiz(ctx context.Context, a *Answerer, n int, topic, syllabus string) ([]learning.Question, error) {
	var payload struct {
		Questions []learning.Question `json:"questions"`
	}
	if err := a.Structured(ctx, syllabus, quizPrompt(n, topic, syllabus), quizSchema(n), &payload); err != nil {
		return nil, err
	}
	qs := learning.Renumber(payload.Questions)
	for _, q := range qs {
		if len(q.Options) != 4 {
			return nil, fmt.Errorf("each question must have exactly 4 options")
		}
	}
	if err := learning.ValidateQuestions(qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *tutorService) context(ctx context.Context, query string) (string, error) {
	hits, err := s.retriever.Retrieve(ctx, query, s.cfg.TopK)
	if err != nil {
		return "", err
	}
	return rag.JoinContents(hits), nil
}
