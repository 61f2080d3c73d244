package app

import (
	"fmt"

	"github.com/campusai/teachassist/internal/assistant"
	"github.com/campusai/teachassist/internal/auth"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/progress"
	"github.com/campusai/teachassist/internal/rag"
)

type Services struct {
	Retriever *rag.Retriever
	Ingestor  *rag.Ingestor

	Tutor        assistant.TutorService
	DeepResearch assistant.DeepResearchService
	Chat         assistant.ChatService
	Research     assistant.ResearchService
	Project      assistant.ProjectService
	TechStack    assistant.TechStackService

	Progress progress.Service
	Sessions *auth.Issuer
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	retriever := rag.NewRetriever(log, clients.Embedder, reposet.Syllabus, rag.RetrieverConfig{
		TopK:     cfg.RAG.TopK,
		MinScore: cfg.RAG.MinScore,
	})
	ingestor := rag.NewIngestor(
		log,
		rag.NewPDFToText(),
		clients.ObjectStore,
		reposet.Syllabus,
		clients.Embedder,
		retriever,
		metrics,
		rag.IngestConfig{ChunkSize: cfg.RAG.ChunkSize, ChunkOverlap: cfg.RAG.ChunkOverlap},
	)

	answerer := assistant.NewAnswerer(clients.LLM, assistant.AnswererConfig{})

	issuer, err := auth.NewIssuer(cfg.Session.SigningKey, cfg.Session.TTL)
	if err != nil {
		return Services{}, fmt.Errorf("init session issuer: %w", err)
	}

	return Services{
		Retriever: retriever,
		Ingestor:  ingestor,

		Tutor: assistant.NewTutorService(log, answerer, retriever, clients.Cache, assistant.TutorConfig{
			TopK:     cfg.RAG.TopK,
			CacheTTL: cfg.CacheTTL,
		}),
		DeepResearch: assistant.NewDeepResearchService(log, answerer, retriever, assistant.DeepResearchConfig{}),
		Chat:         assistant.NewChatService(log, answerer, retriever, cfg.RAG.TopK),
		Research:     assistant.NewResearchService(log, answerer, retriever, clients.Papers),
		Project:      assistant.NewProjectService(log, answerer, retriever),
		TechStack:    assistant.NewTechStackService(log, answerer, retriever),

		Progress: progress.NewService(log, reposet.Progress, metrics),
		Sessions: issuer,
	}, nil
}
