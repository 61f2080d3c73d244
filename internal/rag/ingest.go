package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/campusai/teachassist/internal/domain/syllabus"
	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/data/repos/syllabus"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/platform/objectstore"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	embedBatchSize      = 64

	msgUploaded    = "Syllabus uploaded and indexed successfully"
	errNoText      = "PDF contains no extractable text (possibly scanned)"
	errNoChunks    = "Chunking failed: no chunks generated"
	errProcessingF = "Syllabus processing failed: %s"
)

type IngestConfig struct {
	ChunkSize    int
	ChunkOverlap int
}

// Ingestor turns an uploaded syllabus PDF into indexed chunks.
type Ingestor struct {
	log       *logger.Logger
	extractor TextExtractor
	store     objectstore.Store
	repo      syllabus.Repo
	embedder  llm.Embedder
	retriever *Retriever
	metrics   *observability.Metrics
	cfg       IngestConfig
}

func NewIngestor(
	baseLog *logger.Logger,
	extractor TextExtractor,
	store objectstore.Store,
	repo syllabus.Repo,
	embedder llm.Embedder,
	retriever *Retriever,
	metrics *observability.Metrics,
	cfg IngestConfig,
) *Ingestor {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	return &Ingestor{
		log:       baseLog.With("service", "SyllabusIngestor"),
		extractor: extractor,
		store:     store,
		repo:      repo,
		embedder:  embedder,
		retriever: retriever,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Upload processes one PDF. Processing failures are reported in the
// result's Error field; the returned value is never nil.
func (s *Ingestor) Upload(ctx context.Context, filename string, pdf []byte) *learning.UploadResult {
	text, err := s.extractor.Extract(ctx, pdf)
	if err != nil {
		s.log.Warn("syllabus text extraction failed", "filename", filename, "error", err)
		return &learning.UploadResult{Error: fmt.Sprintf(errProcessingF, err.Error())}
	}
	if strings.TrimSpace(text) == "" {
		return &learning.UploadResult{Error: errNoText}
	}

	pieces := SplitIntoChunks(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if len(pieces) == 0 {
		return &learning.UploadResult{Error: errNoChunks}
	}

	doc, chunks, err := s.index(ctx, filename, pdf, text, pieces)
	if err != nil {
		s.log.Error("syllabus indexing failed", "filename", filename, "error", err)
		return &learning.UploadResult{Error: fmt.Sprintf(errProcessingF, err.Error())}
	}

	for _, c := range chunks {
		vec := decodeVector(c.Embedding)
		s.retriever.index.Add(c.ID, doc.ID, c.Content, vec)
	}
	s.metrics.AddIngestedChunks(len(chunks))
	s.log.Info("syllabus indexed", "document_id", doc.ID, "filename", filename, "chunks", len(chunks))

	return &learning.UploadResult{
		Message:     msgUploaded,
		TotalChunks: len(chunks),
		DocumentID:  doc.ID.String(),
	}
}

func (s *Ingestor) index(ctx context.Context, filename string, pdf []byte, text string, pieces []string) (*types.Document, []types.Chunk, error) {
	doc := &types.Document{
		ID:        uuid.New(),
		Filename:  filename,
		TextBytes: len(text),
		Embedder:  s.embedder.Name(),
	}

	if s.store != nil {
		key := "syllabus/" + doc.ID.String() + ".pdf"
		if err := s.store.Put(ctx, key, bytes.NewReader(pdf)); err != nil {
			// The archive copy is not needed for retrieval.
			s.log.Warn("syllabus archive failed", "key", key, "error", err)
		} else {
			doc.StorageKey = key
		}
	}

	chunks := make([]types.Chunk, 0, len(pieces))
	for start := 0; start < len(pieces); start += embedBatchSize {
		end := min(start+embedBatchSize, len(pieces))
		vecs, err := s.embedder.Embed(ctx, pieces[start:end])
		if err != nil {
			return nil, nil, fmt.Errorf("embed chunks: %w", err)
		}
		if len(vecs) != end-start {
			return nil, nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vecs), end-start)
		}
		for i, v := range vecs {
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, nil, fmt.Errorf("encode embedding: %w", err)
			}
			chunks = append(chunks, types.Chunk{ID: uuid.New(), Content: pieces[start+i], Embedding: raw})
		}
	}

	if err := s.repo.CreateDocument(ctx, doc, chunks); err != nil {
		return nil, nil, fmt.Errorf("store document: %w", err)
	}
	return doc, chunks, nil
}

func decodeVector(raw []byte) []float32 {
	var v []float32
	_ = json.Unmarshal(raw, &v)
	return v
}
