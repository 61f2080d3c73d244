package syllabus

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/campusai/teachassist/internal/domain/syllabus"
	"github.com/campusai/teachassist/internal/platform/dbctx"
	"github.com/campusai/teachassist/internal/platform/logger"
)

type Repo interface {
	// CreateDocument stores the document and its chunks atomically.
	CreateDocument(ctx context.Context, doc *types.Document, chunks []types.Chunk) error
	ListDocuments(dbc dbctx.Context, limit int) ([]types.Document, error)
	CountChunks(dbc dbctx.Context) (int64, error)
	// ListChunks returns every chunk of every document, oldest document first.
	ListChunks(dbc dbctx.Context) ([]types.Chunk, error)
	ListChunksByDocument(dbc dbctx.Context, documentID uuid.UUID) ([]types.Chunk, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{
		db:  db,
		log: baseLog.With("repo", "SyllabusRepo"),
	}
}

const chunkBatchSize = 200

func (r *repo) CreateDocument(ctx context.Context, doc *types.Document, chunks []types.Chunk) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc.ChunkCount = len(chunks)
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		for i := range chunks {
			chunks[i].DocumentID = doc.ID
			chunks[i].Seq = i
		}
		return tx.CreateInBatches(chunks, chunkBatchSize).Error
	})
}

func (r *repo) ListDocuments(dbc dbctx.Context, limit int) ([]types.Document, error) {
	var rows []types.Document
	q := dbc.DB(r.db).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repo) CountChunks(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Chunk{}).Count(&n).Error
	return n, err
}

func (r *repo) ListChunks(dbc dbctx.Context) ([]types.Chunk, error) {
	var rows []types.Chunk
	err := dbc.DB(r.db).
		Select("syllabus_chunk.*").
		Joins("JOIN syllabus_document d ON d.id = syllabus_chunk.document_id").
		Order("d.created_at ASC, syllabus_chunk.seq ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repo) ListChunksByDocument(dbc dbctx.Context, documentID uuid.UUID) ([]types.Chunk, error) {
	var rows []types.Chunk
	err := dbc.DB(r.db).
		Where("document_id = ?", documentID).
		Order("seq ASC").
		Find(&rows).Error
	return rows, err
}
