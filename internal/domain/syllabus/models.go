package syllabus

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is one uploaded syllabus PDF. Chunks of every document form the
// retrieval corpus.
type Document struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Filename   string    `gorm:"column:filename;size:512;not null" json:"filename"`
	StorageKey string    `gorm:"column:storage_key;size:1024" json:"storage_key"`
	ChunkCount int       `gorm:"column:chunk_count;not null;default:0" json:"chunk_count"`
	TextBytes  int       `gorm:"column:text_bytes;not null;default:0" json:"text_bytes"`
	Embedder   string    `gorm:"column:embedder;size:128" json:"embedder"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (Document) TableName() string { return "syllabus_document" }

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Chunk struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_syllabus_chunk_doc_seq" json:"document_id"`
	Seq        int       `gorm:"column:seq;not null;index:idx_syllabus_chunk_doc_seq" json:"seq"`
	Content    string    `gorm:"column:content;type:text;not null" json:"content"`
	// Embedding is a JSON array of float32.
	Embedding datatypes.JSON `gorm:"column:embedding" json:"-"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (Chunk) TableName() string { return "syllabus_chunk" }

func (c *Chunk) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
