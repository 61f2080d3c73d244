package rag

import (
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Hit is one retrieved chunk.
type Hit struct {
	ChunkID    uuid.UUID
	DocumentID uuid.UUID
	Content    string
	Score      float64
}

type entry struct {
	chunkID uuid.UUID
	docID   uuid.UUID
	content string
	vec     []float32
	norm    float64
}

// Index is an in-memory cosine-similarity index over chunk embeddings.
type Index struct {
	mu      sync.RWMutex
	entries []entry
}

func NewIndex() *Index { return &Index{} }

func (ix *Index) Add(chunkID, docID uuid.UUID, content string, vec []float32) {
	e := entry{chunkID: chunkID, docID: docID, content: content, vec: vec, norm: l2(vec)}
	ix.mu.Lock()
	ix.entries = append(ix.entries, e)
	ix.mu.Unlock()
}

// Reset drops every entry.
func (ix *Index) Reset() {
	ix.mu.Lock()
	ix.entries = nil
	ix.mu.Unlock()
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Search returns at most k hits, best first. A positive minScore drops
// weaker matches. Ties keep insertion order.
func (ix *Index) Search(query []float32, k int, minScore float64) []Hit {
	if k <= 0 {
		return nil
	}
	qn := l2(query)
	if qn == 0 {
		return nil
	}
	ix.mu.RLock()
	hits := make([]Hit, 0, len(ix.entries))
	for _, e := range ix.entries {
		if e.norm == 0 || len(e.vec) != len(query) {
			continue
		}
		score := dot(query, e.vec) / (qn * e.norm)
		if minScore > 0 && score < minScore {
			continue
		}
		hits = append(hits, Hit{ChunkID: e.chunkID, DocumentID: e.docID, Content: e.content, Score: score})
	}
	ix.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func l2(v []float32) float64 { return math.Sqrt(dot(v, v)) }
