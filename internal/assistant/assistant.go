// Package assistant holds the LLM-backed agents behind the learning,
// research, project and tech-stack endpoints.
package assistant

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/campusai/teachassist/internal/rag"
)

// Retriever is the slice of rag.Retriever the agents use.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]rag.Hit, error)
	MultiRetrieve(ctx context.Context, queries []string, k int) []rag.Hit
}

const (
	msgTopicNotCovered = "This topic is not covered in the syllabus."
	msgLabNotFound     = "Lab experiment not found in syllabus."
	msgNoDeepContext   = "I couldn't find relevant information in the syllabus for this question."
	generalKnowledge   = "General knowledge"
)

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// cacheKey builds a stable key from a namespace and free-form parts.
func cacheKey(ns string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(normalize(p)))
		h.Write([]byte{0})
	}
	return ns + ":" + hex.EncodeToString(h.Sum(nil))[:24]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
