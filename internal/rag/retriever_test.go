package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	syllabusrepo "github.com/campusai/teachassist/internal/data/repos/syllabus"
	"github.com/campusai/teachassist/internal/data/repos/testutil"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/dbctx"
	"github.com/campusai/teachassist/internal/platform/objectstore"
)

type staticExtractor struct {
	text string
	err  error
}

func (s staticExtractor) Extract(context.Context, []byte) (string, error) { return s.text, s.err }

const syllabusText = `Unit 1: Sorting algorithms. Merge sort divides the array and merges sorted halves.
Quick sort picks a pivot and partitions the array around it.

Unit 2: Graph algorithms. Dijkstra's algorithm finds shortest paths in weighted graphs.
Breadth first search explores a graph level by level.

Unit 3: Operating systems. Process scheduling decides which process runs on the CPU.
Round robin scheduling gives every process a fixed time slice.`

func newTestIngestor(t *testing.T, ex TextExtractor) (*Ingestor, *Retriever, syllabusrepo.Repo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := syllabusrepo.NewRepo(db, log)
	store, err := objectstore.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	emb := llm.NewHashEmbedder(512)
	ret := NewRetriever(log, emb, repo, RetrieverConfig{TopK: 2})
	ing := NewIngestor(log, ex, store, repo, emb, ret, observability.NewMetrics(), IngestConfig{ChunkSize: 200, ChunkOverlap: 0})
	return ing, ret, repo
}

func TestUploadIndexesAndRetrieves(t *testing.T) {
	ing, ret, repo := newTestIngestor(t, staticExtractor{text: syllabusText})
	ctx := context.Background()

	res := ing.Upload(ctx, "syllabus.pdf", []byte("%PDF-1.4"))
	if res.Error != "" {
		t.Fatalf("upload failed: %s", res.Error)
	}
	if res.Message != "Syllabus uploaded and indexed successfully" || res.TotalChunks < 2 {
		t.Fatalf("unexpected result: %+v", res)
	}

	docs, err := repo.ListDocuments(dbctx.Of(ctx), 0)
	if err != nil || len(docs) != 1 {
		t.Fatalf("documents = %v, %v", docs, err)
	}
	if !strings.HasPrefix(docs[0].StorageKey, "syllabus/") {
		t.Fatalf("storage key = %q", docs[0].StorageKey)
	}

	hits, err := ret.Retrieve(ctx, "shortest paths in weighted graphs", 1)
	if err != nil || len(hits) != 1 {
		t.Fatalf("retrieve = %v, %v", hits, err)
	}
	if !strings.Contains(hits[0].Content, "Dijkstra") {
		t.Fatalf("top hit = %q", hits[0].Content)
	}

	// A fresh retriever sees the same corpus after Load.
	fresh := NewRetriever(testutil.Logger(t), llm.NewHashEmbedder(512), repo, RetrieverConfig{})
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if fresh.index.Len() != res.TotalChunks {
		t.Fatalf("loaded %d chunks, want %d", fresh.index.Len(), res.TotalChunks)
	}
}

func TestUploadErrors(t *testing.T) {
	cases := []struct {
		name string
		ex   staticExtractor
		want string
	}{
		{"no text", staticExtractor{text: "  \n "}, "PDF contains no extractable text (possibly scanned)"},
		{"extract fails", staticExtractor{err: errors.New("boom")}, "Syllabus processing failed: boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ing, ret, _ := newTestIngestor(t, tc.ex)
			res := ing.Upload(context.Background(), "x.pdf", []byte("x"))
			if res.Error != tc.want {
				t.Fatalf("error = %q, want %q", res.Error, tc.want)
			}
			if !ret.Empty() {
				t.Fatal("failed upload must not index anything")
			}
		})
	}
}

func TestMultiRetrieveDedupesAndFormats(t *testing.T) {
	ing, ret, _ := newTestIngestor(t, staticExtractor{text: syllabusText})
	ctx := context.Background()
	if res := ing.Upload(ctx, "s.pdf", []byte("x")); res.Error != "" {
		t.Fatalf("upload: %s", res.Error)
	}

	hits := ret.MultiRetrieve(ctx, []string{"graph algorithms", "graph algorithms", "process scheduling"}, 3)
	seen := map[string]bool{}
	for _, h := range hits {
		if seen[h.Content] {
			t.Fatalf("duplicate source %q", h.Content)
		}
		seen[h.Content] = true
	}
	if len(hits) == 0 || len(hits) > MaxSources {
		t.Fatalf("got %d hits", len(hits))
	}

	formatted := FormatSources(hits)
	if !strings.HasPrefix(formatted, "Source 1:\n") {
		t.Fatalf("formatted = %q", formatted)
	}
	if got := CountSources(formatted); got != len(hits) {
		t.Fatalf("CountSources = %d, want %d", got, len(hits))
	}
	if CountSources("") != 0 || FormatSources(nil) != "" {
		t.Fatal("empty context should count zero sources")
	}
}

func TestRetrieveOnEmptyIndex(t *testing.T) {
	_, ret, _ := newTestIngestor(t, staticExtractor{})
	hits, err := ret.Retrieve(context.Background(), "anything", 4)
	if err != nil || hits != nil {
		t.Fatalf("got %v, %v", hits, err)
	}
}
