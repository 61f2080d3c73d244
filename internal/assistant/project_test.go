package assistant

import (
	"context"
	"testing"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/platform/logger"
)

func TestProjectIdeas(t *testing.T) {
	ideas := "```json\n" + `{"projects":[{"id":1,"title":"Smart Campus","description":"d","subjects_used":["IoT"],"difficulty":"Medium","innovation":"i"}]}` + "\n```"
	mock := llm.NewMockProvider(llm.MockResponse{Text: ideas}, llm.MockResponse{Text: "## Idea 1\nA markdown list"})
	ret := &fakeRetriever{}
	svc := NewProjectService(logger.Nop(), newAnswerer(mock), ret)
	ctx := context.Background()

	res, err := svc.Ideas(ctx, "IoT, Machine Learning ,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stage != learning.StageIdeas || len(res.Projects) != 1 || res.Projects[0].Title != "Smart Campus" || res.Content != "" {
		t.Fatalf("got %+v", res)
	}
	if len(res.SubjectsAnalyzed) != 2 || res.SubjectsAnalyzed[1] != "Machine Learning" {
		t.Fatalf("subjects = %v", res.SubjectsAnalyzed)
	}
	if len(ret.queries) != 4 || ret.queries[3] != "Machine Learning applications" {
		t.Fatalf("queries = %v", ret.queries)
	}

	res, err = svc.Ideas(ctx, "IoT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Projects != nil || res.Content == "" {
		t.Fatalf("expected markdown fallback, got %+v", res)
	}
}

func TestProjectDetailsStages(t *testing.T) {
	cases := map[string]learning.Stage{
		"roadmap":  learning.StageRoadmap,
		"Concepts": learning.StageConcepts,
		"":         learning.StageDetailed,
		"budget":   learning.StageDetailed,
	}
	for in, want := range cases {
		mock := llm.NewMockProvider(llm.MockResponse{Text: "content"})
		svc := NewProjectService(logger.Nop(), newAnswerer(mock), &fakeRetriever{})
		res, err := svc.Details(context.Background(), "Chat App", in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if res.Stage != want || res.ProjectTitle != "Chat App" || res.Content != "content" {
			t.Fatalf("%q: got %+v", in, res)
		}
	}
}
