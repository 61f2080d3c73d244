package assistant

import (
	"context"
	"strings"
	"testing"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/platform/logger"
)

func TestStackTemplate(t *testing.T) {
	if tpl := StackTemplate("Web App"); len(tpl["frontend"]) != 4 || tpl["frontend"][0] != "React" {
		t.Fatalf("web app template = %v", tpl)
	}
	if tpl := StackTemplate("data_engineering"); tpl["orchestration"][2] != "Dagster" {
		t.Fatalf("data engineering template = %v", tpl)
	}
	if StackTemplate("game") != nil {
		t.Fatal("unknown project type should have no template")
	}
}

func TestTechStackOperations(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Handler = func(llm.Request) llm.MockResponse { return llm.MockResponse{Text: "markdown"} }
	svc := NewTechStackService(logger.Nop(), newAnswerer(mock), &fakeRetriever{})
	ctx := context.Background()

	rec, err := svc.Recommend(ctx, "ml project", "")
	if err != nil || rec.Stage != learning.StageRecommend || rec.Body() != "markdown" || rec.Template == nil {
		t.Fatalf("recommend = %+v, %v", rec, err)
	}
	if !strings.Contains(mock.LastCall().Messages[0].Content, "Consider these options:") {
		t.Fatal("template should be offered to the model")
	}

	cmp, err := svc.Compare(ctx, "Go", "Rust", "")
	if err != nil || cmp.Stage != learning.StageCompare || cmp.Tech1 != "Go" || cmp.Body() != "markdown" {
		t.Fatalf("compare = %+v, %v", cmp, err)
	}

	exp, err := svc.Explain(ctx, "Closures", "expert")
	if err != nil || exp.Stage != learning.StageExplain || exp.Depth != "intermediate" {
		t.Fatalf("explain = %+v, %v", exp, err)
	}

	code, err := svc.CodeGuide(ctx, "parse JSON", "Go")
	if err != nil || code.Stage != learning.StageCodeGuide || code.Guidance != "markdown" || len(code.ReasoningTrace) != 2 {
		t.Fatalf("code = %+v, %v", code, err)
	}
}
