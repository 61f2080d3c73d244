package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/campusai/teachassist/internal/domain/learning"
)

// calls records service invocations as "op|arg|arg" strings.
type calls struct {
	mu  sync.Mutex
	log []string
}

func (c *calls) record(parts ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, strings.Join(parts, "|"))
}

func (c *calls) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}

type fakeResearch struct{ calls }

func (f *fakeResearch) ResearchTopic(_ context.Context, topic string, includePapers bool) (learning.ResearchResult, error) {
	f.record("topic", topic, strconv.FormatBool(includePapers))
	return learning.ResearchResult{Stage: learning.StageResearch, Topic: topic}, nil
}

func (f *fakeResearch) SearchPapers(_ context.Context, query string) learning.PapersResult {
	f.record("papers", query)
	return learning.PapersResult{
		Stage:  learning.StagePapers,
		Query:  query,
		Papers: []learning.Paper{{Title: "Found", Source: "arxiv"}},
		Total:  1,
	}
}

func (f *fakeResearch) Summarize(_ context.Context, topic string, papers []learning.Paper) (learning.SummaryResult, error) {
	titles := make([]string, len(papers))
	for i, p := range papers {
		titles[i] = p.Title
	}
	f.record("summarize", topic, strings.Join(titles, ","))
	return learning.SummaryResult{Stage: learning.StageSummary, Topic: topic, PapersAnalyzed: len(papers)}, nil
}

type fakeProjects struct{ calls }

func (f *fakeProjects) Ideas(_ context.Context, subjects string) (learning.ProjectIdeasResult, error) {
	f.record("ideas", subjects)
	return learning.ProjectIdeasResult{Stage: learning.StageIdeas, Content: "ideas"}, nil
}

func (f *fakeProjects) Details(_ context.Context, title, stage string) (learning.ProjectDetailsResult, error) {
	f.record("details", title, stage)
	return learning.ProjectDetailsResult{Stage: learning.StageDetailed, ProjectTitle: title}, nil
}

type fakeTech struct{ calls }

func (f *fakeTech) Recommend(_ context.Context, projectType, requirements string) (learning.TechResult, error) {
	f.record("recommend", projectType, requirements)
	return learning.TechResult{Stage: learning.StageRecommend}, nil
}

func (f *fakeTech) Compare(_ context.Context, tech1, tech2, useCase string) (learning.TechResult, error) {
	f.record("compare", tech1, tech2, useCase)
	return learning.TechResult{Stage: learning.StageCompare}, nil
}

func (f *fakeTech) Explain(_ context.Context, concept, depth string) (learning.TechResult, error) {
	f.record("explain", concept, depth)
	return learning.TechResult{Stage: learning.StageExplain}, nil
}

func (f *fakeTech) CodeGuide(_ context.Context, task, technology string) (learning.TechResult, error) {
	f.record("code", task, technology)
	return learning.TechResult{Stage: learning.StageCodeGuide}, nil
}

func TestAssistantRoutesBindFormFields(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		fields map[string]string
		calls  func(ts *testServer) []string
		want   []string
		stage  learning.Stage
	}{
		{
			name:   "research topic without papers",
			path:   "/research/topic",
			fields: map[string]string{"topic": "Transformers", "include_papers": "false"},
			calls:  func(ts *testServer) []string { return ts.research.all() },
			want:   []string{"topic|Transformers|false"},
			stage:  learning.StageResearch,
		},
		{
			name:   "research topic includes papers by default",
			path:   "/research/topic",
			fields: map[string]string{"topic": "Transformers"},
			calls:  func(ts *testServer) []string { return ts.research.all() },
			want:   []string{"topic|Transformers|true"},
			stage:  learning.StageResearch,
		},
		{
			name:   "paper search",
			path:   "/research/papers",
			fields: map[string]string{"query": "graph neural networks"},
			calls:  func(ts *testServer) []string { return ts.research.all() },
			want:   []string{"papers|graph neural networks"},
			stage:  learning.StagePapers,
		},
		{
			name:   "summarize given papers",
			path:   "/research/summarize",
			fields: map[string]string{"topic": "GNNs", "papers": `[{"title":"A"},{"title":"B"}]`},
			calls:  func(ts *testServer) []string { return ts.research.all() },
			want:   []string{"summarize|GNNs|A,B"},
			stage:  learning.StageSummary,
		},
		{
			name:   "summarize searches when papers are absent",
			path:   "/research/summarize",
			fields: map[string]string{"topic": "GNNs"},
			calls:  func(ts *testServer) []string { return ts.research.all() },
			want:   []string{"papers|GNNs", "summarize|GNNs|Found"},
			stage:  learning.StageSummary,
		},
		{
			name:   "project ideas",
			path:   "/project/ideas",
			fields: map[string]string{"subjects": "DBMS, Networks"},
			calls:  func(ts *testServer) []string { return ts.projects.all() },
			want:   []string{"ideas|DBMS, Networks"},
			stage:  learning.StageIdeas,
		},
		{
			name:   "project details default stage",
			path:   "/project/details",
			fields: map[string]string{"project_title": "Campus Chat"},
			calls:  func(ts *testServer) []string { return ts.projects.all() },
			want:   []string{"details|Campus Chat|detailed"},
			stage:  learning.StageDetailed,
		},
		{
			name:   "project roadmap",
			path:   "/project/details",
			fields: map[string]string{"project_title": "Campus Chat", "stage": "roadmap"},
			calls:  func(ts *testServer) []string { return ts.projects.all() },
			want:   []string{"details|Campus Chat|roadmap"},
			stage:  learning.StageDetailed,
		},
		{
			name:   "stack recommend",
			path:   "/tech-stack/recommend",
			fields: map[string]string{"project_type": "web_app", "requirements": "realtime"},
			calls:  func(ts *testServer) []string { return ts.tech.all() },
			want:   []string{"recommend|web_app|realtime"},
			stage:  learning.StageRecommend,
		},
		{
			name:   "stack compare",
			path:   "/tech-stack/compare",
			fields: map[string]string{"tech1": "Go", "tech2": "Rust", "context": "CLIs"},
			calls:  func(ts *testServer) []string { return ts.tech.all() },
			want:   []string{"compare|Go|Rust|CLIs"},
			stage:  learning.StageCompare,
		},
		{
			name:   "stack explain default depth",
			path:   "/tech-stack/explain",
			fields: map[string]string{"concept": "CAP theorem"},
			calls:  func(ts *testServer) []string { return ts.tech.all() },
			want:   []string{"explain|CAP theorem|intermediate"},
			stage:  learning.StageExplain,
		},
		{
			name:   "stack code help",
			path:   "/tech-stack/code-help",
			fields: map[string]string{"task": "rate limiter", "technology": "Go"},
			calls:  func(ts *testServer) []string { return ts.tech.all() },
			want:   []string{"code|rate limiter|Go"},
			stage:  learning.StageCodeGuide,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, false)
			rec := ts.do(postMultipart(t, tc.path, tc.fields, "", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
			var got struct {
				Stage learning.Stage `json:"stage"`
			}
			decode(t, rec, &got)
			if got.Stage != tc.stage {
				t.Fatalf("stage = %q, want %q", got.Stage, tc.stage)
			}
			seen := tc.calls(ts)
			if strings.Join(seen, "\n") != strings.Join(tc.want, "\n") {
				t.Fatalf("calls = %q, want %q", seen, tc.want)
			}
		})
	}
}

func TestAssistantRoutesRequireFields(t *testing.T) {
	cases := []struct {
		path    string
		fields  map[string]string
		missing string
	}{
		{"/research/topic", nil, "topic"},
		{"/research/papers", map[string]string{"topic": "wrong field"}, "query"},
		{"/research/summarize", nil, "topic"},
		{"/project/ideas", nil, "subjects"},
		{"/project/details", map[string]string{"title": "wrong field"}, "project_title"},
		{"/tech-stack/recommend", map[string]string{"requirements": "fast"}, "project_type"},
		{"/tech-stack/compare", map[string]string{"tech1": "Go"}, "tech2"},
		{"/tech-stack/explain", map[string]string{"depth": "advanced"}, "concept"},
		{"/tech-stack/code-help", map[string]string{"task": "parser"}, "technology"},
	}

	for _, tc := range cases {
		t.Run(tc.path+" "+tc.missing, func(t *testing.T) {
			ts := newTestServer(t, false)
			rec := ts.do(postMultipart(t, tc.path, tc.fields, "", nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var env struct {
				Error struct{ Message, Code string } `json:"error"`
			}
			decode(t, rec, &env)
			if env.Error.Code != "missing_field" || !strings.Contains(env.Error.Message, tc.missing) {
				t.Fatalf("envelope = %+v", env)
			}
			if n := len(ts.research.all()) + len(ts.projects.all()) + len(ts.tech.all()); n != 0 {
				t.Fatalf("services called %d times on a rejected request", n)
			}
		})
	}
}

func TestSummarizeRejectsMalformedPapers(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(postMultipart(t, "/research/summarize", map[string]string{"topic": "GNNs", "papers": "not json"}, "", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if seen := ts.research.all(); len(seen) != 0 {
		t.Fatalf("calls = %q", seen)
	}
}
