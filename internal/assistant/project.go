package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/llm"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/rag"
)

type ProjectService interface {
	Ideas(ctx context.Context, subjects string) (learning.ProjectIdeasResult, error)
	Details(ctx context.Context, title, stage string) (learning.ProjectDetailsResult, error)
}

const projectK = 4

type projectService struct {
	log       *logger.Logger
	answerer  *Answerer
	retriever Retriever
}

func NewProjectService(baseLog *logger.Logger, answerer *Answerer, retriever Retriever) ProjectService {
	return &projectService{
		log:       baseLog.With("service", "ProjectService"),
		answerer:  answerer,
		retriever: retriever,
	}
}

// SplitSubjects parses a comma separated subject list.
func SplitSubjects(subjects string) []string {
	var out []string
	for _, s := range strings.Split(subjects, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *projectService) Ideas(ctx context.Context, subjects string) (learning.ProjectIdeasResult, error) {
	list := SplitSubjects(subjects)
	out := learning.ProjectIdeasResult{Stage: learning.StageIdeas, SubjectsAnalyzed: list}
	trace := func(format string, args ...any) {
		out.ReasoningTrace = append(out.ReasoningTrace, fmt.Sprintf(format, args...))
	}

	trace("🧠 Analyzing subjects for project ideation...")
	queries := append([]string{}, list...)
	for _, sub := range list {
		queries = append(queries, sub+" applications")
	}
	trace("📋 Topics to explore: %s", strings.Join(queries, "; "))

	trace("🔍 Retrieving context...")
	background := rag.FormatSources(s.retriever.MultiRetrieve(ctx, queries, projectK))
	if background != "" {
		trace("✅ Context retrieved from syllabus")
	} else {
		trace("📝 No syllabus uploaded - using general knowledge")
		background = fmt.Sprintf("The student wants to build a project related to: %s. Suggest innovative and practical project ideas.", subjects)
	}

	trace("💡 Generating project ideas...")
	prompt := projectIdeasPrompt + "\n\nSubjects requested: " + subjects + "\n\nContext:\n" + background
	raw, err := s.answerer.Mentor(llm.WithPurpose(ctx, "project.ideas"), background, prompt)
	if err != nil {
		return out, fmt.Errorf("generate ideas: %w", err)
	}

	var parsed struct {
		Projects []learning.ProjectIdea `json:"projects"`
	}
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &parsed); err != nil {
		trace("⚠️ Returning as formatted text")
		out.Content = raw
		return out, nil
	}
	out.Projects = parsed.Projects
	if out.Projects == nil {
		out.Projects = []learning.ProjectIdea{}
	}
	trace("✅ Generated %d project ideas", len(out.Projects))
	return out, nil
}

// ProjectStage maps a requested detail stage to a known one; anything
// unrecognised means "detailed".
func ProjectStage(stage string) string {
	stage = normalize(stage)
	if _, ok := projectDetailPrompts[stage]; ok {
		return stage
	}
	return "detailed"
}

func (s *projectService) Details(ctx context.Context, title, stage string) (learning.ProjectDetailsResult, error) {
	stage = ProjectStage(stage)
	out := learning.ProjectDetailsResult{Stage: learning.Stage(strings.ToUpper(stage)), ProjectTitle: title}
	trace := func(format string, args ...any) {
		out.ReasoningTrace = append(out.ReasoningTrace, fmt.Sprintf(format, args...))
	}

	trace("🔍 Researching: %s", title)
	queries := []string{title, title + " implementation", title + " requirements"}
	background := rag.FormatSources(s.retriever.MultiRetrieve(ctx, queries, projectK))
	if background == "" {
		background = fmt.Sprintf("Provide detailed information about building a %s project.", title)
	}
	trace("✅ Context gathered")

	trace("💭 Generating %s information...", stage)
	prompt := projectDetailPrompts[stage] + "\n\nProject: " + title + "\n\nContext:\n" + background
	content, err := s.answerer.Mentor(llm.WithPurpose(ctx, "project."+stage), background, prompt)
	if err != nil {
		return out, fmt.Errorf("project %s: %w", stage, err)
	}
	out.Content = content
	trace("✅ Response generated")
	return out, nil
}
