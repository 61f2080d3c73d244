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

type TechStackService interface {
	Recommend(ctx context.Context, projectType, requirements string) (learning.TechResult, error)
	Compare(ctx context.Context, tech1, tech2, useCase string) (learning.TechResult, error)
	Explain(ctx context.Context, concept, depth string) (learning.TechResult, error)
	CodeGuide(ctx context.Context, task, technology string) (learning.TechResult, error)
}

var stackTemplates = map[string]map[string][]string{
	"web_app": {
		"frontend":   {"React", "Vue.js", "Angular", "Next.js"},
		"backend":    {"Node.js/Express", "Python/FastAPI", "Python/Django", "Java/Spring"},
		"database":   {"PostgreSQL", "MongoDB", "MySQL", "Firebase"},
		"deployment": {"Vercel", "AWS", "Heroku", "Docker"},
	},
	"ml_project": {
		"framework":     {"TensorFlow", "PyTorch", "Scikit-learn", "Keras"},
		"data":          {"Pandas", "NumPy", "Polars"},
		"visualization": {"Matplotlib", "Seaborn", "Plotly"},
		"deployment":    {"Flask", "FastAPI", "Streamlit", "Gradio"},
	},
	"mobile_app": {
		"cross_platform": {"React Native", "Flutter", "Expo"},
		"native_android": {"Kotlin", "Java"},
		"native_ios":     {"Swift", "SwiftUI"},
		"backend":        {"Firebase", "Supabase", "Node.js"},
	},
	"data_engineering": {
		"processing":    {"Apache Spark", "Apache Kafka", "Airflow"},
		"storage":       {"HDFS", "S3", "Delta Lake"},
		"database":      {"PostgreSQL", "Cassandra", "ClickHouse"},
		"orchestration": {"Airflow", "Prefect", "Dagster"},
	},
}

// StackTemplate returns the candidate technologies for a project type such
// as "web app" or "ml_project", or nil.
func StackTemplate(projectType string) map[string][]string {
	return stackTemplates[strings.ReplaceAll(normalize(projectType), " ", "_")]
}

// Depth normalizes an explanation depth, defaulting to intermediate.
func Depth(depth string) string {
	depth = normalize(depth)
	if _, ok := depthInstructions[depth]; ok {
		return depth
	}
	return "intermediate"
}

const techK = 3

type techStackService struct {
	log       *logger.Logger
	answerer  *Answerer
	retriever Retriever
}

func NewTechStackService(baseLog *logger.Logger, answerer *Answerer, retriever Retriever) TechStackService {
	return &techStackService{
		log:       baseLog.With("service", "TechStackService"),
		answerer:  answerer,
		retriever: retriever,
	}
}

func (s *techStackService) background(ctx context.Context, k int, queries ...string) string {
	var qs []string
	for _, q := range queries {
		if strings.TrimSpace(q) != "" {
			qs = append(qs, q)
		}
	}
	return rag.FormatSources(s.retriever.MultiRetrieve(ctx, qs, k))
}

func orGeneral(background, fallback string) string {
	if background == "" {
		return fallback
	}
	return background
}

func (s *techStackService) Recommend(ctx context.Context, projectType, requirements string) (learning.TechResult, error) {
	out := learning.TechResult{Stage: learning.StageRecommend, ProjectType: projectType, Requirements: requirements}
	out.ReasoningTrace = append(out.ReasoningTrace, "🔍 Analyzing project: "+projectType)

	background := s.background(ctx, techK, projectType, projectType+" technologies", requirements)
	if background != "" {
		out.ReasoningTrace = append(out.ReasoningTrace, "✅ Syllabus context retrieved")
	} else {
		out.ReasoningTrace = append(out.ReasoningTrace, "📝 Using general knowledge")
	}

	out.Template = StackTemplate(projectType)
	prompt := recommendPrompt(projectType, requirements)
	if out.Template != nil {
		raw, _ := json.Marshal(out.Template)
		prompt += "\n\nConsider these options: " + string(raw)
	}

	out.ReasoningTrace = append(out.ReasoningTrace, "💡 Generating recommendations...")
	text, err := s.answerer.Mentor(llm.WithPurpose(ctx, "tech.recommend"), orGeneral(background, "General tech knowledge"), prompt)
	if err != nil {
		return out, fmt.Errorf("recommend stack: %w", err)
	}
	out.Recommendations = text
	out.ReasoningTrace = append(out.ReasoningTrace, "✅ Recommendations generated")
	return out, nil
}

func (s *techStackService) Compare(ctx context.Context, tech1, tech2, useCase string) (learning.TechResult, error) {
	out := learning.TechResult{Stage: learning.StageCompare, Tech1: tech1, Tech2: tech2}
	out.ReasoningTrace = append(out.ReasoningTrace, fmt.Sprintf("⚖️ Comparing: %s vs %s", tech1, tech2))

	background := s.background(ctx, techK, tech1, tech2, tech1+" vs "+tech2)
	text, err := s.answerer.Mentor(llm.WithPurpose(ctx, "tech.compare"), orGeneral(background, generalKnowledge), comparePrompt(tech1, tech2, useCase))
	if err != nil {
		return out, fmt.Errorf("compare technologies: %w", err)
	}
	out.Comparison = text
	out.ReasoningTrace = append(out.ReasoningTrace, "✅ Comparison generated")
	return out, nil
}

func (s *techStackService) Explain(ctx context.Context, concept, depth string) (learning.TechResult, error) {
	depth = Depth(depth)
	out := learning.TechResult{Stage: learning.StageExplain, Concept: concept, Depth: depth}
	out.ReasoningTrace = append(out.ReasoningTrace, fmt.Sprintf("📖 Explaining: %s (%s level)", concept, depth))

	background := s.background(ctx, 4, concept, concept+" explanation", concept+" how it works")
	if background != "" {
		out.ReasoningTrace = append(out.ReasoningTrace, "✅ Context from syllabus")
	}
	text, err := s.answerer.Mentor(llm.WithPurpose(ctx, "tech.explain"), orGeneral(background, generalKnowledge), conceptPrompt(concept, depth))
	if err != nil {
		return out, fmt.Errorf("explain concept: %w", err)
	}
	out.Explanation = text
	out.ReasoningTrace = append(out.ReasoningTrace, "✅ Explanation generated")
	return out, nil
}

func (s *techStackService) CodeGuide(ctx context.Context, task, technology string) (learning.TechResult, error) {
	out := learning.TechResult{Stage: learning.StageCodeGuide, Task: task, Technology: technology}
	out.ReasoningTrace = append(out.ReasoningTrace, fmt.Sprintf("🛠️ Code guidance: %s with %s", task, technology))

	background := s.background(ctx, techK, task, technology, technology+" "+task)
	text, err := s.answerer.Mentor(llm.WithPurpose(ctx, "tech.code"), orGeneral(background, generalKnowledge), codeGuidancePrompt(task, technology))
	if err != nil {
		return out, fmt.Errorf("code guidance: %w", err)
	}
	out.Guidance = text
	out.ReasoningTrace = append(out.ReasoningTrace, "✅ Guidance generated")
	return out, nil
}
