package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusai/teachassist/internal/llm"
)

const (
	syllabusSystemPrompt = `You are an AI Teaching Assistant.

Rules:
1. Answer ONLY using the provided syllabus context.
2. Do NOT use outside knowledge.
3. If the answer is not present in the syllabus, say:
   "This topic is not covered in the syllabus."
4. Keep answers clear, structured, and student-friendly.`

	mentorSystemPrompt = `You are an AI Teaching Assistant helping university students with research,
projects and technology choices. Prefer the provided syllabus context when it is relevant and
fill gaps with well-established general knowledge. Use markdown. Be accurate and practical.`

	defaultMaxTokens   = 1024
	defaultTemperature = 0.3
)

type AnswererConfig struct {
	MaxTokens   int
	Temperature float64
}

// Answerer wraps a provider with the two system prompts used by every
// agent: syllabus-only answers and mentor-style answers that may use
// general knowledge.
type Answerer struct {
	provider llm.Provider
	cfg      AnswererConfig
}

func NewAnswerer(p llm.Provider, cfg AnswererConfig) *Answerer {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	return &Answerer{provider: p, cfg: cfg}
}

// Answer asks a question restricted to the syllabus context.
func (a *Answerer) Answer(ctx context.Context, syllabus, question string) (string, error) {
	return a.generate(ctx, syllabusSystemPrompt, syllabus, question)
}

// Mentor answers with the context as a hint rather than a boundary.
func (a *Answerer) Mentor(ctx context.Context, background, task string) (string, error) {
	return a.generate(ctx, mentorSystemPrompt, background, task)
}

// Structured asks for JSON matching schema and decodes it into out.
func (a *Answerer) Structured(ctx context.Context, syllabus, task string, schema *llm.Schema, out any) error {
	req := llm.UserPrompt(syllabusSystemPrompt, userMessage(syllabus, task), a.cfg.MaxTokens, a.cfg.Temperature)
	req.Schema = schema
	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (a *Answerer) generate(ctx context.Context, system, background, task string) (string, error) {
	req := llm.UserPrompt(system, userMessage(background, task), a.cfg.MaxTokens, a.cfg.Temperature)
	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("model returned an empty answer")
	}
	return text, nil
}

func userMessage(syllabus, question string) string {
	return "SYLLABUS CONTEXT:\n" + syllabus + "\n\nQUESTION:\n" + question
}
