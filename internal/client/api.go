package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/domain/progress"
)

// Health returns the body of GET /healthcheck.
func (c *Client) Health(ctx context.Context) (string, error) {
	raw, err := c.get(ctx, "health", "/healthcheck")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// UploadSyllabus sends a PDF. An {error} reply becomes a *BackendError and
// never a successful result.
func (c *Client) UploadSyllabus(ctx context.Context, filename string, pdf io.Reader) (learning.UploadResult, error) {
	const op = "upload syllabus"
	var out learning.UploadResult
	if pdf == nil || strings.TrimSpace(filename) == "" {
		return out, ErrEmptyInput
	}
	f := &form{file: &filePart{field: "file", filename: filepath.Base(filename), body: pdf}}
	raw, err := c.post(ctx, op, "/upload-syllabus/", f)
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if strings.TrimSpace(out.Message) == "" {
		return out, &BackendError{Op: op, Message: "upload returned no confirmation"}
	}
	return out, nil
}

func (c *Client) Ask(ctx context.Context, question string) (learning.AskResult, error) {
	const op = "ask"
	var out learning.AskResult
	if err := required(question); err != nil {
		return out, err
	}
	raw, err := c.post(ctx, op, "/ask/", (&form{}).set("question", question))
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if out.Content == "" {
		out.Content = out.Answer
	}
	if err := out.StageResult.Validate(); err != nil {
		return out, invalid(op, out.Stage, err)
	}
	return out, nil
}

// Learn requests one theory stage. userID is sent when set so the backend
// can record the activity.
func (c *Client) Learn(ctx context.Context, topic, stage, userID string) (learning.StageResult, error) {
	const op = "learn"
	if err := required(topic, stage); err != nil {
		return learning.StageResult{}, err
	}
	f := (&form{}).set("topic", topic).set("stage", stage)
	if strings.TrimSpace(userID) != "" {
		f.set("user_id", userID)
	}
	return c.stage(ctx, op, "/learn/", f)
}

func (c *Client) Lab(ctx context.Context, experiment, step string) (learning.LabResult, error) {
	const op = "lab"
	var out learning.LabResult
	if err := required(experiment, step); err != nil {
		return out, err
	}
	raw, err := c.post(ctx, op, "/lab/", (&form{}).set("experiment", experiment).set("step", step))
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if err := out.StageResult.Validate(); err != nil {
		return out, invalid(op, out.Stage, err)
	}
	return out, nil
}

func (c *Client) DeepResearch(ctx context.Context, topic string) (learning.DeepResearchResult, error) {
	const op = "deep research"
	var out learning.DeepResearchResult
	if err := required(topic); err != nil {
		return out, err
	}
	raw, err := c.post(ctx, op, "/deep-research/", (&form{}).set("topic", topic))
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if strings.TrimSpace(out.Content) == "" {
		return out, invalid(op, out.Stage, learning.ErrMissingContent)
	}
	return out, nil
}

type ChatRequest struct {
	Topic   string
	Message string
	// Context is the prior conversation as plain text.
	Context string
	// Action is ask, simplify, example or quiz.
	Action string
}

// Chat sends a follow-up. A quiz action needs only the topic.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (learning.StageResult, error) {
	const op = "chat"
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action == "" {
		action = "ask"
	}
	if err := required(req.Topic); err != nil {
		return learning.StageResult{}, err
	}
	if action != "quiz" {
		if err := required(req.Message); err != nil {
			return learning.StageResult{}, err
		}
	}
	f := (&form{}).set("topic", req.Topic).set("message", req.Message).set("context", req.Context).set("action", action)
	return c.stage(ctx, op, "/chat/", f)
}

func (c *Client) stage(ctx context.Context, op, path string, f *form) (learning.StageResult, error) {
	var out learning.StageResult
	raw, err := c.post(ctx, op, path, f)
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if err := out.Validate(); err != nil {
		return out, invalid(op, out.Stage, err)
	}
	return out, nil
}

// CreateSession asks the backend for a fresh identity and signed token.
func (c *Client) CreateSession(ctx context.Context) (learning.SessionGrant, error) {
	const op = "create session"
	var out learning.SessionGrant
	raw, err := c.post(ctx, op, "/session/", nil)
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if out.SessionID == "" || out.Token == "" {
		return out, &BackendError{Op: op, Message: "session response is incomplete"}
	}
	return out, nil
}

type Activity struct {
	UserID string
	Topic  string
	Type   progress.Activity
	Score  *int
	Total  *int
}

func (c *Client) TrackActivity(ctx context.Context, a Activity) (progress.TrackAck, error) {
	const op = "track activity"
	var out progress.TrackAck
	if err := required(a.UserID, a.Topic, string(a.Type)); err != nil {
		return out, err
	}
	f := (&form{}).set("user_id", a.UserID).set("topic", a.Topic).set("activity_type", string(a.Type))
	if a.Score != nil {
		f.set("score", strconv.Itoa(*a.Score))
	}
	if a.Total != nil {
		f.set("total", strconv.Itoa(*a.Total))
	}
	raw, err := c.post(ctx, op, "/progress/track", f)
	if err != nil {
		return out, err
	}
	return out, decode(op, raw, &out)
}

func (c *Client) Progress(ctx context.Context, userID string) (progress.View, error) {
	var out progress.View
	return out, c.progressGet(ctx, "progress", userID, "", &out)
}

func (c *Client) Recommendations(ctx context.Context, userID string) (progress.Recommendations, error) {
	var out progress.Recommendations
	return out, c.progressGet(ctx, "recommendations", userID, "/recommendations", &out)
}

func (c *Client) Analytics(ctx context.Context, userID string) (progress.Analytics, error) {
	var out progress.Analytics
	return out, c.progressGet(ctx, "analytics", userID, "/analytics", &out)
}

func (c *Client) Performance(ctx context.Context, userID string) (progress.Performance, error) {
	var out progress.Performance
	return out, c.progressGet(ctx, "performance", userID, "/performance", &out)
}

func (c *Client) progressGet(ctx context.Context, op, userID, suffix string, out any) error {
	if err := required(userID); err != nil {
		return err
	}
	raw, err := c.get(ctx, op, "/progress/"+pathEscape(userID)+suffix)
	if err != nil {
		return err
	}
	return decode(op, raw, out)
}

func (c *Client) ProjectIdeas(ctx context.Context, subjects string) (learning.ProjectIdeasResult, error) {
	const op = "project ideas"
	var out learning.ProjectIdeasResult
	if err := required(subjects); err != nil {
		return out, err
	}
	raw, err := c.post(ctx, op, "/project/ideas", (&form{}).set("subjects", subjects))
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if len(out.Projects) == 0 && strings.TrimSpace(out.Content) == "" {
		return out, invalid(op, out.Stage, errors.New("no project ideas returned"))
	}
	return out, nil
}

func (c *Client) ProjectDetails(ctx context.Context, title, stage string) (learning.ProjectDetailsResult, error) {
	const op = "project details"
	var out learning.ProjectDetailsResult
	if err := required(title); err != nil {
		return out, err
	}
	f := (&form{}).set("project_title", title)
	if strings.TrimSpace(stage) != "" {
		f.set("stage", stage)
	}
	raw, err := c.post(ctx, op, "/project/details", f)
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if strings.TrimSpace(out.Content) == "" {
		return out, invalid(op, out.Stage, learning.ErrMissingContent)
	}
	return out, nil
}

func (c *Client) ResearchTopic(ctx context.Context, topic string, includePapers bool) (learning.ResearchResult, error) {
	const op = "research topic"
	var out learning.ResearchResult
	if err := required(topic); err != nil {
		return out, err
	}
	f := (&form{}).set("topic", topic).set("include_papers", strconv.FormatBool(includePapers))
	raw, err := c.post(ctx, op, "/research/topic", f)
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if strings.TrimSpace(out.Explanation) == "" {
		return out, invalid(op, out.Stage, learning.ErrMissingContent)
	}
	return out, nil
}

func (c *Client) SearchPapers(ctx context.Context, query string) (learning.PapersResult, error) {
	const op = "search papers"
	var out learning.PapersResult
	if err := required(query); err != nil {
		return out, err
	}
	raw, err := c.post(ctx, op, "/research/papers", (&form{}).set("query", query))
	if err != nil {
		return out, err
	}
	return out, decode(op, raw, &out)
}

// SummarizePapers asks for a literature summary. With no papers the backend
// searches the topic itself.
func (c *Client) SummarizePapers(ctx context.Context, topic string, papers []learning.Paper) (learning.SummaryResult, error) {
	const op = "summarize papers"
	var out learning.SummaryResult
	if err := required(topic); err != nil {
		return out, err
	}
	f := (&form{}).set("topic", topic)
	if len(papers) > 0 {
		b, err := json.Marshal(papers)
		if err != nil {
			return out, fmt.Errorf("%s: encode papers: %w", op, err)
		}
		f.set("papers", string(b))
	}
	raw, err := c.post(ctx, op, "/research/summarize", f)
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if strings.TrimSpace(out.Content) == "" {
		return out, invalid(op, out.Stage, learning.ErrMissingContent)
	}
	return out, nil
}

func (c *Client) TechRecommend(ctx context.Context, projectType, requirements string) (learning.TechResult, error) {
	if err := required(projectType); err != nil {
		return learning.TechResult{}, err
	}
	return c.tech(ctx, "tech recommend", "/tech-stack/recommend",
		(&form{}).set("project_type", projectType).set("requirements", requirements))
}

func (c *Client) TechCompare(ctx context.Context, tech1, tech2, useCase string) (learning.TechResult, error) {
	if err := required(tech1, tech2); err != nil {
		return learning.TechResult{}, err
	}
	return c.tech(ctx, "tech compare", "/tech-stack/compare",
		(&form{}).set("tech1", tech1).set("tech2", tech2).set("context", useCase))
}

func (c *Client) TechExplain(ctx context.Context, concept, depth string) (learning.TechResult, error) {
	if err := required(concept); err != nil {
		return learning.TechResult{}, err
	}
	f := (&form{}).set("concept", concept)
	if strings.TrimSpace(depth) != "" {
		f.set("depth", depth)
	}
	return c.tech(ctx, "tech explain", "/tech-stack/explain", f)
}

func (c *Client) CodeHelp(ctx context.Context, task, technology string) (learning.TechResult, error) {
	if err := required(task, technology); err != nil {
		return learning.TechResult{}, err
	}
	return c.tech(ctx, "code help", "/tech-stack/code-help",
		(&form{}).set("task", task).set("technology", technology))
}

func (c *Client) tech(ctx context.Context, op, path string, f *form) (learning.TechResult, error) {
	var out learning.TechResult
	raw, err := c.post(ctx, op, path, f)
	if err != nil {
		return out, err
	}
	if err := decode(op, raw, &out); err != nil {
		return out, err
	}
	if strings.TrimSpace(out.Body()) == "" {
		return out, invalid(op, out.Stage, learning.ErrMissingContent)
	}
	return out, nil
}
