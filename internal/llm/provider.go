package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates text or schema-constrained JSON from a prompt.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System   string
	Messages []Message
	// Schema, when set, asks the provider for JSON matching the definition.
	// The returned Content is validated before Generate returns.
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt is the common single-turn request.
func UserPrompt(system, prompt string, maxTokens int, temperature float64) Request {
	return Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

type Schema struct {
	// Name is used as the cache key and the provider-side schema name.
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Text is the raw model output.
	Text string
	// Content holds validated JSON when the request carried a Schema.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Decode unmarshals the structured content into out.
func (r *Response) Decode(out any) error {
	if r == nil || len(r.Content) == 0 {
		return &ErrInvalidResponse{Err: fmt.Errorf("response has no structured content")}
	}
	if err := json.Unmarshal(r.Content, out); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish builds a Response, validating structured output when requested.
func finish(req Request, text string, usage Usage, model, stop string) (*Response, error) {
	resp := &Response{Text: text, Usage: usage, Model: model, StopReason: stop}
	if req.Schema != nil {
		content := json.RawMessage(text)
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
		resp.Content = content
	}
	return resp, nil
}
