// Package client is a typed HTTP client for the teaching assistant backend.
// Every POST is sent as multipart/form-data; progress reads are GETs keyed
// by session id. Requests are never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/platform/logger"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	maxErrorBody   = 2048
)

type Config struct {
	BaseURL string
	// Timeout bounds a whole request. Zero leaves it to the caller's context.
	Timeout    time.Duration
	HTTPClient *http.Client
	Log        *logger.Logger
	// Token is sent as a bearer token when set.
	Token string
}

type Client struct {
	base string
	http *http.Client
	log  *logger.Logger

	mu    sync.RWMutex
	token string
}

func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		base:  base,
		http:  hc,
		log:   log.With("service", "BackendClient"),
		token: strings.TrimSpace(cfg.Token),
	}
}

func (c *Client) BaseURL() string { return c.base }

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type field struct {
	name  string
	value string
}

type filePart struct {
	field    string
	filename string
	body     io.Reader
}

// form is an ordered multipart body.
type form struct {
	fields []field
	file   *filePart
}

func (f *form) set(name, value string) *form {
	f.fields = append(f.fields, field{name: name, value: value})
	return f
}

func (f *form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fl := range f.fields {
		if err := w.WriteField(fl.name, fl.value); err != nil {
			return nil, "", err
		}
	}
	if f.file != nil {
		part, err := w.CreateFormFile(f.file.field, f.file.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.file.body); err != nil {
			return nil, "", fmt.Errorf("read %s: %w", f.file.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) post(ctx context.Context, op, path string, f *form) ([]byte, error) {
	if f == nil {
		f = &form{}
	}
	body, contentType, err := f.encode()
	if err != nil {
		return nil, fmt.Errorf("%s: encode form: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, op)
}

func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.do(req, op)
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "op", op, "error", err)
		return nil, &ConnectError{Op: op, Err: err}
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	c.log.Debug("request done", "op", op, "status", resp.StatusCode, "duration", time.Since(start))
	if readErr != nil {
		return nil, &ConnectError{Op: op, Err: readErr}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(op, resp.StatusCode, raw)
	}
	return raw, nil
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func httpError(op string, status int, raw []byte) *BackendError {
	be := &BackendError{Op: op, Status: status}
	var env errorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error.Message != "" {
		be.Message = env.Error.Message
		be.Code = env.Error.Code
		return be
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	be.Message = msg
	return be
}

// tagged is the discriminator every stage-tagged payload shares. Error
// covers the {error: ...} shape returned by upload.
type tagged struct {
	Stage   learning.Stage `json:"stage"`
	Content string         `json:"content"`
	Error   string         `json:"error"`
}

// decode unmarshals raw into out after turning backend-declared failures
// into a *BackendError.
func decode(op string, raw []byte, out any) error {
	var t tagged
	if err := json.Unmarshal(raw, &t); err != nil {
		return &BackendError{Op: op, Message: fmt.Sprintf("invalid response: %v", err)}
	}
	if t.Stage.Failed() {
		return &BackendError{Op: op, Stage: t.Stage, Message: learning.StageResult{Stage: t.Stage, Content: t.Content}.Message()}
	}
	if strings.TrimSpace(t.Error) != "" {
		return &BackendError{Op: op, Message: t.Error}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &BackendError{Op: op, Message: fmt.Sprintf("invalid response: %v", err)}
	}
	return nil
}

func invalid(op string, stage learning.Stage, err error) error {
	return &BackendError{Op: op, Stage: stage, Message: err.Error()}
}

func required(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return ErrEmptyInput
		}
	}
	return nil
}

func pathEscape(s string) string { return url.PathEscape(strings.TrimSpace(s)) }
