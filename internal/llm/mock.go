package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response. Text is returned verbatim; for schema
// requests it is also validated as JSON.
type MockResponse struct {
	Text  string
	Usage Usage
	Err   error
}

// JSONResponse marshals v as a canned structured response.
func JSONResponse(v any) MockResponse {
	raw, err := json.Marshal(v)
	if err != nil {
		return MockResponse{Err: err}
	}
	return MockResponse{Text: string(raw)}
}

// MockProvider returns canned responses in FIFO order and records every
// request. When the queue is empty it falls back to Handler, if set.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Handler   func(Request) MockResponse
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.Handler != nil:
		h := m.Handler
		m.mu.Unlock()
		resp = h(req)
		m.mu.Lock()
	default:
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	m.mu.Unlock()

	if resp.Err != nil {
		return nil, resp.Err
	}
	return finish(req, resp.Text, resp.Usage, "mock", "end")
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or a zero Request.
func (m *MockProvider) LastCall() Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}
	}
	return m.Calls[len(m.Calls)-1]
}
