package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/learn/", "200", 120*time.Millisecond)
	m.ObserveLLM("quiz", errors.New("boom"), time.Second)
	m.IncActivity("quiz")
	m.AddIngestedChunks(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`teachassist_http_requests_total{method="POST",route="/learn/",status="200"} 1`,
		`teachassist_llm_calls_total{outcome="error",purpose="quiz"} 1`,
		`teachassist_progress_activities_total{activity="quiz"} 1`,
		`teachassist_syllabus_chunks_ingested_total 3`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in exposition", want)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveLLM("answer", nil, time.Millisecond)
	m.IncActivity("explain")
	m.ApiInflightInc()
	m.ApiInflightDec()
}
