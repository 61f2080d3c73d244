package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusai/teachassist/internal/client"
	"github.com/campusai/teachassist/internal/domain/learning"
	"github.com/campusai/teachassist/internal/domain/progress"
	"github.com/campusai/teachassist/internal/session"
)

type fakeBackend struct {
	srv *httptest.Server

	mu    sync.Mutex
	forms map[string][]map[string]string
	paths []string
}

func newFakeBackend(t *testing.T, routes map[string]any) *fakeBackend {
	t.Helper()
	b := &fakeBackend{forms: map[string][]map[string]string{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.paths = append(b.paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				form := map[string]string{}
				for k, v := range r.MultipartForm.Value {
					form[k] = v[0]
				}
				b.forms[r.URL.Path] = append(b.forms[r.URL.Path], form)
			}
		}
		b.mu.Unlock()

		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if fn, ok := body.(func(*http.Request) any); ok {
			body = fn(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func run(t *testing.T, b *fakeBackend, state, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(strings.NewReader(input), &out)
	root.SetArgs(append([]string{"--server", b.srv.URL, "--state", state}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func quizPayload() learning.StageResult {
	return learning.StageResult{
		Stage:   learning.StageQuiz,
		Content: "Quiz",
		Questions: []learning.Question{
			{ID: 1, Question: "Which is third?", Options: []string{"A", "B", "C", "D"}, Answer: 2},
		},
	}
}

func TestQuizScoresAndReports(t *testing.T) {
	b := newFakeBackend(t, map[string]any{
		"/learn/":         quizPayload(),
		"/progress/track": progress.TrackAck{Status: "success", Message: "Progress tracked"},
	})
	state := filepath.Join(t.TempDir(), "state.yaml")

	out, err := run(t, b, state, "z\nc\n", "quiz", "Heaps")
	require.NoError(t, err)
	assert.Contains(t, out, "Question 1/1")
	assert.Contains(t, out, "pick A-D")
	assert.Contains(t, out, "Score: 1/1 (100%)")

	id, err := session.NewFileStore(state).Identity()
	require.NoError(t, err)
	require.Len(t, b.forms["/progress/track"], 1)
	assert.Equal(t, map[string]string{
		"user_id": id, "topic": "Heaps", "activity_type": "quiz", "score": "1", "total": "1",
	}, b.forms["/progress/track"][0])
	assert.Equal(t, id, b.forms["/learn/"][0]["user_id"])
}

func TestQuizWrongAnswer(t *testing.T) {
	b := newFakeBackend(t, map[string]any{
		"/learn/":         quizPayload(),
		"/progress/track": progress.TrackAck{Status: "success"},
	})
	out, err := run(t, b, filepath.Join(t.TempDir(), "s.yaml"), "1\n", "quiz", "Heaps")
	require.NoError(t, err)
	assert.Contains(t, out, "Score: 0/1 (0%)")
	assert.Equal(t, "0", b.forms["/progress/track"][0]["score"])
}

func TestQuizAbandonedOnEOFIsNotReported(t *testing.T) {
	b := newFakeBackend(t, map[string]any{"/learn/": quizPayload()})
	out, err := run(t, b, filepath.Join(t.TempDir(), "s.yaml"), "", "quiz", "Heaps")
	require.NoError(t, err)
	assert.Contains(t, out, "quiz abandoned")
	assert.Empty(t, b.forms["/progress/track"])
}

func TestLearnWalkStopsOnBackendError(t *testing.T) {
	b := newFakeBackend(t, map[string]any{
		"/learn/": func(r *http.Request) any {
			if r.FormValue("stage") == "deep" {
				return learning.Errorf("LLM Error: quota")
			}
			return learning.StageResult{Stage: learning.StageExplain, Content: "Stacks are LIFO.", Next: "deep"}
		},
	})
	out, err := run(t, b, filepath.Join(t.TempDir(), "s.yaml"), "n\nb\nexplain\nq\n", "learn", "Stacks")
	require.NoError(t, err)
	assert.Contains(t, out, "Stacks are LIFO.")
	assert.Contains(t, out, "LLM Error: quota")
	assert.Contains(t, out, "already at the first stage")

	stages := []string{}
	for _, f := range b.forms["/learn/"] {
		stages = append(stages, f["stage"])
	}
	assert.Equal(t, []string{"explain", "deep"}, stages, "revisiting explain must come from the cache")
}

func TestLearnFirstStageFailureIsReturned(t *testing.T) {
	b := newFakeBackend(t, map[string]any{
		"/learn/": learning.NotFound("This topic is not covered in the syllabus."),
	})
	_, err := run(t, b, filepath.Join(t.TempDir(), "s.yaml"), "", "learn", "Quantum")
	require.Error(t, err)
	assert.Equal(t, "This topic is not covered in the syllabus.", client.UserMessage(err))
}

func TestProgressRendersDashboard(t *testing.T) {
	state := filepath.Join(t.TempDir(), "s.yaml")
	id, err := session.NewFileStore(state).Identity()
	require.NoError(t, err)

	b := newFakeBackend(t, map[string]any{
		"/progress/" + id: progress.View{
			UserID: id, TotalActivities: 6, QuizzesTaken: 2, AverageScore: 75,
			Topics:       map[string]progress.TopicView{"Heaps": {MasteryLevel: 75}},
			Achievements: []string{"first_steps"},
		},
		"/progress/" + id + "/recommendations": progress.Recommendations{Recommendations: []string{"Review Heaps"}},
		"/progress/" + id + "/analytics":       progress.Analytics{TotalStudyTimeMinutes: 30, AchievementCount: 1},
		"/progress/" + id + "/performance":     progress.Performance{Status: progress.PerformanceInsufficientData, Message: "Start learning"},
	})
	out, err := run(t, b, state, "", "progress")
	require.NoError(t, err)
	for _, want := range []string{"Activities: 6", "Heaps", "75%", "first_steps", "study time 30 min", "Start learning", "Review Heaps"} {
		assert.Contains(t, out, want)
	}
	assert.Len(t, b.paths, 4)
}

func TestProgressAbortsOnAnyFailure(t *testing.T) {
	state := filepath.Join(t.TempDir(), "s.yaml")
	id, err := session.NewFileStore(state).Identity()
	require.NoError(t, err)
	b := newFakeBackend(t, map[string]any{
		"/progress/" + id:                      progress.View{UserID: id},
		"/progress/" + id + "/recommendations": progress.Recommendations{},
		"/progress/" + id + "/analytics":       progress.Analytics{},
	})
	out, err := run(t, b, state, "", "progress")
	require.Error(t, err)
	assert.NotContains(t, out, "Activities")
}

func TestSessionIdentityStable(t *testing.T) {
	b := newFakeBackend(t, map[string]any{
		"/session/": learning.SessionGrant{SessionID: "user_srv123456", Token: "tok", ExpiresAt: "2026-11-16T00:00:00Z"},
	})
	state := filepath.Join(t.TempDir(), "s.yaml")

	first, err := run(t, b, state, "", "session")
	require.NoError(t, err)
	second, err := run(t, b, state, "", "session")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "local identity")

	out, err := run(t, b, state, "", "session", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "user_srv123456")

	st, err := session.NewFileStore(state).Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", st.Token)

	var buf bytes.Buffer
	root := NewRootCommand(strings.NewReader(""), &buf)
	root.SetArgs([]string{"--server", b.srv.URL, "--state", state, "session"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "signed token expires")
}

func TestChatKeepsHistory(t *testing.T) {
	b := newFakeBackend(t, map[string]any{
		"/chat/": func(r *http.Request) any {
			if r.FormValue("action") == "quiz" {
				return quizPayload()
			}
			return learning.StageResult{Stage: learning.StageChat, Content: "echo: " + r.FormValue("message")}
		},
		"/progress/track": progress.TrackAck{Status: "success"},
	})
	state := filepath.Join(t.TempDir(), "s.yaml")

	out, err := run(t, b, state, "what is a heap?\n/simplify\n/quiz\nc\n/quit\n", "chat", "Heaps")
	require.NoError(t, err)
	assert.Contains(t, out, "echo: what is a heap?")
	assert.Contains(t, out, "Score: 1/1 (100%)")

	chats := b.forms["/chat/"]
	require.Len(t, chats, 3)
	assert.Equal(t, "simplify", chats[1]["action"])
	assert.Equal(t, "what is a heap?", chats[1]["message"])
	assert.Contains(t, chats[1]["context"], "assistant: echo: what is a heap?")

	h, err := session.NewFileStore(state).Chat()
	require.NoError(t, err)
	assert.Equal(t, 4, h.Len())
}

func TestConnectFailureMessage(t *testing.T) {
	b := newFakeBackend(t, nil)
	b.srv.Close()
	_, err := run(t, b, filepath.Join(t.TempDir(), "s.yaml"), "", "ask", "what", "is", "a", "trie")
	require.Error(t, err)
	assert.Equal(t, "failed to connect to the server", client.UserMessage(err))
}

func TestUploadRejectsErrorPayload(t *testing.T) {
	b := newFakeBackend(t, map[string]any{
		"/upload-syllabus/": map[string]string{"error": "bad file"},
	})
	dir := t.TempDir()
	pdf := filepath.Join(dir, "syllabus.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))
	out, err := run(t, b, filepath.Join(dir, "s.yaml"), "", "upload", pdf)
	require.Error(t, err)
	assert.Equal(t, "bad file", client.UserMessage(err))
	assert.NotContains(t, out, "chunks")
}

func TestParseOption(t *testing.T) {
	for in, want := range map[string]int{"a": 0, "D": 3, "2": 1, " c ": 2} {
		got, ok := parseOption(in, 4)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"e", "0", "5", "", "ab"} {
		_, ok := parseOption(in, 4)
		assert.False(t, ok, in)
	}
}
