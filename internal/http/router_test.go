package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusai/teachassist/internal/assistant"
	"github.com/campusai/teachassist/internal/auth"
	progressrepo "github.com/campusai/teachassist/internal/data/repos/progress"
	"github.com/campusai/teachassist/internal/data/repos/testutil"
	"github.com/campusai/teachassist/internal/domain/learning"
	progresstypes "github.com/campusai/teachassist/internal/domain/progress"
	httpH "github.com/campusai/teachassist/internal/http/handlers"
	httpMW "github.com/campusai/teachassist/internal/http/middleware"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
	"github.com/campusai/teachassist/internal/progress"
)

type fakeTutor struct {
	learn learning.StageResult
}

func (f *fakeTutor) Ask(_ context.Context, q string) learning.AskResult {
	return learning.AskResult{
		StageResult: learning.StageResult{Stage: learning.StageAnswer, Content: "answer to " + q},
		Question:    q,
		Answer:      "answer to " + q,
	}
}

func (f *fakeTutor) Learn(_ context.Context, topic, stage string) learning.StageResult {
	return f.learn
}

func (f *fakeTutor) Lab(_ context.Context, experiment, step string) learning.LabResult {
	return learning.LabResult{
		StageResult: learning.StageResult{Stage: learning.StageExplanation, Content: step + ":" + experiment},
		Experiment:  experiment,
	}
}

type fakeDeep struct{ err error }

func (f fakeDeep) DeepResearch(_ context.Context, q string) (learning.DeepResearchResult, error) {
	if f.err != nil {
		return learning.DeepResearchResult{}, f.err
	}
	return learning.DeepResearchResult{Stage: learning.StageDeepResearch, Topic: q, Content: "deep", Iterations: 1}, nil
}

type fakeChat struct {
	mu   sync.Mutex
	last assistant.ChatRequest
}

func (f *fakeChat) Chat(_ context.Context, req assistant.ChatRequest) learning.StageResult {
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	return learning.StageResult{Stage: learning.StageChat, Content: "reply"}
}

type fakeUploader struct{ calls int }

func (f *fakeUploader) Upload(_ context.Context, name string, pdf []byte) *learning.UploadResult {
	f.calls++
	return &learning.UploadResult{Message: "Syllabus uploaded and indexed successfully", TotalChunks: 3, DocumentID: "doc-1"}
}

type testServer struct {
	engine   *gin.Engine
	tutor    *fakeTutor
	chat     *fakeChat
	uploader *fakeUploader
	research *fakeResearch
	projects *fakeProjects
	tech     *fakeTech
	issuer   *auth.Issuer
}

func newTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	issuer, err := auth.NewIssuer("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	db := testutil.DB(t)
	progressSvc := progress.NewService(log, progressrepo.NewRepo(db, log), nil)

	ts := &testServer{
		tutor:    &fakeTutor{learn: learning.StageResult{Stage: learning.StageExplain, Content: "explained", Next: "deeper?"}},
		chat:     &fakeChat{},
		uploader: &fakeUploader{},
		research: &fakeResearch{},
		projects: &fakeProjects{},
		tech:     &fakeTech{},
		issuer:   issuer,
	}
	ts.engine = NewRouter(RouterConfig{
		Log:             log,
		Metrics:         observability.NewMetrics(),
		SessionAuth:     httpMW.NewSessionAuth(log, issuer, authRequired),
		HealthHandler:   httpH.NewHealthHandler(),
		SyllabusHandler: httpH.NewSyllabusHandler(ts.uploader),
		LearningHandler: httpH.NewLearningHandler(log, ts.tutor, fakeDeep{err: errors.New("planner down")}, progressSvc),
		ChatHandler:     httpH.NewChatHandler(ts.chat),
		ProgressHandler: httpH.NewProgressHandler(progressSvc),
		SessionHandler:  httpH.NewSessionHandler(issuer),

		ResearchHandler:  httpH.NewResearchHandler(log, ts.research),
		ProjectHandler:   httpH.NewProjectHandler(log, ts.projects),
		TechStackHandler: httpH.NewTechStackHandler(log, ts.tech),
	})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postMultipart(t *testing.T, path string, fields map[string]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = fw.Write(file)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthAndRoot(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck = %d %q", rec.Code, rec.Body.String())
	}
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	var root map[string]string
	decode(t, rec, &root)
	if root["status"] == "" {
		t.Fatalf("root = %v", root)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "teachassist_http_requests_total") {
		t.Fatalf("metrics = %d", rec.Code)
	}
}

func TestAskMultipartAndMissingField(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(postMultipart(t, "/ask/", map[string]string{"question": "What is a heap?"}, "", nil))
	var ask learning.AskResult
	decode(t, rec, &ask)
	if ask.Stage != learning.StageAnswer || ask.Answer != "answer to What is a heap?" {
		t.Fatalf("ask = %+v", ask)
	}

	rec = ts.do(postForm("/ask/", url.Values{}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing question status = %d", rec.Code)
	}
	var env struct {
		Error struct{ Message, Code string } `json:"error"`
	}
	decode(t, rec, &env)
	if env.Error.Code != "missing_field" || !strings.Contains(env.Error.Message, "question") {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestLabDefaultsToExplanation(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(postForm("/lab/", url.Values{"experiment": {"BFS"}}))
	var lab learning.LabResult
	decode(t, rec, &lab)
	if lab.Content != "explanation:BFS" || lab.Experiment != "BFS" {
		t.Fatalf("lab = %+v", lab)
	}
}

func TestLearnAutoTracksProgress(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(postForm("/learn/", url.Values{"topic": {"Heaps"}, "stage": {"explain"}, "user_id": {"user_abcdefghi"}}))
	var res learning.StageResult
	decode(t, rec, &res)
	if res.Stage != learning.StageExplain || res.Next == "" {
		t.Fatalf("learn = %+v", res)
	}

	ts.tutor.learn = learning.Errorf("LLM Error: boom")
	ts.do(postForm("/learn/", url.Values{"topic": {"Tries"}, "stage": {"deep"}, "user_id": {"user_abcdefghi"}}))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/progress/user_abcdefghi", nil))
	var view progresstypes.View
	decode(t, rec, &view)
	if !view.Topics["Heaps"].Explained || view.TotalActivities != 1 {
		t.Fatalf("progress = %+v", view)
	}
	if _, ok := view.Topics["Tries"]; ok {
		t.Fatalf("failed stages must not be tracked")
	}
}

func TestDeepResearchErrorIsPayload(t *testing.T) {
	ts := newTestServer(t, false)
	rec := ts.do(postForm("/deep-research/", url.Values{"topic": {"Graphs"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res learning.StageResult
	decode(t, rec, &res)
	if res.Stage != learning.StageError || !strings.Contains(res.Content, "planner down") {
		t.Fatalf("deep research = %+v", res)
	}
}

func TestChatQuizNeedsNoMessage(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(postForm("/chat/", url.Values{"topic": {"Stacks"}, "action": {"quiz"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("quiz status = %d", rec.Code)
	}
	rec = ts.do(postForm("/chat/", url.Values{"topic": {"Stacks"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ask without message status = %d", rec.Code)
	}
	ts.do(postForm("/chat/", url.Values{"topic": {"Stacks"}, "message": {"why LIFO?"}, "context": {"User: hi"}}))
	if ts.chat.last.Action != assistant.ActionAsk || ts.chat.last.Conversation != "User: hi" {
		t.Fatalf("chat request = %+v", ts.chat.last)
	}
}

func TestUploadSyllabus(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(postMultipart(t, "/upload-syllabus/", nil, "notes.txt", []byte("plain text")))
	var res learning.UploadResult
	decode(t, rec, &res)
	if res.Error == "" || ts.uploader.calls != 0 {
		t.Fatalf("non-PDF upload = %+v", res)
	}

	rec = ts.do(postMultipart(t, "/upload-syllabus/", nil, "syllabus.pdf", []byte("%PDF-1.7\n...")))
	res = learning.UploadResult{}
	decode(t, rec, &res)
	if res.TotalChunks != 3 || ts.uploader.calls != 1 {
		t.Fatalf("upload = %+v", res)
	}

	rec = ts.do(postMultipart(t, "/upload-syllabus/", nil, "", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing file status = %d", rec.Code)
	}
}

func TestProgressTrackValidation(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(postForm("/progress/track", url.Values{"user_id": {"u"}, "topic": {"T"}, "activity_type": {"dance"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown activity status = %d", rec.Code)
	}
	rec = ts.do(postForm("/progress/track", url.Values{"user_id": {"u"}, "topic": {"T"}, "activity_type": {"quiz"}, "score": {"four"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad score status = %d", rec.Code)
	}
	rec = ts.do(postForm("/progress/track", url.Values{"user_id": {"u"}, "topic": {"T"}, "activity_type": {"quiz"}, "score": {"9"}, "total": {"3"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("score above total status = %d", rec.Code)
	}
	rec = ts.do(postForm("/progress/track", url.Values{"user_id": {"u"}, "topic": {"T"}, "activity_type": {"quiz"}, "score": {"4"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("quiz score without total status = %d", rec.Code)
	}
	rec = ts.do(postForm("/progress/track", url.Values{"user_id": {"u"}, "topic": {"T"}, "activity_type": {"quiz"}, "score": {"4"}, "total": {"5"}}))
	var ack progresstypes.TrackAck
	decode(t, rec, &ack)
	if ack.Status != "success" {
		t.Fatalf("ack = %+v", ack)
	}

	for _, path := range []string{"/progress/u/recommendations", "/progress/u/analytics", "/progress/u/performance"} {
		rec = ts.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}

func TestSessionBoundProgress(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/session/", nil))
	var grant learning.SessionGrant
	decode(t, rec, &grant)
	if grant.SessionID == "" || grant.Token == "" {
		t.Fatalf("grant = %+v", grant)
	}

	req := httptest.NewRequest(http.MethodGet, "/progress/"+grant.SessionID, nil)
	if rec = ts.do(req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("tokenless status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/progress/"+grant.SessionID, nil)
	req.Header.Set("Authorization", "Bearer "+grant.Token)
	if rec = ts.do(req); rec.Code != http.StatusOK {
		t.Fatalf("own progress status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/progress/user_someoneel", nil)
	req.Header.Set("Authorization", "Bearer "+grant.Token)
	if rec = ts.do(req); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign progress status = %d", rec.Code)
	}
}

func TestSessionIgnoresRequestedID(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(postForm("/session/", url.Values{"user_id": {"user_victim123"}}))
	var grant learning.SessionGrant
	decode(t, rec, &grant)
	if grant.SessionID == "" || grant.SessionID == "user_victim123" || !strings.HasPrefix(grant.SessionID, "user_") {
		t.Fatalf("grant = %+v", grant)
	}

	req := httptest.NewRequest(http.MethodGet, "/progress/user_victim123", nil)
	req.Header.Set("Authorization", "Bearer "+grant.Token)
	if rec = ts.do(req); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign progress status = %d", rec.Code)
	}
}
