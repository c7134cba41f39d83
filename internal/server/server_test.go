package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/engine"
	"github.com/jonathan/resume-analyzer/internal/metrics"
	"github.com/jonathan/resume-analyzer/internal/oracle"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
)

const sampleResume = `Jordan Lee
jordan.lee@example.com
(415) 555-0199

EXPERIENCE
Senior Software Engineer, Acme Corp
Jan 2020 - Present
- Led a team of 8 engineers building Go and Kubernetes services
- Reduced latency by 40%

EDUCATION
Bachelor of Science in Computer Science
Stanford University, 2012 - 2016

SKILLS
Go, Python, AWS`

// mockStore keeps analyses in memory
type mockStore struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*db.Analysis
	order    []uuid.UUID
	failPing bool
}

func newMockStore() *mockStore {
	return &mockStore{items: make(map[uuid.UUID]*db.Analysis)}
}

func (m *mockStore) SaveAnalysis(_ context.Context, in *db.AnalysisInput) (*db.Analysis, error) {
	payload, err := json.Marshal(in.Payload)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := &db.Analysis{
		ID:             uuid.New(),
		Kind:           in.Kind,
		ContentHash:    in.ContentHash,
		Source:         in.Source,
		FallbackReason: in.FallbackReason,
		OverallScore:   in.OverallScore,
		Payload:        payload,
		CreatedAt:      time.Now(),
	}
	m.items[a.ID] = a
	m.order = append(m.order, a.ID)
	return a, nil
}

func (m *mockStore) GetAnalysis(_ context.Context, id uuid.UUID) (*db.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *mockStore) ListAnalyses(_ context.Context, f db.AnalysisFilters) ([]db.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Analysis{}
	for _, id := range m.order {
		a := m.items[id]
		if f.Kind != "" && a.Kind != f.Kind {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockStore) Ping(context.Context) error {
	if m.failPing {
		return errors.New("connection refused")
	}
	return nil
}

// mockCache stores JSON in a map
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (c *mockCache) Get(_ context.Context, key string, v any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (c *mockCache) Set(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *mockCache) Ping(context.Context) error { return nil }

// timeoutOracle always falls back with a timeout
type timeoutOracle struct{}

func (timeoutOracle) Name() string { return "slow" }

func (timeoutOracle) Analyze(context.Context, oracle.Request) oracle.Outcome[*scoring.AnalysisResult] {
	return oracle.Fallback[*scoring.AnalysisResult](oracle.ReasonTimeout, context.DeadlineExceeded)
}

func (timeoutOracle) Parse(context.Context, string) oracle.Outcome[*parsing.StructuredResume] {
	return oracle.Fallback[*parsing.StructuredResume](oracle.ReasonTimeout, context.DeadlineExceeded)
}

func newTestServer(t *testing.T, cfg Config, opts ...Option) *Server {
	t.Helper()
	if cfg.RateLimit == nil {
		cfg.RateLimit = &ratelimit.Config{Enabled: false}
	}
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	s := New(engine.New(nil), cfg, opts...)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func do(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, s *Server, path string, v any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return do(t, s, http.MethodPost, path, bytes.NewReader(data), "application/json")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHandleAnalyze(t *testing.T) {
	s := newTestServer(t, Config{})

	w := postJSON(t, s, "/analyze", AnalyzeRequest{Text: sampleResume, JobDescription: "Looking for a Go engineer with Kubernetes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	resp := decode[AnalyzeResponse](t, w)
	assert.Empty(t, resp.ID, "no store configured")
	assert.False(t, resp.Cached)
	assert.Equal(t, parsing.SourceHeuristic, resp.Source)
	assert.Equal(t, oracle.ReasonNotConfigured, resp.FallbackReason)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Findings, 7, "job match is added with a job description")
	assert.Positive(t, resp.Result.OverallScore)
	assert.LessOrEqual(t, resp.Result.OverallScore, 100)
}

func TestHandleAnalyze_Validation(t *testing.T) {
	s := newTestServer(t, Config{MaxUploadBytes: 512})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"missing text", `{"job_description": "Go"}`, http.StatusBadRequest, "text - is required"},
		{"empty body", ``, http.StatusBadRequest, "request body is empty"},
		{"malformed", `{"text": `, http.StatusBadRequest, "invalid request body"},
		{"unknown field", `{"text": "x", "resume": "y"}`, http.StatusBadRequest, "unknown field"},
		{"too large", `{"text": "` + strings.Repeat("a", 1024) + `"}`, http.StatusRequestEntityTooLarge, "request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/analyze", strings.NewReader(tt.body), "application/json")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, decode[map[string]string](t, w)["error"], tt.wantError)
		})
	}
}

func TestHandleAnalyze_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodGet, "/analyze", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleParse(t *testing.T) {
	s := newTestServer(t, Config{})

	w := postJSON(t, s, "/parse", ParseRequest{Text: sampleResume})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[ParseResponse](t, w)
	require.NotNil(t, resp.Resume)
	assert.Equal(t, "Jordan Lee", resp.Resume.FullName)
	assert.Equal(t, "jordan.lee@example.com", resp.Resume.Email)
	require.Len(t, resp.Resume.Experiences, 1)
	assert.Equal(t, "Acme Corp", resp.Resume.Experiences[0].Company)
}

func TestCache(t *testing.T) {
	c := newMockCache()
	reg := prometheus.NewRegistry()
	s := newTestServer(t, Config{}, WithCache(c), WithMetrics(metrics.NewRecorder(reg), reg))

	first := decode[AnalyzeResponse](t, postJSON(t, s, "/analyze", AnalyzeRequest{Text: sampleResume}))
	second := decode[AnalyzeResponse](t, postJSON(t, s, "/analyze", AnalyzeRequest{Text: sampleResume}))

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 1, c.sets)

	third := decode[ParseResponse](t, postJSON(t, s, "/parse", ParseRequest{Text: sampleResume}))
	assert.False(t, third.Cached, "parse and analyze use separate keys")

	w := do(t, s, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `resume_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, w.Body.String(), `resume_cache_lookups_total{result="miss"} 2`)
	assert.Contains(t, w.Body.String(), `resume_http_requests_total{code="200",route="POST /analyze"} 2`)
}

func TestCache_SkipsTransientFallback(t *testing.T) {
	c := newMockCache()
	s := New(engine.New(nil, engine.WithOracle(timeoutOracle{})), Config{RateLimit: &ratelimit.Config{}}, WithCache(c))
	defer s.rateLimiter.Stop()

	for i := 0; i < 2; i++ {
		resp := decode[AnalyzeResponse](t, postJSON(t, s, "/analyze", AnalyzeRequest{Text: sampleResume}))
		assert.False(t, resp.Cached)
		assert.Equal(t, oracle.ReasonTimeout, resp.FallbackReason)
	}
	assert.Zero(t, c.sets)
}

func TestHandleExtract(t *testing.T) {
	st := newMockStore()
	s := newTestServer(t, Config{}, WithStore(st))

	body, contentType := multipartBody(t, "resume.txt", []byte(sampleResume), "Go engineer")
	w := do(t, s, http.MethodPost, "/extract", body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[ExtractResponse](t, w)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, "resume.txt", resp.Metadata.Source)
	assert.EqualValues(t, "text", resp.Metadata.Format)
	assert.Len(t, resp.Metadata.Hash, 64)
	assert.Contains(t, resp.Text, "Jordan Lee")
	assert.Len(t, resp.Analysis.Result.Findings, 7)
	assert.Equal(t, "Jordan Lee", resp.Parse.Resume.FullName)
	assert.NotEmpty(t, resp.Analysis.ID)
	assert.NotEmpty(t, resp.Parse.ID)
	assert.Len(t, st.items, 2)
}

func TestHandleExtract_Errors(t *testing.T) {
	s := newTestServer(t, Config{MaxUploadBytes: 4096})

	t.Run("unsupported format", func(t *testing.T) {
		body, ct := multipartBody(t, "resume.bin", []byte{0x00, 0x01, 0x02, 0xff, 0xfe}, "")
		w := do(t, s, http.MethodPost, "/extract", body, ct)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("job_description", "Go"))
		require.NoError(t, mw.Close())
		w := do(t, s, http.MethodPost, "/extract", &buf, mw.FormDataContentType())
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode[map[string]string](t, w)["error"], "file")
	})

	t.Run("not multipart", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/extract", strings.NewReader("{}"), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		body, ct := multipartBody(t, "resume.txt", bytes.Repeat([]byte("a"), 8192), "")
		w := do(t, s, http.MethodPost, "/extract", body, ct)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func multipartBody(t *testing.T, filename string, content []byte, jd string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	if jd != "" {
		require.NoError(t, mw.WriteField("job_description", jd))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAnalyses(t *testing.T) {
	st := newMockStore()
	s := newTestServer(t, Config{}, WithStore(st))

	resp := decode[AnalyzeResponse](t, postJSON(t, s, "/analyze", AnalyzeRequest{Text: sampleResume}))
	require.NotEmpty(t, resp.ID)
	postJSON(t, s, "/parse", ParseRequest{Text: sampleResume})

	w := do(t, s, http.MethodGet, "/analyses/"+resp.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	stored := decode[db.Analysis](t, w)
	assert.Equal(t, db.KindAnalyze, stored.Kind)
	require.NotNil(t, stored.OverallScore)
	assert.Equal(t, resp.Result.OverallScore, *stored.OverallScore)
	assert.Equal(t, "heuristic", stored.Source)
	assert.Equal(t, "not_configured", stored.FallbackReason)

	var payload engine.Report
	require.NoError(t, json.Unmarshal(stored.Payload, &payload))
	assert.Equal(t, resp.Result, payload.Result)

	list := decode[struct {
		Analyses []db.Analysis `json:"analyses"`
		Count    int           `json:"count"`
	}](t, do(t, s, http.MethodGet, "/analyses?kind=parse", nil, ""))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, db.KindParse, list.Analyses[0].Kind)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"invalid id", "/analyses/not-a-uuid", http.StatusBadRequest},
		{"unknown id", "/analyses/" + uuid.NewString(), http.StatusNotFound},
		{"invalid kind", "/analyses?kind=render", http.StatusBadRequest},
		{"invalid limit", "/analyses?limit=0", http.StatusBadRequest},
		{"valid limit", "/analyses?limit=10", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, do(t, s, http.MethodGet, tt.path, nil, "").Code)
		})
	}
}

func TestAnalyses_NotConfigured(t *testing.T) {
	s := newTestServer(t, Config{})

	w := do(t, s, http.MethodGet, "/analyses/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, "persistence is not configured", decode[map[string]string](t, w)["error"])

	assert.Equal(t, http.StatusNotImplemented, do(t, s, http.MethodGet, "/analyses", nil, "").Code)
}

func TestHandleHealth(t *testing.T) {
	type health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}

	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	got := decode[health](t, w)
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, map[string]string{"oracle": "disabled", "database": "disabled", "cache": "disabled"}, got.Checks)

	st := newMockStore()
	st.failPing = true
	s = newTestServer(t, Config{}, WithStore(st), WithCache(newMockCache()))
	w = do(t, s, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	got = decode[health](t, w)
	assert.Equal(t, "degraded", got.Status)
	assert.Equal(t, "unavailable", got.Checks["database"])
	assert.Equal(t, "ok", got.Checks["cache"])
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: ratelimit.NewConfig(true, 60, 2)})

	w := postJSON(t, s, "/analyze", AnalyzeRequest{Text: sampleResume})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit"))

	w = postJSON(t, s, "/analyze", AnalyzeRequest{Text: sampleResume})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decode[map[string]any](t, w)["error"])

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", nil, "").Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Config{})
	w := do(t, s, http.MethodOptions, "/analyze", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&ErrValidation{Field: "text", Message: "is required"}, http.StatusBadRequest},
		{&ErrNotFound{Resource: "analysis", ID: "x"}, http.StatusNotFound},
		{&ErrNotConfigured{Feature: "persistence"}, http.StatusNotImplemented},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, Config{Port: 0})
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
