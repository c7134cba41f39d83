package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/cache"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/engine"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/oracle"
)

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	Text           string `json:"text" validate:"required,max=200000"`
	JobDescription string `json:"job_description,omitempty" validate:"max=200000"`
}

// ParseRequest is the body of POST /parse
type ParseRequest struct {
	Text string `json:"text" validate:"required,max=200000"`
}

// AnalyzeResponse is an analysis report with its storage ID
type AnalyzeResponse struct {
	ID     string `json:"id,omitempty"`
	Cached bool   `json:"cached"`
	engine.Report
}

// ParseResponse is a parse report with its storage ID
type ParseResponse struct {
	ID     string `json:"id,omitempty"`
	Cached bool   `json:"cached"`
	engine.ParseReport
}

// ExtractResponse holds the text extracted from an uploaded document and both reports
type ExtractResponse struct {
	Metadata *ingestion.Metadata `json:"metadata"`
	Text     string              `json:"text"`
	Analysis AnalyzeResponse     `json:"analysis"`
	Parse    ParseResponse       `json:"parse"`
}

// handleAnalyze scores a resume, optionally against a job description
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.analyze(r.Context(), req.Text, req.JobDescription))
}

// handleParse decomposes a resume into structured fields
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.parse(r.Context(), req.Text))
}

// handleExtract accepts a multipart upload ("file", optional "job_description"),
// extracts its text and returns both the analysis and the parse.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, &ErrValidation{Message: "invalid multipart form: " + err.Error()})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "file", Message: "is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	text, meta, err := ingestion.ExtractBytes(header.Filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	jd := r.FormValue("job_description")
	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		Metadata: meta,
		Text:     text.Normalized(),
		Analysis: s.analyze(r.Context(), text.Original(), jd),
		Parse:    s.parse(r.Context(), text.Original()),
	})
}

// handleGetAnalysis returns a stored report
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, &ErrNotConfigured{Feature: "persistence"})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "invalid ID"})
		return
	}

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if analysis == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "analysis", ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleListAnalyses lists stored reports, filtered by ?kind=, ?hash= and ?limit=
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, &ErrNotConfigured{Feature: "persistence"})
		return
	}

	q := r.URL.Query()
	filters := db.AnalysisFilters{Kind: q.Get("kind"), ContentHash: q.Get("hash")}
	if filters.Kind != "" && filters.Kind != db.KindAnalyze && filters.Kind != db.KindParse {
		s.writeError(w, r, &ErrValidation{Field: "kind", Message: "must be one of: analyze, parse"})
		return
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > 500 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "must be between 1 and 500"})
			return
		}
		filters.Limit = n
	}

	analyses, err := s.store.ListAnalyses(r.Context(), filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"analyses": analyses, "count": len(analyses)})
}

// handleHealth reports the server and its optional dependencies
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"oracle":   s.engine.OracleName(),
		"database": dependencyStatus(r.Context(), s.store),
		"cache":    dependencyStatus(r.Context(), s.cache),
	}
	status, code := "ok", http.StatusOK
	for _, name := range []string{"database", "cache"} {
		if checks[name] == "unavailable" {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	s.jsonResponse(w, code, map[string]any{"status": status, "checks": checks})
}

type pinger interface {
	Ping(ctx context.Context) error
}

func dependencyStatus(ctx context.Context, p pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}

// analyze runs the engine through the cache and the store.
func (s *Server) analyze(ctx context.Context, text, jobDescription string) AnalyzeResponse {
	key := cache.Key(engine.ModeAnalyze, text, jobDescription)
	var resp AnalyzeResponse
	if s.lookup(ctx, key, &resp.Report) {
		resp.Cached = true
		return resp
	}

	resp.Report = s.engine.Analyze(ctx, text, jobDescription)
	if cacheable(resp.FallbackReason) {
		s.remember(ctx, key, resp.Report)
	}
	score := resp.Result.OverallScore
	resp.ID = s.save(ctx, &db.AnalysisInput{
		Kind:           db.KindAnalyze,
		ContentHash:    ingestion.ContentHash(text, jobDescription),
		Source:         string(resp.Source),
		FallbackReason: string(resp.FallbackReason),
		OverallScore:   &score,
		Payload:        resp.Report,
	})
	return resp
}

// parse runs the engine through the cache and the store.
func (s *Server) parse(ctx context.Context, text string) ParseResponse {
	key := cache.Key(engine.ModeParse, text)
	var resp ParseResponse
	if s.lookup(ctx, key, &resp.ParseReport) {
		resp.Cached = true
		return resp
	}

	resp.ParseReport = s.engine.Parse(ctx, text)
	if cacheable(resp.FallbackReason) {
		s.remember(ctx, key, resp.ParseReport)
	}
	resp.ID = s.save(ctx, &db.AnalysisInput{
		Kind:           db.KindParse,
		ContentHash:    ingestion.ContentHash(text),
		Source:         string(resp.Source),
		FallbackReason: string(resp.FallbackReason),
		Payload:        resp.ParseReport,
	})
	return resp
}

// cacheable excludes reports produced by a transient oracle failure, so the next
// request tries the oracle again.
func cacheable(reason oracle.FallbackReason) bool {
	return reason == oracle.ReasonNone || reason == oracle.ReasonNotConfigured
}

// lookup reads key into v. Cache failures count as misses.
func (s *Server) lookup(ctx context.Context, key string, v any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, v)
	if err != nil {
		s.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		hit = false
	}
	s.metrics.CacheLookup(hit)
	return hit
}

func (s *Server) remember(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
}

// save persists a report and returns its ID, or "" when persistence is off or fails.
func (s *Server) save(ctx context.Context, input *db.AnalysisInput) string {
	if s.store == nil {
		return ""
	}
	saved, err := s.store.SaveAnalysis(ctx, input)
	if err != nil {
		s.logger.Error("failed to save report", zap.String("kind", input.Kind), zap.Error(err))
		return ""
	}
	return saved.ID.String()
}
