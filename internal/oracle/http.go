package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/scoring"
)

const (
	// DefaultTimeout bounds one remote call.
	DefaultTimeout = 5 * time.Second
	maxResponse    = 1 << 20
	maxErrorBody   = 512
)

// HTTPOracle calls a JSON service exposing POST {endpoint}/analyze and POST {endpoint}/parse.
type HTTPOracle struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
}

// HTTPOption configures an HTTPOracle.
type HTTPOption func(*HTTPOracle)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(o *HTTPOracle) { o.client = c }
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) HTTPOption {
	return func(o *HTTPOracle) { o.apiKey = key }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(o *HTTPOracle) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewHTTPOracle returns an oracle for endpoint.
func NewHTTPOracle(endpoint string, opts ...HTTPOption) *HTTPOracle {
	o := &HTTPOracle{
		endpoint: strings.TrimRight(endpoint, "/"),
		timeout:  DefaultTimeout,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name implements Oracle.
func (o *HTTPOracle) Name() string { return "http" }

// Analyze implements Oracle.
func (o *HTTPOracle) Analyze(ctx context.Context, req Request) Outcome[*scoring.AnalysisResult] {
	body, err := o.post(ctx, "/analyze", req)
	if err != nil {
		return failed[*scoring.AnalysisResult](err)
	}
	result, err := DecodeAnalysis(body)
	if err != nil {
		return failed[*scoring.AnalysisResult](err)
	}
	return Success(result)
}

// Parse implements Oracle.
func (o *HTTPOracle) Parse(ctx context.Context, text string) Outcome[*parsing.StructuredResume] {
	body, err := o.post(ctx, "/parse", Request{Text: text})
	if err != nil {
		return failed[*parsing.StructuredResume](err)
	}
	resume, err := DecodeResume(body)
	if err != nil {
		return failed[*parsing.StructuredResume](err)
	}
	return Success(resume)
}

func (o *HTTPOracle) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if o.endpoint == "" {
		return nil, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return nil, fmt.Errorf("failed to read oracle response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
