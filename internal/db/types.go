package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kinds of stored report.
const (
	KindAnalyze = "analyze"
	KindParse   = "parse"
)

// Analysis is a stored engine report. Payload holds the report JSON as returned by the API.
type Analysis struct {
	ID             uuid.UUID       `json:"id"`
	Kind           string          `json:"kind"`
	ContentHash    string          `json:"content_hash"`
	Source         string          `json:"source"`
	FallbackReason string          `json:"fallback_reason,omitempty"`
	OverallScore   *int            `json:"overall_score,omitempty"`
	Payload        json.RawMessage `json:"payload"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AnalysisInput is the data needed to store a report. Payload is marshaled to JSON.
type AnalysisInput struct {
	Kind           string
	ContentHash    string
	Source         string
	FallbackReason string
	OverallScore   *int
	Payload        any
}

// AnalysisFilters holds optional filters for listing analyses
type AnalysisFilters struct {
	Kind        string
	ContentHash string
	Limit       int
}
