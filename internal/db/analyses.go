package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const analysisColumns = `id, kind, content_hash, source, fallback_reason, overall_score, payload, created_at`

// SaveAnalysis stores a report and returns the created record
func (db *DB) SaveAnalysis(ctx context.Context, input *AnalysisInput) (*Analysis, error) {
	if input.Kind != KindAnalyze && input.Kind != KindParse {
		return nil, fmt.Errorf("invalid analysis kind %q", input.Kind)
	}
	payload, err := json.Marshal(input.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO analyses (kind, content_hash, source, fallback_reason, overall_score, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+analysisColumns,
		input.Kind, input.ContentHash, input.Source, input.FallbackReason, input.OverallScore, payload,
	)
	a, err := scanAnalysis(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return a, nil
}

// GetAnalysis retrieves an analysis by ID. It returns nil, nil when none exists.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses retrieves recent analyses with optional filters, newest first
func (db *DB) ListAnalyses(ctx context.Context, filters AnalysisFilters) ([]Analysis, error) {
	query, args := listQuery(filters)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}
	return analyses, rows.Err()
}

// DeleteAnalysis deletes an analysis by ID
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis not found: %s", id)
	}
	return nil
}

func listQuery(filters AnalysisFilters) (string, []any) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", argNum)
		args = append(args, filters.Kind)
		argNum++
	}
	if filters.ContentHash != "" {
		query += fmt.Sprintf(" AND content_hash = $%d", argNum)
		args = append(args, filters.ContentHash)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)
	return query, args
}

func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	var payload []byte
	if err := row.Scan(&a.ID, &a.Kind, &a.ContentHash, &a.Source, &a.FallbackReason,
		&a.OverallScore, &payload, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Payload = json.RawMessage(payload)
	return &a, nil
}
