// Package postgres persists analysis reports in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"statkit/domain/core"
	"statkit/domain/report"
	"statkit/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_reports (
	id              TEXT PRIMARY KEY,
	target          TEXT NOT NULL,
	alpha           DOUBLE PRECISION NOT NULL,
	significant     JSONB NOT NULL,
	non_significant JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
)`

// reportRepository implements ports.ReportRepository on PostgreSQL
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a PostgreSQL-backed report repository,
// bootstrapping the schema if needed.
func NewReportRepository(db *sqlx.DB) (ports.ReportRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure report schema: %w", err)
	}
	return &reportRepository{db: db}, nil
}

func (r *reportRepository) Save(ctx context.Context, rep *report.Report) error {
	significant, err := json.Marshal(rep.Significant)
	if err != nil {
		return fmt.Errorf("failed to marshal significant list: %w", err)
	}
	nonSignificant, err := json.Marshal(rep.NonSignificant)
	if err != nil {
		return fmt.Errorf("failed to marshal non-significant list: %w", err)
	}

	query := `INSERT INTO analysis_reports (
		id, target, alpha, significant, non_significant, created_at
	) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		rep.ID, rep.Target, rep.Alpha, significant, nonSignificant, rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id core.ID) (*report.Report, error) {
	query := `SELECT id, target, alpha, significant, non_significant, created_at
		FROM analysis_reports WHERE id = $1`

	row := r.db.QueryRowxContext(ctx, query, id)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	return rep, nil
}

func (r *reportRepository) List(ctx context.Context, limit int) ([]*report.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, target, alpha, significant, non_significant, created_at
		FROM analysis_reports ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []*report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*report.Report, error) {
	var (
		rep            report.Report
		significant    []byte
		nonSignificant []byte
		createdAt      time.Time
	)
	if err := row.Scan(&rep.ID, &rep.Target, &rep.Alpha, &significant, &nonSignificant, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(significant, &rep.Significant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal significant list: %w", err)
	}
	if err := json.Unmarshal(nonSignificant, &rep.NonSignificant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal non-significant list: %w", err)
	}
	rep.CreatedAt = createdAt
	return &rep, nil
}
