// Package ports declares the interfaces the engine's surrounding
// infrastructure implements.
package ports

import (
	"context"

	"statkit/domain/core"
	"statkit/domain/report"
)

// ReportRepository stores and retrieves analysis reports
type ReportRepository interface {
	Save(ctx context.Context, r *report.Report) error
	GetByID(ctx context.Context, id core.ID) (*report.Report, error)
	List(ctx context.Context, limit int) ([]*report.Report, error)
}
