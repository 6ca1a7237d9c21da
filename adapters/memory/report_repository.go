// Package memory provides in-process adapter implementations, used when no
// external storage is configured.
package memory

import (
	"context"
	"sync"

	"statkit/domain/core"
	"statkit/domain/report"
	"statkit/ports"
)

// reportRepository keeps reports in memory, newest first
type reportRepository struct {
	mu      sync.RWMutex
	reports []*report.Report
	byID    map[core.ID]*report.Report
}

// NewReportRepository creates an in-memory report repository
func NewReportRepository() ports.ReportRepository {
	return &reportRepository{byID: make(map[core.ID]*report.Report)}
}

func (r *reportRepository) Save(ctx context.Context, rep *report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append([]*report.Report{rep}, r.reports...)
	r.byID[rep.ID] = rep
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id core.ID) (*report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rep, ok := r.byID[id]
	if !ok {
		return nil, core.ErrReportNotFound
	}
	return rep, nil
}

func (r *reportRepository) List(ctx context.Context, limit int) ([]*report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.reports) {
		limit = len(r.reports)
	}
	out := make([]*report.Report, limit)
	copy(out, r.reports[:limit])
	return out, nil
}
