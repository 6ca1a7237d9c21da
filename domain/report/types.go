// Package report defines the stored form of a feature-analysis run.
package report

import (
	"fmt"
	"strings"
	"time"

	"statkit/domain/core"
)

// Report is a persisted analysis report: which features tested significant
// against the target at the recorded alpha.
type Report struct {
	ID             core.ID   `json:"id" db:"id"`
	Target         string    `json:"target" db:"target"`
	Alpha          float64   `json:"alpha" db:"alpha"`
	Significant    []string  `json:"significant"`
	NonSignificant []string  `json:"non_significant"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// New creates a report with a fresh ID and timestamp
func New(target string, alpha float64, significant, nonSignificant []string) *Report {
	return &Report{
		ID:             core.NewID(),
		Target:         target,
		Alpha:          alpha,
		Significant:    append([]string{}, significant...),
		NonSignificant: append([]string{}, nonSignificant...),
		CreatedAt:      time.Now().UTC(),
	}
}

// Markdown renders the report as a human-readable markdown summary
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Feature analysis: %s\n\n", r.Target)
	fmt.Fprintf(&b, "Significance level: %g  \n", r.Alpha)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.CreatedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## Significant features (%d)\n\n", len(r.Significant))
	writeList(&b, r.Significant)

	fmt.Fprintf(&b, "## Non-significant features (%d)\n\n", len(r.NonSignificant))
	writeList(&b, r.NonSignificant)

	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("_none_\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
