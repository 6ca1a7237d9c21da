package stattest

import (
	"fmt"
	"io"
	"os"

	"statkit/domain/core"
	"statkit/domain/table"
)

// Report partitions a dataset's non-target columns by significance against
// the target variable. Every non-target column lands in exactly one of the
// two lists. Filtered holds only the significant columns plus the target.
type Report struct {
	Target         string         `json:"target"`
	Alpha          float64        `json:"alpha"`
	Significant    []string       `json:"significant"`
	NonSignificant []string       `json:"non_significant"`
	Filtered       *table.Dataset `json:"-"`
}

// Analyzer sweeps a dataset's features against a target variable. The two
// result lists are also written to Out as they are produced; reporting is an
// observable side effect, not just the return value.
type Analyzer struct {
	Out io.Writer
}

// NewAnalyzer creates an analyzer writing its textual report to out.
// A nil writer falls back to standard output.
func NewAnalyzer(out io.Writer) *Analyzer {
	if out == nil {
		out = os.Stdout
	}
	return &Analyzer{Out: out}
}

// AnalyzeFeatures tests every column other than target against the target
// variable using the remove missing-data strategy and partitions the columns
// at the supplied significance level. A result without a p-value counts as
// never significant. Per-column execution failures are absorbed into the
// non-significant list so the sweep completes; column-reference failures
// abort the run.
func (a *Analyzer) AnalyzeFeatures(ds *table.Dataset, target string, alpha float64) (*Report, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, core.NewInvalidConfigurationError("alpha",
			fmt.Sprintf("must be in (0, 1), got %v", alpha))
	}
	if _, err := ds.Column(target); err != nil {
		return nil, err
	}

	report := &Report{
		Target:         target,
		Alpha:          alpha,
		Significant:    []string{},
		NonSignificant: []string{},
	}

	for _, feature := range ds.ColumnNames() {
		if feature == target {
			continue
		}

		result, err := ExecuteTest(ds, feature, target, ExecOptions{Missing: MissingRemove})
		if err != nil {
			if core.IsExecutionError(err) {
				// The test could not run for this column; it cannot be
				// significant, but the sweep continues.
				report.NonSignificant = append(report.NonSignificant, feature)
				continue
			}
			return nil, fmt.Errorf("feature %q: %w", feature, err)
		}

		if result.PValue() < alpha {
			report.Significant = append(report.Significant, feature)
		} else {
			report.NonSignificant = append(report.NonSignificant, feature)
		}
	}

	fmt.Fprintf(a.Out, "Significant features: %v\n", report.Significant)
	fmt.Fprintf(a.Out, "Non-significant features: %v\n", report.NonSignificant)

	filtered, err := ds.Select(append(append([]string{}, report.Significant...), target)...)
	if err != nil {
		return nil, err
	}
	report.Filtered = filtered

	return report, nil
}

// AnalyzeFeatures runs a feature sweep with the default analyzer, reporting
// to standard output.
func AnalyzeFeatures(ds *table.Dataset, target string, alpha float64) (*Report, error) {
	return NewAnalyzer(nil).AnalyzeFeatures(ds, target, alpha)
}
