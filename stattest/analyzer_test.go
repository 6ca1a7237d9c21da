package stattest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"statkit/domain/core"
)

func TestAnalyzeFeatures_NoiseIsMostlyNonSignificant(t *testing.T) {
	src := newNormSource(2024)
	n := 60
	numFeatures := 8

	ds := newDataset(t, numCol(t, "target", src.sample(n, 0, 1), nil))
	for i := 0; i < numFeatures; i++ {
		name := fmt.Sprintf("noise_%d", i)
		if err := ds.AddColumn(numCol(t, name, src.sample(n, 0, 1), nil)); err != nil {
			t.Fatalf("AddColumn %s: %v", name, err)
		}
	}

	var out bytes.Buffer
	report, err := NewAnalyzer(&out).AnalyzeFeatures(ds, "target", 0.05)
	if err != nil {
		t.Fatalf("AnalyzeFeatures: %v", err)
	}

	// Two numeric features with n > 30 run the two-sample t-test; pure noise
	// against noise should mostly fail to reach significance. Statistical,
	// not exact: the seeded generator makes the outcome reproducible.
	if len(report.NonSignificant) <= numFeatures/2 {
		t.Errorf("expected majority non-significant, got %d of %d",
			len(report.NonSignificant), numFeatures)
	}
}

func TestAnalyzeFeatures_PartitionIsExact(t *testing.T) {
	src := newNormSource(11)
	n := 40
	ds := newDataset(t,
		numCol(t, "target", src.sample(n, 0, 1), nil),
		numCol(t, "shifted", src.sample(n, 10, 1), nil),
		numCol(t, "noise", src.sample(n, 0, 1), nil),
		catCol(t, "label", repeatLabels([]string{"a", "b"}, n), nil),
	)

	var out bytes.Buffer
	report, err := NewAnalyzer(&out).AnalyzeFeatures(ds, "target", 0.05)
	if err != nil {
		t.Fatalf("AnalyzeFeatures: %v", err)
	}

	seen := make(map[string]int)
	for _, f := range report.Significant {
		seen[f]++
	}
	for _, f := range report.NonSignificant {
		seen[f]++
	}

	for _, name := range ds.ColumnNames() {
		if name == "target" {
			if seen[name] != 0 {
				t.Errorf("target should not be partitioned, seen %d times", seen[name])
			}
			continue
		}
		if seen[name] != 1 {
			t.Errorf("column %q appears %d times in partition, want exactly 1", name, seen[name])
		}
	}

	// Filtered dataset: significant columns plus the target.
	wantCols := len(report.Significant) + 1
	if report.Filtered.NumColumns() != wantCols {
		t.Errorf("filtered dataset has %d columns, want %d", report.Filtered.NumColumns(), wantCols)
	}
	if !report.Filtered.HasColumn("target") {
		t.Error("filtered dataset must retain the target")
	}
}

func TestAnalyzeFeatures_MixedFeatureTypes(t *testing.T) {
	src := newNormSource(31)
	n := 20
	// target is categorical: numeric features go through ANOVA, the
	// categorical feature through chi-squared independence.
	ds := newDataset(t,
		catCol(t, "target", repeatLabels([]string{"yes", "no"}, n), nil),
		numCol(t, "separated", groupShifted(src, n, 6), nil),
		numCol(t, "noise", src.sample(n, 0, 1), nil),
		catCol(t, "other", repeatLabels([]string{"x", "y"}, n), nil),
	)

	var out bytes.Buffer
	report, err := NewAnalyzer(&out).AnalyzeFeatures(ds, "target", 0.05)
	if err != nil {
		t.Fatalf("AnalyzeFeatures: %v", err)
	}

	found := false
	for _, f := range report.Significant {
		if f == "separated" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q significant, report: %+v", "separated", report)
	}

	text := out.String()
	if !strings.Contains(text, "Significant features:") ||
		!strings.Contains(text, "Non-significant features:") {
		t.Errorf("expected both lists in textual report, got %q", text)
	}
}

func TestAnalyzeFeatures_ExecutionFailureIsAbsorbed(t *testing.T) {
	// Small sample, numeric target, numeric feature: the rule table selects
	// ANOVA, which fails the type check. The sweep must continue and file
	// the column as non-significant instead of aborting.
	src := newNormSource(77)
	n := 20
	ds := newDataset(t,
		numCol(t, "target", src.sample(n, 0, 1), nil),
		numCol(t, "anova_misfit", src.sample(n, 0, 1), nil),
		catCol(t, "label", repeatLabels([]string{"a", "b"}, n), nil),
	)

	var out bytes.Buffer
	report, err := NewAnalyzer(&out).AnalyzeFeatures(ds, "target", 0.05)
	if err != nil {
		t.Fatalf("AnalyzeFeatures: %v", err)
	}

	found := false
	for _, f := range report.NonSignificant {
		if f == "anova_misfit" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected failing column filed as non-significant, report: %+v", report)
	}
}

func TestAnalyzeFeatures_InvalidAlpha(t *testing.T) {
	ds := newDataset(t, numCol(t, "target", sequence(10), nil))

	for _, alpha := range []float64{0, 1, -0.5, 2} {
		_, err := AnalyzeFeatures(ds, "target", alpha)
		if !errors.Is(err, core.ErrInvalidConfiguration) {
			t.Errorf("alpha=%v: expected ErrInvalidConfiguration, got %v", alpha, err)
		}
	}
}

func TestAnalyzeFeatures_UnknownTarget(t *testing.T) {
	ds := newDataset(t, numCol(t, "x", sequence(10), nil))

	_, err := AnalyzeFeatures(ds, "nope", 0.05)
	if !errors.Is(err, core.ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}

// groupShifted alternates values between two well-separated group means,
// matching the alternating yes/no target labels.
func groupShifted(src *normSource, n int, shift float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		mean := 0.0
		if i%2 == 1 {
			mean = shift
		}
		out[i] = mean + src.next()
	}
	return out
}
