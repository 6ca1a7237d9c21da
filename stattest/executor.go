package stattest

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"statkit/domain/core"
	"statkit/domain/table"
)

// ExecOptions controls test execution
type ExecOptions struct {
	// Paired marks the two numerical samples as paired observations.
	Paired bool
	// Missing selects the missing-data strategy; empty means remove.
	Missing MissingStrategy
}

// ExecuteTest cleans the features under test, re-selects the appropriate
// test on the cleaned data (row removal may change the sample size and with
// it the selection), and computes the test's statistics.
//
// Column-reference failures propagate; per-test execution failures (ANOVA
// type mismatch, unsupported or undetermined test) come back wrapped in the
// core sentinel errors so batch callers can absorb them and continue.
func ExecuteTest(ds *table.Dataset, feature1, feature2 string, opts ExecOptions) (*Result, error) {
	strategy := opts.Missing
	if strategy == "" {
		strategy = MissingRemove
	}

	clean, err := Resolve(ds, feature1, feature2, strategy)
	if err != nil {
		return nil, err
	}

	kind, err := SelectTest(clean, feature1, feature2, opts.Paired)
	if err != nil {
		return nil, err
	}

	switch kind {
	case TestZ:
		col, err := clean.Column(feature1)
		if err != nil {
			return nil, err
		}
		return zTest(col.NonMissingFloats())

	case TestOneSampleT:
		col, err := clean.Column(feature1)
		if err != nil {
			return nil, err
		}
		sample := col.NonMissingFloats()
		// The hypothesized population mean is the cleaned column's own
		// mean, so the statistic degenerates to zero.
		popMean, err := stats.Mean(sample)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", feature1, core.ErrEmptySample)
		}
		return oneSampleTTest(sample, popMean)

	case TestTwoSampleT, TestPairedT:
		sample1, sample2, err := numericSamples(clean, feature1, feature2)
		if err != nil {
			return nil, err
		}
		if kind == TestPairedT {
			return pairedTTest(sample1, sample2)
		}
		return twoSampleTTest(sample1, sample2)

	case TestANOVA:
		return anovaTest(clean, feature1, feature2)

	case TestChiSquareIndependence:
		contingency, err := clean.Crosstab(feature1, feature2)
		if err != nil {
			return nil, err
		}
		return chiSquareIndependenceTest(contingency)

	case TestChiSquareGoodnessOfFit:
		return nil, core.NewUnsupportedTestError(kind.String())

	default:
		return nil, core.ErrUndeterminedTest
	}
}

// ExecuteTestDetailed runs ExecuteTest and condenses the outcome into a
// three-field summary with the fixed 0.05 cutoff.
func ExecuteTestDetailed(ds *table.Dataset, feature1, feature2 string, opts ExecOptions) (Summary, error) {
	result, err := ExecuteTest(ds, feature1, feature2, opts)
	if err != nil {
		return Summary{}, err
	}
	return result.Summarize(), nil
}

func numericSamples(ds *table.Dataset, feature1, feature2 string) ([]float64, []float64, error) {
	col1, err := ds.Column(feature1)
	if err != nil {
		return nil, nil, err
	}
	col2, err := ds.Column(feature2)
	if err != nil {
		return nil, nil, err
	}
	return col1.NonMissingFloats(), col2.NonMissingFloats(), nil
}

// zTest computes z = mean / (s / sqrt(n)) with a two-sided p-value from the
// standard normal survival function.
func zTest(sample []float64) (*Result, error) {
	n := len(sample)
	if n < 2 {
		return nil, core.ErrEmptySample
	}
	mean, err := stats.Mean(sample)
	if err != nil {
		return nil, err
	}
	sd, err := stats.StandardDeviationSample(sample)
	if err != nil {
		return nil, err
	}
	z := mean / (sd / math.Sqrt(float64(n)))
	return &Result{
		Test: TestZ,
		Stats: map[string]float64{
			FieldZScore: z,
			FieldPValue: dist.normalTwoSidedP(z),
		},
	}, nil
}

// oneSampleTTest tests a sample mean against a hypothesized population mean.
func oneSampleTTest(sample []float64, popMean float64) (*Result, error) {
	n := len(sample)
	if n < 2 {
		return nil, core.ErrEmptySample
	}
	mean, err := stats.Mean(sample)
	if err != nil {
		return nil, err
	}
	sd, err := stats.StandardDeviationSample(sample)
	if err != nil {
		return nil, err
	}
	t := (mean - popMean) / (sd / math.Sqrt(float64(n)))
	df := float64(n - 1)
	return &Result{
		Test: TestOneSampleT,
		Stats: map[string]float64{
			FieldTStatistic: t,
			FieldPValue:     dist.tTwoSidedP(t, df),
		},
	}, nil
}

// twoSampleTTest computes the independent two-sample t statistic with pooled
// variance (equal variances assumed) and df = n1 + n2 - 2.
func twoSampleTTest(sample1, sample2 []float64) (*Result, error) {
	n1, n2 := len(sample1), len(sample2)
	if n1 < 2 || n2 < 2 {
		return nil, core.ErrEmptySample
	}
	mean1, err := stats.Mean(sample1)
	if err != nil {
		return nil, err
	}
	mean2, err := stats.Mean(sample2)
	if err != nil {
		return nil, err
	}
	var1, err := stats.SampleVariance(sample1)
	if err != nil {
		return nil, err
	}
	var2, err := stats.SampleVariance(sample2)
	if err != nil {
		return nil, err
	}

	df := float64(n1 + n2 - 2)
	pooled := (float64(n1-1)*var1 + float64(n2-1)*var2) / df
	se := math.Sqrt(pooled * (1/float64(n1) + 1/float64(n2)))
	t := (mean1 - mean2) / se

	return &Result{
		Test: TestTwoSampleT,
		Stats: map[string]float64{
			FieldTStatistic: t,
			FieldPValue:     dist.tTwoSidedP(t, df),
		},
	}, nil
}

// pairedTTest computes the paired t statistic over per-observation
// differences.
func pairedTTest(sample1, sample2 []float64) (*Result, error) {
	if len(sample1) != len(sample2) {
		return nil, fmt.Errorf("paired samples: %w: %d vs %d",
			core.ErrLengthMismatch, len(sample1), len(sample2))
	}
	n := len(sample1)
	if n < 2 {
		return nil, core.ErrEmptySample
	}

	diffs := make([]float64, n)
	for i := range sample1 {
		diffs[i] = sample1[i] - sample2[i]
	}
	meanDiff, err := stats.Mean(diffs)
	if err != nil {
		return nil, err
	}
	sdDiff, err := stats.StandardDeviationSample(diffs)
	if err != nil {
		return nil, err
	}

	df := float64(n - 1)
	t := meanDiff / (sdDiff / math.Sqrt(float64(n)))
	return &Result{
		Test: TestPairedT,
		Stats: map[string]float64{
			FieldTStatistic: t,
			FieldPValue:     dist.tTwoSidedP(t, df),
		},
	}, nil
}

// anovaTest identifies which feature is numeric and which categorical,
// groups the numeric values by the categorical levels, and computes the
// one-way F statistic. Both-or-neither-numeric pairs fail with a type
// mismatch, which also covers the small-sample two-numerical selection path.
func anovaTest(ds *table.Dataset, feature1, feature2 string) (*Result, error) {
	if feature2 == "" {
		return nil, fmt.Errorf("%w: second feature absent", core.ErrAnovaTypeMismatch)
	}
	type1, err := Classify(ds, feature1)
	if err != nil {
		return nil, err
	}
	type2, err := Classify(ds, feature2)
	if err != nil {
		return nil, err
	}

	var numeric, categorical string
	switch {
	case type1 == Numerical && type2 == Categorical:
		numeric, categorical = feature1, feature2
	case type2 == Numerical && type1 == Categorical:
		numeric, categorical = feature2, feature1
	default:
		return nil, fmt.Errorf("%w: %q is %s, %q is %s",
			core.ErrAnovaTypeMismatch, feature1, type1, feature2, type2)
	}

	groups, err := ds.GroupBy(categorical, numeric)
	if err != nil {
		return nil, err
	}
	return oneWayANOVA(groups)
}

// oneWayANOVA computes the one-way F statistic across groups.
func oneWayANOVA(groups []table.Group) (*Result, error) {
	if len(groups) < 2 {
		return nil, fmt.Errorf("ANOVA needs at least two groups: %w", core.ErrEmptySample)
	}

	totalN := 0
	grandSum := 0.0
	for _, g := range groups {
		totalN += len(g.Values)
		for _, v := range g.Values {
			grandSum += v
		}
	}
	if totalN <= len(groups) {
		return nil, fmt.Errorf("ANOVA needs more observations than groups: %w", core.ErrEmptySample)
	}
	grandMean := grandSum / float64(totalN)

	ssBetween := 0.0
	ssWithin := 0.0
	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}
		groupMean, err := stats.Mean(g.Values)
		if err != nil {
			return nil, err
		}
		diff := groupMean - grandMean
		ssBetween += float64(len(g.Values)) * diff * diff
		for _, v := range g.Values {
			d := v - groupMean
			ssWithin += d * d
		}
	}

	df1 := float64(len(groups) - 1)
	df2 := float64(totalN - len(groups))
	f := (ssBetween / df1) / (ssWithin / df2)

	return &Result{
		Test: TestANOVA,
		Stats: map[string]float64{
			FieldFStatistic: f,
			FieldPValue:     dist.fUpperTailP(f, df1, df2),
		},
	}, nil
}

// chiSquareIndependenceTest computes the chi-squared statistic, p-value,
// degrees of freedom, and expected-frequency table for a contingency table.
// Yates' continuity correction applies at one degree of freedom, matching
// the conventional contingency-test default.
func chiSquareIndependenceTest(t *table.Contingency) (*Result, error) {
	rows := len(t.RowLevels)
	cols := len(t.ColLevels)
	total := t.Total()
	if rows == 0 || cols == 0 || total == 0 {
		return nil, fmt.Errorf("contingency table: %w", core.ErrEmptySample)
	}

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rowTotals[i] += t.Counts[i][j]
			colTotals[j] += t.Counts[i][j]
		}
	}

	expected := make([][]float64, rows)
	for i := range expected {
		expected[i] = make([]float64, cols)
		for j := range expected[i] {
			expected[i][j] = rowTotals[i] * colTotals[j] / total
		}
	}

	df := float64((rows - 1) * (cols - 1))
	if df <= 0 {
		return &Result{
			Test: TestChiSquareIndependence,
			Stats: map[string]float64{
				FieldChi2Statistic: 0,
				FieldPValue:        1,
				FieldDegreesOfFree: 0,
			},
			ExpectedFrequencies: expected,
		}, nil
	}

	yates := df == 1
	chi2 := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			e := expected[i][j]
			if e == 0 {
				continue
			}
			observed := t.Counts[i][j]
			if yates {
				// Shift observed toward expected by 0.5.
				observed += 0.5 * sign(e-observed)
			}
			d := observed - e
			chi2 += d * d / e
		}
	}

	return &Result{
		Test: TestChiSquareIndependence,
		Stats: map[string]float64{
			FieldChi2Statistic: chi2,
			FieldPValue:        dist.chiSquareUpperTailP(chi2, df),
			FieldDegreesOfFree: df,
		},
		ExpectedFrequencies: expected,
	}, nil
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
