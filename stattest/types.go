// Package stattest implements automated statistical test selection and
// execution over tabular features: it maps feature types, sample size, and a
// pairing flag to a named hypothesis test, runs it, and aggregates per-feature
// significance against a target variable.
package stattest

// FeatureType classifies a column's values
type FeatureType int

const (
	Numerical FeatureType = iota
	Categorical
)

// String returns a human-readable feature type name
func (t FeatureType) String() string {
	if t == Numerical {
		return "numerical"
	}
	return "categorical"
}

// TestKind is the closed set of statistical tests the selector can name.
// The zero value is the explicit "undetermined" sentinel; callers must check
// for it rather than treating it as a runnable test.
type TestKind int

const (
	TestUndetermined TestKind = iota
	TestChiSquareGoodnessOfFit
	TestOneSampleT
	TestZ
	TestChiSquareIndependence
	TestPairedT
	TestTwoSampleT
	TestANOVA
)

// String returns the test's conventional display name
func (k TestKind) String() string {
	switch k {
	case TestChiSquareGoodnessOfFit:
		return "Chi-squared goodness of fit test"
	case TestOneSampleT:
		return "One-sample t-test"
	case TestZ:
		return "Z-test"
	case TestChiSquareIndependence:
		return "Chi-squared test of independence"
	case TestPairedT:
		return "Paired t-test"
	case TestTwoSampleT:
		return "Two-sample t-test"
	case TestANOVA:
		return "ANOVA"
	default:
		return "Unable to determine an appropriate test"
	}
}

// MissingStrategy names a missing-data handling strategy
type MissingStrategy string

const (
	// MissingRemove drops rows with a missing value in any tested feature.
	MissingRemove MissingStrategy = "remove"
	// MissingImpute fills numeric gaps with the column mean and categorical
	// gaps with the column mode.
	MissingImpute MissingStrategy = "impute"
)

// Fixed business rules. The sample-size threshold and the summary cutoff are
// deliberate constants, not derived values; see the selector decision table.
const (
	// smallSampleMax is the largest sample size still treated as "small"
	// when choosing between exact and large-sample tests (inclusive).
	smallSampleMax = 30

	// summaryAlpha is the hardcoded significance cutoff used only by the
	// detailed summary outcome, independent of any caller-supplied alpha.
	summaryAlpha = 0.05
)

// Result field names shared across tests
const (
	FieldPValue        = "p_value"
	FieldTStatistic    = "t_statistic"
	FieldZScore        = "z_score"
	FieldFStatistic    = "f_statistic"
	FieldChi2Statistic = "chi2_statistic"
	FieldDegreesOfFree = "degrees_of_freedom"
)

// Result is the outcome of a successfully executed test: the test that ran
// and its named statistics. ExpectedFrequencies is populated only by the
// chi-squared test of independence. Results are ephemeral - produced fresh
// per invocation, never cached.
type Result struct {
	Test                TestKind           `json:"test"`
	Stats               map[string]float64 `json:"stats"`
	ExpectedFrequencies [][]float64        `json:"expected_frequencies,omitempty"`
}

// PValue returns the result's p-value, defaulting to 1 (never significant)
// when the executed test produced none.
func (r *Result) PValue() float64 {
	if r == nil || r.Stats == nil {
		return 1
	}
	if p, ok := r.Stats[FieldPValue]; ok {
		return p
	}
	return 1
}

// Summary is the condensed, human-oriented form of a result
type Summary struct {
	TestName    string  `json:"test_name"`
	TestOutcome string  `json:"test_outcome"`
	PValue      float64 `json:"p_value"`
}

// Summarize condenses a result. The outcome threshold is the fixed
// summaryAlpha, not a caller-supplied significance level.
func (r *Result) Summarize() Summary {
	outcome := "Not Significant"
	if r.PValue() < summaryAlpha {
		outcome = "Significant"
	}
	return Summary{
		TestName:    r.Test.String(),
		TestOutcome: outcome,
		PValue:      r.PValue(),
	}
}
