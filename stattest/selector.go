package stattest

import (
	"statkit/domain/table"
)

// SelectTest deterministically names the statistical test for one or two
// features. feature2 may be empty for single-feature analysis. The decision
// is a pure function of the feature types, the dataset's row count, and the
// paired flag.
//
// Decision table (n = dataset row count):
//
//	one feature,  categorical                  -> chi-squared goodness of fit
//	one feature,  numerical,   n <= 30         -> one-sample t-test
//	one feature,  numerical,   n >  30         -> Z-test
//	two features, both categorical             -> chi-squared independence
//	two features, both numerical, paired       -> paired t-test
//	two features, both numerical, n >  30      -> two-sample t-test
//	two features, both numerical, n <= 30      -> ANOVA
//	two features, mixed types (either order)   -> ANOVA
//	otherwise                                  -> TestUndetermined
//
// The 30-observation threshold and the ANOVA mapping for small unpaired
// numerical pairs are fixed rules and are not configurable.
func SelectTest(ds *table.Dataset, feature1, feature2 string, paired bool) (TestKind, error) {
	type1, err := Classify(ds, feature1)
	if err != nil {
		return TestUndetermined, err
	}

	sampleSize := ds.Len()

	if feature2 == "" {
		switch type1 {
		case Categorical:
			return TestChiSquareGoodnessOfFit, nil
		case Numerical:
			if sampleSize <= smallSampleMax {
				return TestOneSampleT, nil
			}
			return TestZ, nil
		}
		return TestUndetermined, nil
	}

	type2, err := Classify(ds, feature2)
	if err != nil {
		return TestUndetermined, err
	}

	if type1 == type2 {
		switch type1 {
		case Categorical:
			return TestChiSquareIndependence, nil
		case Numerical:
			if paired {
				return TestPairedT, nil
			}
			if sampleSize > smallSampleMax {
				return TestTwoSampleT, nil
			}
			return TestANOVA, nil
		}
		return TestUndetermined, nil
	}

	// Mixed numerical/categorical, either order
	return TestANOVA, nil
}
