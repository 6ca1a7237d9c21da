package stattest

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"statkit/domain/core"
	"statkit/domain/table"
)

// Resolve applies a missing-data strategy to the features under test and
// returns the cleaned dataset. The caller's dataset is never mutated: remove
// produces a filtered view and impute fills gaps on a deep copy.
func Resolve(ds *table.Dataset, feature1, feature2 string, strategy MissingStrategy) (*table.Dataset, error) {
	switch strategy {
	case MissingRemove:
		features := []string{feature1}
		if feature2 != "" {
			features = append(features, feature2)
		}
		return ds.DropMissing(features...)

	case MissingImpute:
		clean := ds.Clone()
		for _, feature := range []string{feature1, feature2} {
			if feature == "" {
				continue
			}
			if err := imputeColumn(clean, feature); err != nil {
				return nil, err
			}
		}
		return clean, nil

	default:
		return nil, core.NewInvalidConfigurationError("missing_strategy",
			fmt.Sprintf("unrecognized strategy %q", strategy))
	}
}

// imputeColumn fills a column's gaps in place: mean for numeric values, most
// frequent value for categorical ones.
func imputeColumn(ds *table.Dataset, feature string) error {
	col, err := ds.Column(feature)
	if err != nil {
		return err
	}
	if col.MissingCount() == 0 {
		return nil
	}

	if col.Kind() == table.KindNumeric {
		values := col.NonMissingFloats()
		if len(values) == 0 {
			return fmt.Errorf("column %q: %w", feature, core.ErrEmptySample)
		}
		mean, err := stats.Mean(values)
		if err != nil {
			return fmt.Errorf("column %q: %w", feature, err)
		}
		col.FillMissingFloat(mean)
		return nil
	}

	mode, ok := labelMode(col.NonMissingLabels())
	if !ok {
		return fmt.Errorf("column %q: %w", feature, core.ErrEmptySample)
	}
	col.FillMissingLabel(mode)
	return nil
}

// labelMode returns the most frequent label. Ties resolve to the label
// encountered first.
func labelMode(labels []string) (string, bool) {
	if len(labels) == 0 {
		return "", false
	}
	counts := make(map[string]int, len(labels))
	best := labels[0]
	bestCount := 0
	for _, l := range labels {
		counts[l]++
		if counts[l] > bestCount {
			best = l
			bestCount = counts[l]
		}
	}
	return best, true
}
