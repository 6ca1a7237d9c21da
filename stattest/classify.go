package stattest

import (
	"statkit/domain/table"
)

// Classify reports whether a column holds numerical or categorical values.
// Classification is derived from the column's underlying storage on every
// call - it is pure, never cached, and safe to re-run after the data changes
// (for example after imputation).
func Classify(ds *table.Dataset, column string) (FeatureType, error) {
	col, err := ds.Column(column)
	if err != nil {
		return Categorical, err
	}
	if col.Kind() == table.KindNumeric {
		return Numerical, nil
	}
	return Categorical, nil
}
