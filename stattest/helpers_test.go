package stattest

import (
	"math"
	"testing"

	"statkit/domain/table"
)

// Test data builders shared across the package tests.

func newDataset(t *testing.T, cols ...*table.Column) *table.Dataset {
	t.Helper()
	ds := table.New()
	for _, c := range cols {
		if err := ds.AddColumn(c); err != nil {
			t.Fatalf("AddColumn %q: %v", c.Name(), err)
		}
	}
	return ds
}

func numCol(t *testing.T, name string, values []float64, missing []bool) *table.Column {
	t.Helper()
	col, err := table.NewNumericColumn(name, values, missing)
	if err != nil {
		t.Fatalf("NewNumericColumn(%q): %v", name, err)
	}
	return col
}

func catCol(t *testing.T, name string, values []string, missing []bool) *table.Column {
	t.Helper()
	col, err := table.NewCategoricalColumn(name, values, missing)
	if err != nil {
		t.Fatalf("NewCategoricalColumn(%q): %v", name, err)
	}
	return col
}

func sequence(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func repeatLabels(labels []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = labels[i%len(labels)]
	}
	return out
}

// Deterministic pseudo-random normal deviates (Box-Muller over a linear
// congruential generator) so statistical expectations are reproducible.
type normSource struct {
	state float64
}

func newNormSource(seed float64) *normSource {
	return &normSource{state: seed}
}

func (s *normSource) next() float64 {
	s.state = math.Mod(s.state*1103515245+12345, 2147483648)
	u1 := (s.state + 1) / 2147483649.0

	s.state = math.Mod(s.state*1103515245+12345, 2147483648)
	u2 := (s.state + 1) / 2147483649.0

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func (s *normSource) sample(n int, mean, sd float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + sd*s.next()
	}
	return out
}
