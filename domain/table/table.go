// Package table provides the columnar in-memory dataset the statistical
// engine operates on: ordered named columns, numeric or categorical storage,
// and a per-value missing mask.
package table

import (
	"fmt"
	"strconv"

	"statkit/domain/core"
)

// Kind discriminates a column's underlying value storage.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

// String returns a human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is an ordered sequence of values of a single kind with a missing
// mask. Values and mask always have equal length.
type Column struct {
	name string
	kind Kind
	nums []float64
	cats []string
	miss []bool
}

// NewNumericColumn creates a numeric column. A nil missing mask means every
// value is present.
func NewNumericColumn(name string, values []float64, missing []bool) (*Column, error) {
	miss, err := normalizeMask(len(values), missing)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return &Column{
		name: name,
		kind: KindNumeric,
		nums: append([]float64(nil), values...),
		miss: miss,
	}, nil
}

// NewCategoricalColumn creates a categorical column. A nil missing mask means
// every value is present.
func NewCategoricalColumn(name string, values []string, missing []bool) (*Column, error) {
	miss, err := normalizeMask(len(values), missing)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", name, err)
	}
	return &Column{
		name: name,
		kind: KindCategorical,
		cats: append([]string(nil), values...),
		miss: miss,
	}, nil
}

func normalizeMask(n int, missing []bool) ([]bool, error) {
	if missing == nil {
		return make([]bool, n), nil
	}
	if len(missing) != n {
		return nil, fmt.Errorf("%w: %d values, %d mask entries", core.ErrLengthMismatch, n, len(missing))
	}
	return append([]bool(nil), missing...), nil
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Kind returns the column's storage kind
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows, missing included
func (c *Column) Len() int {
	if c.kind == KindNumeric {
		return len(c.nums)
	}
	return len(c.cats)
}

// IsMissing reports whether the value at row i is missing
func (c *Column) IsMissing(i int) bool { return c.miss[i] }

// MissingCount returns the number of missing values
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.miss {
		if m {
			n++
		}
	}
	return n
}

// Float returns the numeric value at row i. Only meaningful for numeric
// columns and present values.
func (c *Column) Float(i int) float64 { return c.nums[i] }

// Label returns the categorical value at row i. Only meaningful for
// categorical columns and present values.
func (c *Column) Label(i int) string { return c.cats[i] }

// NonMissingFloats returns the present numeric values in row order.
func (c *Column) NonMissingFloats() []float64 {
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if !c.miss[i] {
			out = append(out, v)
		}
	}
	return out
}

// NonMissingLabels returns the present categorical values in row order.
func (c *Column) NonMissingLabels() []string {
	out := make([]string, 0, len(c.cats))
	for i, v := range c.cats {
		if !c.miss[i] {
			out = append(out, v)
		}
	}
	return out
}

// FillMissingFloat replaces every missing entry of a numeric column with v
// and clears its mask.
func (c *Column) FillMissingFloat(v float64) {
	for i, m := range c.miss {
		if m {
			c.nums[i] = v
			c.miss[i] = false
		}
	}
}

// FillMissingLabel replaces every missing entry of a categorical column with
// v and clears its mask.
func (c *Column) FillMissingLabel(v string) {
	for i, m := range c.miss {
		if m {
			c.cats[i] = v
			c.miss[i] = false
		}
	}
}

// levelKey renders the value at row i as a grouping level. Categorical
// columns group by label, numeric columns by formatted value.
func (c *Column) levelKey(i int) string {
	if c.kind == KindCategorical {
		return c.cats[i]
	}
	return strconv.FormatFloat(c.nums[i], 'g', -1, 64)
}

func (c *Column) clone() *Column {
	return &Column{
		name: c.name,
		kind: c.kind,
		nums: append([]float64(nil), c.nums...),
		cats: append([]string(nil), c.cats...),
		miss: append([]bool(nil), c.miss...),
	}
}

func (c *Column) filter(keep []bool) *Column {
	out := &Column{name: c.name, kind: c.kind}
	for i := 0; i < c.Len(); i++ {
		if !keep[i] {
			continue
		}
		if c.kind == KindNumeric {
			out.nums = append(out.nums, c.nums[i])
		} else {
			out.cats = append(out.cats, c.cats[i])
		}
		out.miss = append(out.miss, c.miss[i])
	}
	return out
}

// Dataset is an ordered collection of named, equal-length columns.
type Dataset struct {
	cols  []*Column
	index map[string]int
}

// New creates an empty dataset
func New() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// AddColumn appends a column. Column names are unique and every column must
// match the dataset's row count.
func (d *Dataset) AddColumn(c *Column) error {
	if _, ok := d.index[c.name]; ok {
		return fmt.Errorf("%w: %q", core.ErrDuplicateColumn, c.name)
	}
	if len(d.cols) > 0 && c.Len() != d.Len() {
		return fmt.Errorf("column %q: %w: dataset has %d rows, column has %d",
			c.name, core.ErrLengthMismatch, d.Len(), c.Len())
	}
	d.index[c.name] = len(d.cols)
	d.cols = append(d.cols, c)
	return nil
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, core.NewUnknownColumnError(name)
	}
	return d.cols[i], nil
}

// HasColumn reports whether a column exists
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnNames returns the column names in insertion order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.name
	}
	return names
}

// NumColumns returns the number of columns
func (d *Dataset) NumColumns() int { return len(d.cols) }

// Len returns the number of rows
func (d *Dataset) Len() int {
	if len(d.cols) == 0 {
		return 0
	}
	return d.cols[0].Len()
}

// Clone returns a deep copy. Mutations of the copy never reach the original.
func (d *Dataset) Clone() *Dataset {
	out := New()
	for _, c := range d.cols {
		out.index[c.name] = len(out.cols)
		out.cols = append(out.cols, c.clone())
	}
	return out
}

// DropMissing returns a new dataset keeping only rows where every named
// column has a present value. All columns are retained. The receiver is not
// modified.
func (d *Dataset) DropMissing(columns ...string) (*Dataset, error) {
	checked := make([]*Column, 0, len(columns))
	for _, name := range columns {
		c, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		checked = append(checked, c)
	}

	keep := make([]bool, d.Len())
	for i := range keep {
		keep[i] = true
		for _, c := range checked {
			if c.IsMissing(i) {
				keep[i] = false
				break
			}
		}
	}

	out := New()
	for _, c := range d.cols {
		out.index[c.name] = len(out.cols)
		out.cols = append(out.cols, c.filter(keep))
	}
	return out, nil
}

// Select returns a new dataset containing only the named columns, in the
// given order. Columns are deep-copied.
func (d *Dataset) Select(columns ...string) (*Dataset, error) {
	out := New()
	for _, name := range columns {
		c, err := d.Column(name)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(c.clone()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Group is one level of a categorical feature together with the numeric
// values observed at that level.
type Group struct {
	Level  string
	Values []float64
}

// GroupBy partitions the numeric column's present values by the levels of
// the grouping column. Rows missing in either column are skipped. Levels
// appear in first-encounter order.
func (d *Dataset) GroupBy(by, numeric string) ([]Group, error) {
	byCol, err := d.Column(by)
	if err != nil {
		return nil, err
	}
	numCol, err := d.Column(numeric)
	if err != nil {
		return nil, err
	}
	if numCol.Kind() != KindNumeric {
		return nil, fmt.Errorf("column %q: expected numeric values for grouping", numeric)
	}

	var groups []Group
	seen := make(map[string]int)
	for i := 0; i < d.Len(); i++ {
		if byCol.IsMissing(i) || numCol.IsMissing(i) {
			continue
		}
		level := byCol.levelKey(i)
		gi, ok := seen[level]
		if !ok {
			gi = len(groups)
			seen[level] = gi
			groups = append(groups, Group{Level: level})
		}
		groups[gi].Values = append(groups[gi].Values, numCol.Float(i))
	}
	return groups, nil
}

// Contingency is a cross-tabulation of two features' joint value counts.
// Levels are ordered by first encounter.
type Contingency struct {
	RowLevels []string
	ColLevels []string
	Counts    [][]float64
}

// Total returns the grand total of all cell counts
func (t *Contingency) Total() float64 {
	sum := 0.0
	for _, row := range t.Counts {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

// Crosstab builds the contingency table of two columns. Rows missing in
// either column are skipped.
func (d *Dataset) Crosstab(a, b string) (*Contingency, error) {
	colA, err := d.Column(a)
	if err != nil {
		return nil, err
	}
	colB, err := d.Column(b)
	if err != nil {
		return nil, err
	}

	t := &Contingency{}
	rowIdx := make(map[string]int)
	colIdx := make(map[string]int)
	type cell struct{ r, c int }
	var cells []cell

	for i := 0; i < d.Len(); i++ {
		if colA.IsMissing(i) || colB.IsMissing(i) {
			continue
		}
		ra := colA.levelKey(i)
		cb := colB.levelKey(i)
		ri, ok := rowIdx[ra]
		if !ok {
			ri = len(t.RowLevels)
			rowIdx[ra] = ri
			t.RowLevels = append(t.RowLevels, ra)
		}
		ci, ok := colIdx[cb]
		if !ok {
			ci = len(t.ColLevels)
			colIdx[cb] = ci
			t.ColLevels = append(t.ColLevels, cb)
		}
		cells = append(cells, cell{ri, ci})
	}

	t.Counts = make([][]float64, len(t.RowLevels))
	for i := range t.Counts {
		t.Counts[i] = make([]float64, len(t.ColLevels))
	}
	for _, c := range cells {
		t.Counts[c.r][c.c]++
	}
	return t, nil
}
