package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/table"
)

const sampleCSV = `age,income,segment,active
34,52000,consumer,true
41,,enterprise,false
28,31000,consumer,true
NA,47500,smb,false
52,88000,enterprise,true
`

func TestFromCSV_TypesAndMissing(t *testing.T) {
	ds, err := FromCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, []string{"age", "income", "segment", "active"}, ds.ColumnNames())

	age, err := ds.Column("age")
	require.NoError(t, err)
	assert.Equal(t, table.KindNumeric, age.Kind())
	assert.Equal(t, 1, age.MissingCount())

	income, err := ds.Column("income")
	require.NoError(t, err)
	assert.Equal(t, table.KindNumeric, income.Kind())
	assert.Equal(t, 1, income.MissingCount())

	segment, err := ds.Column("segment")
	require.NoError(t, err)
	assert.Equal(t, table.KindCategorical, segment.Kind())
	assert.Equal(t, 0, segment.MissingCount())

	// Booleans are not numbers; they classify as categorical.
	active, err := ds.Column("active")
	require.NoError(t, err)
	assert.Equal(t, table.KindCategorical, active.Kind())
}

func TestFromCSV_RaggedRowsPadAsMissing(t *testing.T) {
	csvData := "a,b\n1,2\n3\n"
	ds, err := FromCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	b, err := ds.Column("b")
	require.NoError(t, err)
	assert.Equal(t, 1, b.MissingCount())
}

func TestFromCSV_HeaderOnly(t *testing.T) {
	_, err := FromCSV(strings.NewReader("a,b\n"))
	assert.Error(t, err)
}

func TestFromCSV_EmptyHeader(t *testing.T) {
	_, err := FromCSV(strings.NewReader("a,,c\n1,2,3\n"))
	assert.Error(t, err)
}

func TestReader_CSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ds, err := NewReader(path).Read()
	require.NoError(t, err)
	assert.Equal(t, 4, ds.NumColumns())
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv")).Read()
	assert.Error(t, err)
}
