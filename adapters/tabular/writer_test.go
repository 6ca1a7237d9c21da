package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/table"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	src := "score,segment\n1.5,a\n,b\n3,\n"
	ds, err := FromCSV(strings.NewReader(src))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(ds, &buf))

	back, err := FromCSV(&buf)
	require.NoError(t, err)

	score, err := back.Column("score")
	require.NoError(t, err)
	assert.Equal(t, table.KindNumeric, score.Kind())
	assert.Equal(t, 1, score.MissingCount())
	assert.Equal(t, []float64{1.5, 3}, score.NonMissingFloats())

	segment, err := back.Column("segment")
	require.NoError(t, err)
	assert.Equal(t, table.KindCategorical, segment.Kind())
	assert.Equal(t, []string{"a", "b"}, segment.NonMissingLabels())
}
