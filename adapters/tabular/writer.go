package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"statkit/domain/table"
)

// WriteCSV serializes a dataset back to CSV. Missing cells are written
// as empty strings so a round-trip preserves the missing mask.
func WriteCSV(ds *table.Dataset, dst io.Writer) error {
	names := ds.ColumnNames()
	cols := make([]*table.Column, len(names))
	for i, name := range names {
		col, err := ds.Column(name)
		if err != nil {
			return err
		}
		cols[i] = col
	}

	w := csv.NewWriter(dst)
	if err := w.Write(names); err != nil {
		return err
	}

	record := make([]string, len(cols))
	for row := 0; row < ds.Len(); row++ {
		for i, col := range cols {
			record[i] = formatCell(col, row)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteCSVFile writes a dataset to the given path
func WriteCSVFile(ds *table.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(ds, f)
}

func formatCell(col *table.Column, row int) string {
	if col.IsMissing(row) {
		return ""
	}
	if col.Kind() == table.KindNumeric {
		return strconv.FormatFloat(col.Float(row), 'g', -1, 64)
	}
	return col.Label(row)
}
