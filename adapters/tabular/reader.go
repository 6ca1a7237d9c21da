// Package tabular loads CSV and Excel files into the columnar dataset used
// by the statistical engine.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"statkit/domain/table"
	"statkit/internal"
)

// missingTokens are the cell spellings treated as a missing value.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
}

// Reader loads a tabular file into a table.Dataset
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader for a CSV or Excel file, picked by extension
func NewReader(filePath string) *Reader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a dataset
func (r *Reader) Read() (*table.Dataset, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		f, err := os.Open(r.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return FromCSV(f)
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// FromCSV builds a dataset from CSV content
func FromCSV(src io.Reader) (*table.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return fromRows(rows)
}

// readExcel reads Sheet1 of an Excel workbook
func (r *Reader) readExcel() (*table.Dataset, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return fromRows(rows)
}

// fromRows converts raw string rows (header first) into typed columns. A
// column is numeric when every present cell parses as a number; anything
// else, booleans included, stays categorical.
func fromRows(rows [][]string) (*table.Dataset, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("input must have a header row and at least one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	numRows := len(rows) - 1
	ds := table.New()

	for colIdx, header := range headers {
		if header == "" {
			return nil, fmt.Errorf("column %d has an empty header", colIdx)
		}

		cells := make([]string, numRows)
		missing := make([]bool, numRows)
		for i := 1; i < len(rows); i++ {
			cell := ""
			if colIdx < len(rows[i]) {
				cell = strings.TrimSpace(rows[i][colIdx])
			}
			cells[i-1] = cell
			missing[i-1] = missingTokens[strings.ToLower(cell)]
		}

		col, err := buildColumn(header, cells, missing)
		if err != nil {
			return nil, err
		}
		if err := ds.AddColumn(col); err != nil {
			return nil, err
		}
	}

	internal.DefaultLogger.Debug("[tabular] loaded %d columns, %d rows", ds.NumColumns(), ds.Len())
	return ds, nil
}

func buildColumn(name string, cells []string, missing []bool) (*table.Column, error) {
	nums := make([]float64, len(cells))
	numeric := true
	for i, cell := range cells {
		if missing[i] {
			continue
		}
		v, err := cast.ToFloat64E(cell)
		if err != nil {
			numeric = false
			break
		}
		nums[i] = v
	}

	if numeric {
		return table.NewNumericColumn(name, nums, missing)
	}
	return table.NewCategoricalColumn(name, cells, missing)
}
