// Package journal loads accounting ledgers from CSV or Excel files into
// tabular records and locates the columns relevant to sampling.
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one ledger row, keyed by header name.
type Record struct {
	Values map[string]string
}

// Data is a loaded ledger: headers in input order plus all non-empty rows.
type Data struct {
	Headers []string
	Rows    []Record
}

// Load reads a ledger file, dispatching on the file extension. Unknown
// extensions are tried as Excel first, then CSV.
func Load(path string) (*Data, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadExcel(path)
	case ".csv":
		return loadCSV(path)
	default:
		data, err := loadExcel(path)
		if err == nil {
			return data, nil
		}
		data, csvErr := loadCSV(path)
		if csvErr != nil {
			return nil, fmt.Errorf("unsupported ledger file %s: %v", path, err)
		}
		return data, nil
	}
}

func loadExcel(path string) (*Data, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file %s has no readable sheet", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Excel file %s is missing a header row", path)
	}
	return fromRows(rows[0], rows[1:]), nil
}

func loadCSV(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV file %s is missing a header row", path)
	}
	return fromRows(records[0], records[1:]), nil
}

// fromRows builds a Data from a header row and body rows, trimming cells and
// skipping rows that are entirely empty.
func fromRows(headerRow []string, body [][]string) *Data {
	headers := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = strings.TrimSpace(h)
	}

	data := &Data{Headers: headers}
	for _, row := range body {
		values := make(map[string]string, len(headers))
		empty := true
		for i, cell := range row {
			if i >= len(headers) {
				break
			}
			cell = strings.TrimSpace(cell)
			values[headers[i]] = cell
			if cell != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		data.Rows = append(data.Rows, Record{Values: values})
	}
	return data
}
