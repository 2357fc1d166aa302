// Package tabular reads MTA export files (CSV and XLSX) into raw records
// and implements the RecordSource port over a directory of such files.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"aceintel/domain/record"
)

// FileReader reads a single data file into headers plus raw rows
type FileReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewFileReader creates a reader for a CSV or XLSX file, picked by extension
func NewFileReader(filePath string) *FileReader {
	fileType := "csv"
	if strings.ToLower(filepath.Ext(filePath)) == ".xlsx" {
		fileType = "xlsx"
	}
	return &FileReader{filePath: filePath, fileType: fileType}
}

// Read loads the file's rows as raw records tagged with the given kind.
// A file with only a header row yields zero records, not an error.
func (r *FileReader) Read(kind record.SourceKind) ([]record.RawRecord, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return r.processRows(rows, kind), nil
}

func (r *FileReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *FileReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// processRows converts string rows into raw records keyed by trimmed headers
func (r *FileReader) processRows(rows [][]string, kind record.SourceKind) []record.RawRecord {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	records := make([]record.RawRecord, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		fields := make(map[string]string, len(headers))
		for j, header := range headers {
			if j < len(row) {
				fields[header] = strings.TrimSpace(row[j])
			} else {
				fields[header] = "" // short row
			}
		}
		records = append(records, record.RawRecord{
			Kind:    kind,
			File:    filepath.Base(r.filePath),
			Fields:  fields,
			RowIdx:  i,
			Columns: headers,
		})
	}

	return records
}
