package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .csv/.xlsx/.xls.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrCorruptFile is returned when the byte stream cannot be decoded as the
	// declared format.
	ErrCorruptFile = errors.New("file could not be decoded")
)

// CSVSheetName is the synthetic sheet name given to CSV uploads
const CSVSheetName = "Sheet1"

// RawSheet is one sheet's rows exactly as they appear in the file: raw string
// cells, row order preserved, no type coercion.
type RawSheet struct {
	Name string
	Rows [][]string
}

// Workbook is the parsed form of an uploaded file. SheetNames preserves the
// file's sheet order; Sheets indexes them by name.
type Workbook struct {
	SheetNames []string
	Sheets     map[string]*RawSheet
}

// Parse reads CSV or Excel bytes into a Workbook. The format is taken from
// the filename extension; callers enforce size limits before handing bytes in.
func Parse(data []byte, filename string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(data)
	case ".xlsx", ".xls":
		return parseExcel(data)
	default:
		return nil, fmt.Errorf("%w: %q (expected .csv, .xlsx, or .xls)", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func parseCSV(data []byte) (*Workbook, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // vendor CSVs are ragged
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
		}
		rows = append(rows, record)
	}

	sheet := &RawSheet{Name: CSVSheetName, Rows: trimTrailingEmptyRows(rows)}
	return &Workbook{
		SheetNames: []string{sheet.Name},
		Sheets:     map[string]*RawSheet{sheet.Name: sheet},
	}, nil
}

func parseExcel(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrCorruptFile)
	}

	wb := &Workbook{
		SheetNames: names,
		Sheets:     make(map[string]*RawSheet, len(names)),
	}
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrCorruptFile, name, err)
		}
		wb.Sheets[name] = &RawSheet{Name: name, Rows: trimTrailingEmptyRows(rows)}
	}
	return wb, nil
}

func trimTrailingEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && isEmptyRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Cell returns the trimmed cell at column index i, tolerating short rows.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
