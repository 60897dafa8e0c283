// Package importer reads batch data rows from CSV and Excel files. Columns
// are found by header name when the first row looks like a header and by
// position (data, label, copies) otherwise.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SymbolStudio/internal/model"
)

// MaxCopies bounds the copies column of a single row.
const MaxCopies = 500

// ImportResult collects the items of an import together with the problems
// found on the way. Row problems never abort the import.
type ImportResult struct {
	Items    []model.BatchItem
	Errors   []string
	Warnings []string
}

func (r *ImportResult) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ImportResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ColumnMapping holds the column index of each role, -1 when absent.
type ColumnMapping struct {
	Data   int
	Label  int
	Copies int
}

type column int

const (
	columnData column = iota
	columnLabel
	columnCopies
)

// headerNames maps lowercase header cells to the column they name.
var headerNames = map[string]column{
	"data": columnData, "value": columnData, "code": columnData, "content": columnData,
	"barcode": columnData, "text": columnData, "payload": columnData,

	"label": columnLabel, "caption": columnLabel, "name": columnLabel,
	"description": columnLabel, "desc": columnLabel, "title": columnLabel,

	"copies": columnCopies, "quantity": columnCopies, "qty": columnCopies,
	"count": columnCopies, "pcs": columnCopies,
}

var positional = ColumnMapping{Data: 0, Label: 1, Copies: 2}

var delimiterNames = map[rune]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "pipe"}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and
// pipe that splits the content into the most rows of equal width. Content
// that never splits into two columns is treated as comma separated.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if s := delimiterScore(data, d); s > bestScore {
			best, bestScore = d, s
		}
	}
	return best
}

func delimiterScore(data []byte, delim rune) int {
	records, err := readCSV(bytes.NewReader(data), delim)
	if err != nil || len(records) == 0 {
		return 0
	}
	width := len(records[0])
	if width < 2 {
		return 0
	}
	consistent := 0
	for _, rec := range records {
		if len(rec) == width {
			consistent++
		}
	}
	return consistent*10 + width
}

func readCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// DetectColumns maps header cells to columns. The first cell naming a
// column wins. When no cell is a known header name it returns the
// positional mapping and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	m := ColumnMapping{Data: -1, Label: -1, Copies: -1}
	header := false
	for i, cell := range row {
		col, ok := headerNames[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		header = true
		var slot *int
		switch col {
		case columnData:
			slot = &m.Data
		case columnLabel:
			slot = &m.Label
		case columnCopies:
			slot = &m.Copies
		}
		if *slot == -1 {
			*slot = i
		}
	}
	if !header {
		return positional, false
	}
	return m, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseCopies reads the copies cell; an empty cell means one copy.
func parseCopies(s string) (n int, capped bool, err error) {
	if s == "" {
		return 1, false, nil
	}
	n, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("Invalid copies '%s'", s)
	}
	if n <= 0 {
		return 0, false, fmt.Errorf("Copies must be positive")
	}
	if n > MaxCopies {
		return MaxCopies, true, nil
	}
	return n, false, nil
}

// ImportCSV imports batch rows from a CSV file with a detected delimiter.
func ImportCSV(path string) ImportResult {
	var result ImportResult

	data, err := os.ReadFile(path)
	if err != nil {
		result.errorf("Cannot open file: %v", err)
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.errorf("File is empty")
		return result
	}

	delim := DetectCSVDelimiter(data)
	if delim != ',' {
		result.warnf("Detected %s delimiter", delimiterNames[delim])
	}
	return importCSV(bytes.NewReader(data), delim, result)
}

// ImportCSVFromReader imports batch rows from r split on delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune) ImportResult {
	return importCSV(r, delimiter, ImportResult{})
}

func importCSV(r io.Reader, delim rune, result ImportResult) ImportResult {
	records, err := readCSV(r, delim)
	if err != nil {
		result.errorf("Cannot read CSV: %v", err)
		return result
	}
	if len(records) == 0 {
		result.errorf("File is empty")
		return result
	}
	importRows(records, "Line", &result)
	return result
}

// ImportExcel imports batch rows from the first sheet of an .xlsx file.
func ImportExcel(path string) ImportResult {
	var result ImportResult

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.errorf("Cannot open Excel file: %v", err)
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.errorf("Excel file has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.errorf("Cannot read Excel data: %v", err)
		return result
	}
	if len(rows) == 0 {
		result.errorf("Sheet is empty")
		return result
	}
	importRows(rows, "Row", &result)
	return result
}

// importRows turns rows into items, one per copy. Row numbers in messages
// are 1-based and prefixed with noun.
func importRows(rows [][]string, noun string, result *ImportResult) {
	m, header := DetectColumns(rows[0])
	first := 0
	if header {
		first = 1
		result.warnf("Detected header row, skipping")
		if m.Data == -1 {
			result.errorf("Required columns not found in header: Data")
			return
		}
	}

	for i := first; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		where := fmt.Sprintf("%s %d", noun, i+1)

		data := cell(row, m.Data)
		if data == "" {
			result.errorf("%s: Missing data value", where)
			continue
		}
		copies, capped, err := parseCopies(cell(row, m.Copies))
		if err != nil {
			result.errorf("%s: %v", where, err)
			continue
		}
		if capped {
			result.warnf("%s: copies capped at %d", where, MaxCopies)
		}

		label := cell(row, m.Label)
		for range copies {
			result.Items = append(result.Items, model.NewBatchItem(data, label))
		}
	}
}
