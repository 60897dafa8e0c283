package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Data,Label,Copies\n0123,Box,2\n4567,Bin,1\n", ','},
		{"semicolon", "Data;Label;Copies\n0123;Box;2\n4567;Bin;1\n", ';'},
		{"tab", "Data\tLabel\n0123\tBox\n4567\tBin\n", '\t'},
		{"pipe", "Data|Label\n0123|Box\n4567|Bin\n", '|'},
		{"single column", "0123\n4567\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Data", "Label", "Copies"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Data != 0 || mapping.Label != 1 || mapping.Copies != 2 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_AlternativeNamesReordered(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{" QTY ", "Caption", "Barcode"})
	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Data != 2 || mapping.Label != 1 || mapping.Copies != 0 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"5901234123457", "Box 1"})
	if isHeader {
		t.Error("expected no header")
	}
	if mapping.Data != 0 || mapping.Label != 1 || mapping.Copies != 2 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	input := "Label,Data,Copies\nBox A,0123,2\nBox B,4567,\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	if result.Items[0].Data != "0123" || result.Items[0].Label != "Box A" {
		t.Errorf("unexpected first item %+v", result.Items[0])
	}
	if result.Items[0].ID == result.Items[1].ID {
		t.Error("copies should get distinct ids")
	}
	if result.Items[2].Caption() != "Box B" {
		t.Errorf("expected caption 'Box B', got %q", result.Items[2].Caption())
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("0123\n4567\n"), ',')
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[1].Caption() != "4567" {
		t.Errorf("expected caption to fall back to data, got %q", result.Items[1].Caption())
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	input := "data,label,copies\n,missing,1\nA,bad,x\nB,zero,0\nC,ok,1\n"
	result := ImportCSVFromReader(strings.NewReader(input), ',')

	if len(result.Items) != 1 || result.Items[0].Data != "C" {
		t.Fatalf("expected only row C, got %+v", result.Items)
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 2") || !strings.Contains(result.Errors[0], "Missing data") {
		t.Errorf("unexpected error %q", result.Errors[0])
	}
	if !strings.Contains(result.Errors[1], "Invalid copies 'x'") {
		t.Errorf("unexpected error %q", result.Errors[1])
	}
}

func TestImportCSVFromReader_CopiesCapped(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("data,copies\nA,100000\n"), ',')
	if len(result.Items) != MaxCopies {
		t.Fatalf("expected %d items, got %d", MaxCopies, len(result.Items))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "capped") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected cap warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MissingDataColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("label,copies\nA,1\n"), ',')
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Data") {
		t.Errorf("expected missing column error, got %v", result.Errors)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
}

func TestImportCSVFromReader_EmptyRowsAndWhitespace(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("data\n  0123  \n\n,\n4567\n"), ',')
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 || result.Items[0].Data != "0123" {
		t.Errorf("unexpected items %+v", result.Items)
	}
}

func TestImportCSVFromReader_EmptyInput(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(path, []byte("Code;Name\nA-1;First\nA-2;Second\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected delimiter warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	result := ImportCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Content", "Title", "Qty"},
		{"5901234123457", "Retail", 2},
		{"https://example.com", "Link", 1},
	})

	result := ImportExcel(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(result.Items))
	}
	if result.Items[0].Data != "5901234123457" || result.Items[0].Label != "Retail" {
		t.Errorf("unexpected first item %+v", result.Items[0])
	}
	if result.Items[2].Data != "https://example.com" {
		t.Errorf("unexpected last item %+v", result.Items[2])
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"A-1", "First"},
		{"A-2", "Second", 3},
	})

	result := ImportExcel(path)
	if len(result.Items) != 4 {
		t.Fatalf("expected 4 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
