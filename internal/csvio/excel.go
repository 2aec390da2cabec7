package csvio

import (
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"investviz/internal/errors"
)

// ReadExcelMatrix reads an Excel workbook into a raw cell matrix. When the
// workbook has several sheets, the sheet with the most non-empty rows wins.
func ReadExcelMatrix(path string) ([][]string, Meta, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, Meta{}, errors.NewStorageError("failed to open Excel file", err).WithContext("path", path)
	}
	defer f.Close()

	var best [][]string
	bestCount := -1
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		count := 0
		for _, row := range rows {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					count++
					break
				}
			}
		}
		if count > bestCount {
			best = rows
			bestCount = count
		}
	}

	if bestCount < 0 {
		return nil, Meta{}, errors.NewParsingError("no readable sheet in Excel file", nil).WithContext("path", path)
	}

	matrix := make([][]string, len(best))
	for i, row := range best {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell)
		}
		matrix[i] = cells
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	meta := Meta{
		Encoding:  "xlsx",
		Delimiter: "",
		Path:      abs,
	}
	return matrix, meta, nil
}

// ReadAnyMatrix dispatches on file extension between the CSV and Excel
// matrix readers.
func ReadAnyMatrix(path string) ([][]string, Meta, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return ReadExcelMatrix(path)
	default:
		return ReadMatrix(path)
	}
}
