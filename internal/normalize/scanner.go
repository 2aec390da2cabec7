package normalize

import (
	"strings"
)

// Scan windows. Heuristic decision cost stays independent of total file
// size because each phase only ever looks at a bounded slice.
const (
	noiseScanWindow  = 40
	headerSeekWindow = 20
	dataSeekWindow   = 15
	maxHeaderRows    = 10
)

// Row-shape thresholds.
const (
	titleFillRatio   = 0.3
	dataFillRatio    = 0.2
	dataNumericRatio = 0.5
)

var titleKeywords = []string{
	"Balance of Payments", "統計", "Statistics",
	"Ⅰ", "Ⅱ", "Ⅲ", "Ⅳ", "Ⅴ", "Ⅵ", "Ⅶ", "Ⅷ", "Ⅸ", "Ⅹ",
	"（単位", "(単位", "Unit:", "(100 million",
}

var annotationMarkers = []string{"（備考）", "(NOTE)", "注:", "Note:", "注釈", "※"}

var yearEraMarkers = []string{"C.Y.", "F.Y.", "平成", "令和", "昭和"}

var labelOnlyMarkers = []string{"（暦年）", "(Annual", "(Monthly", "(Quarterly"}

var labelOnlyCells = map[string]struct{}{
	"（暦年）":              {},
	"(Annual figures)":  {},
	"(Monthly figures)": {},
}

// IsAnnotationRow reports whether a row is a footnote or annotation line:
// the first cell starts with a footnote marker, a circled digit, or an
// "N.)" style enumeration.
func IsAnnotationRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimSpace(row[0])
	for _, marker := range annotationMarkers {
		if strings.Contains(first, marker) {
			return true
		}
	}
	runes := []rune(first)
	if len(runes) > 0 && strings.ContainsRune("①②③④⑤⑥⑦⑧⑨⑩", runes[0]) {
		return true
	}
	if len(runes) > 1 && runes[0] >= '1' && runes[0] <= '9' && strings.ContainsRune(".)、", runes[1]) {
		return true
	}
	return false
}

// IsTitleRow reports whether a row is an embedded table title: few
// non-empty cells and a title keyword in the first cell.
func IsTitleRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.TrimSpace(row[0])
	nonEmpty := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			nonEmpty++
		}
	}
	if float64(nonEmpty) >= float64(len(row))*titleFillRatio {
		return false
	}
	for _, keyword := range titleKeywords {
		if strings.Contains(first, keyword) {
			return true
		}
	}
	return false
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isDataRow reports whether a row looks like the first data row: either the
// first cell carries an explicit year/era marker (and the row is not a
// label-only line such as "(Annual figures)"), or enough of the cells after
// the first column parse as numbers.
func isDataRow(row []string) bool {
	if len(row) == 0 || isEmptyRow(row) {
		return false
	}
	first := strings.TrimSpace(row[0])

	hasYearMarker := false
	for _, marker := range yearEraMarkers {
		if strings.Contains(first, marker) {
			hasYearMarker = true
			break
		}
	}
	labelOnly := false
	for _, marker := range labelOnlyMarkers {
		if strings.Contains(first, marker) {
			labelOnly = true
			break
		}
	}
	if _, ok := labelOnlyCells[first]; ok {
		labelOnly = true
	}
	if hasYearMarker && !labelOnly {
		return true
	}

	nonEmpty := 0
	numeric := 0
	for _, cell := range row[1:] {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		nonEmpty++
		if IsNumericToken(cell) {
			numeric++
		}
	}
	if nonEmpty == 0 || float64(nonEmpty) <= float64(len(row))*dataFillRatio {
		return false
	}
	return float64(numeric)/float64(nonEmpty) >= dataNumericRatio
}

// DetectHeaderRows locates the boundary between the header block and the
// data rows and returns the header block size counted from row zero. Leading
// titles and annotations are folded into the block, so the result is the
// index of the first data row, clamped so that the header portion after the
// noise is between 1 and 10 rows. Structural ambiguity never escalates to
// an error; the scan always settles on some boundary and lets downstream
// quality absorb the guess.
func DetectHeaderRows(matrix [][]string) int {
	if len(matrix) < 2 {
		return 1
	}

	skipUntil := skipNoise(matrix)
	headerStart := seekHeaderStart(matrix, skipUntil)
	dataStart := seekDataStart(matrix, headerStart)

	headerRows := dataStart - headerStart
	if headerRows < 1 {
		headerRows = 1
	}
	if headerRows > maxHeaderRows {
		headerRows = maxHeaderRows
	}
	return headerStart + headerRows
}

// skipNoise is the skipping-noise phase: any title or annotation row inside
// the window pushes the pointer past it, even past interleaved clean rows.
func skipNoise(matrix [][]string) int {
	skipUntil := 0
	end := min(noiseScanWindow, len(matrix))
	for i := 0; i < end; i++ {
		if IsAnnotationRow(matrix[i]) || IsTitleRow(matrix[i]) {
			skipUntil = i + 1
		}
	}
	return skipUntil
}

// seekHeaderStart is the seeking-header phase: the header starts after the
// first contiguous run of fully-empty rows, if one ends inside the window.
func seekHeaderStart(matrix [][]string, skipUntil int) int {
	inEmptyRun := false
	end := min(skipUntil+headerSeekWindow, len(matrix))
	for i := skipUntil; i < end; i++ {
		if isEmptyRow(matrix[i]) {
			inEmptyRun = true
			continue
		}
		if inEmptyRun {
			return i
		}
	}
	return skipUntil
}

// seekDataStart is the seeking-data phase: the first row shaped like data
// ends the header block. With no clear data row in the window, data is
// assumed to begin right after a single header row.
func seekDataStart(matrix [][]string, headerStart int) int {
	end := min(headerStart+dataSeekWindow, len(matrix))
	for i := headerStart; i < end; i++ {
		if isDataRow(matrix[i]) {
			return i
		}
	}
	return headerStart + 1
}
