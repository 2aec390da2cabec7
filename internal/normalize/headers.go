package normalize

import (
	"fmt"
	"strings"
)

// BuildHeaders flattens the header row block into one label per column.
// Merged cells that span sub-columns leave lower rows blank, so the last
// non-empty cell seen in each column is carried downward; the distinct
// carried tokens are joined with " / " in row order. Columns with no token
// at all get a col_<index> placeholder.
func BuildHeaders(matrix [][]string, headerRows int) []string {
	if headerRows > len(matrix) {
		headerRows = len(matrix)
	}

	cols := 0
	for _, row := range matrix[:headerRows] {
		if len(row) > cols {
			cols = len(row)
		}
	}

	carry := make([]string, cols)
	tokens := make([][]string, cols)
	for r := 0; r < headerRows; r++ {
		row := matrix[r]
		for c := 0; c < cols; c++ {
			val := ""
			if c < len(row) {
				val = strings.TrimSpace(row[c])
			}
			if val != "" {
				carry[c] = val
			}
			tokens[c] = append(tokens[c], carry[c])
		}
	}

	headers := make([]string, cols)
	for c := 0; c < cols; c++ {
		seen := make(map[string]struct{})
		var distinct []string
		for _, token := range tokens[c] {
			if token == "" {
				continue
			}
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			distinct = append(distinct, token)
		}
		label := strings.TrimSpace(strings.Join(distinct, " / "))
		if label == "" {
			label = fmt.Sprintf("col_%d", c)
		}
		headers[c] = label
	}
	return headers
}

// DataRows returns the rows after the header block, each padded or
// truncated to exactly the header width.
func DataRows(matrix [][]string, headers []string, startRow int) [][]string {
	cols := len(headers)
	if startRow > len(matrix) {
		startRow = len(matrix)
	}
	rows := make([][]string, 0, len(matrix)-startRow)
	for r := startRow; r < len(matrix); r++ {
		row := make([]string, cols)
		for c := 0; c < cols && c < len(matrix[r]); c++ {
			row[c] = matrix[r][c]
		}
		rows = append(rows, row)
	}
	return rows
}
