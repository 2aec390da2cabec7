package csvio

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"investviz/internal/errors"
)

// Meta describes how a raw matrix was read from disk.
type Meta struct {
	Encoding  string `json:"encoding"`
	Delimiter string `json:"delimiter"`
	Path      string `json:"path"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// detectEncoding returns the first encoding that decodes the head of the
// file without error, together with the decoded bytes of the whole input.
// This only guarantees successful decoding, not semantic correctness.
func detectEncoding(data []byte) (string, []byte) {
	if bytes.HasPrefix(data, utf8BOM) {
		return "utf-8-sig", bytes.TrimPrefix(data, utf8BOM)
	}
	if utf8.Valid(data) {
		return "utf-8", data
	}
	if decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data); err == nil && utf8.Valid(decoded) {
		return "cp932", decoded
	}
	if decoded, _, err := transform.Bytes(japanese.EUCJP.NewDecoder(), data); err == nil && utf8.Valid(decoded) {
		return "euc-jp", decoded
	}
	// Fallback: keep the bytes as-is and let the CSV reader cope
	return "utf-8", data
}

// sniffDelimiter picks the delimiter that appears most consistently across
// the first sample lines. Defaults to comma.
func sniffDelimiter(sample string) rune {
	lines := strings.Split(sample, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}

	candidates := []rune{',', '\t', ';'}
	best := ','
	bestCount := 0
	for _, d := range candidates {
		total := 0
		seen := 0
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			n := strings.Count(line, string(d))
			if n > 0 {
				seen++
				total += n
			}
		}
		if seen > 0 && total > bestCount {
			best = d
			bestCount = total
		}
	}
	return best
}

// ReadMatrix reads a CSV file into a raw cell matrix with encoding trial and
// delimiter sniffing. Rows may have uneven length; cells are trimmed.
func ReadMatrix(path string) ([][]string, Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Meta{}, errors.NewStorageError("failed to read input file", err).WithContext("path", path)
	}

	encoding, decoded := detectEncoding(data)

	sampleLen := len(decoded)
	if sampleLen > 8192 {
		sampleLen = 8192
	}
	delimiter := sniffDelimiter(string(decoded[:sampleLen]))

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, Meta{}, errors.NewParsingError("failed to parse CSV input", err).WithContext("path", path)
	}

	matrix := make([][]string, len(records))
	for i, row := range records {
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
		Encoding:  encoding,
		Delimiter: string(delimiter),
		Path:      abs,
	}
	return matrix, meta, nil
}
