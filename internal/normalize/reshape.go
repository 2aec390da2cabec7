package normalize

import (
	"fmt"
	"strings"

	"investviz/internal/regions"
	"investviz/pkg/contracts/domain"
)

const (
	idSampleRows   = 50
	idNumericRatio = 0.5
	maxIDColumns   = 3
)

// Stats reports reshape diagnostics for the parse log.
type Stats struct {
	RowsIn         int      `json:"rows_in"`
	RowsOut        int      `json:"rows_out"`
	NumericColumns []string `json:"numeric_columns"`
	YearColumn     string   `json:"year_column,omitempty"`
	ScaleFactor    float64  `json:"scale_factor"`
}

// Reshaper converts classified data rows into tidy records. The two layout
// paths are mutually exclusive: the long path runs when a year column was
// found, the wide path when years live in the headers instead.
type Reshaper struct {
	matcher *regions.Matcher
}

// NewReshaper creates a reshaper using the given region matcher.
func NewReshaper(matcher *regions.Matcher) *Reshaper {
	return &Reshaper{matcher: matcher}
}

// Reshape emits one tidy record per parseable value cell. Unparseable cells
// are treated as missing, never as an error.
func (rs *Reshaper) Reshape(rows [][]string, headers []string, side domain.Side, metric domain.Metric, scaleFactor float64) ([]domain.TidyRecord, Stats) {
	numericCols := IdentifyNumericColumns(headers, rows)
	yearCol, hasYearCol := IdentifyYearColumn(headers, rows)

	// Year values parse as numbers, so the year column classifies as numeric;
	// it carries the time axis, not a measure.
	if hasYearCol {
		kept := numericCols[:0]
		for _, c := range numericCols {
			if c != yearCol {
				kept = append(kept, c)
			}
		}
		numericCols = kept
	}

	var records []domain.TidyRecord
	if hasYearCol {
		records = rs.reshapeLong(rows, headers, yearCol, numericCols, side, metric, scaleFactor)
	} else {
		records = rs.reshapeWide(rows, headers, side, metric, scaleFactor)
	}

	stats := Stats{
		RowsIn:      len(rows),
		RowsOut:     len(records),
		ScaleFactor: scaleFactor,
	}
	stats.NumericColumns = make([]string, 0, len(numericCols))
	for _, c := range numericCols {
		stats.NumericColumns = append(stats.NumericColumns, headers[c])
	}
	if hasYearCol {
		stats.YearColumn = headers[yearCol]
	}
	return records, stats
}

// reshapeLong handles tables where years occupy a column and measures
// occupy columns.
func (rs *Reshaper) reshapeLong(rows [][]string, headers []string, yearCol int, numericCols []int, side domain.Side, metric domain.Metric, scaleFactor float64) []domain.TidyRecord {
	var records []domain.TidyRecord
	for _, row := range rows {
		var year *int
		if y, ok := ParseInt(row[yearCol]); ok && y != 0 {
			year = &y
		}
		for _, c := range numericCols {
			v, ok := CleanNumericToken(row[c])
			if !ok {
				continue
			}
			record := domain.TidyRecord{
				Year:         year,
				Side:         side,
				Metric:       metric,
				Measure:      headers[c],
				Value100mYen: v * scaleFactor,
			}
			if region := rs.matcher.MatchHeader(headers[c]); region != "" {
				record.SegmentRegion = &region
			}
			records = append(records, record)
		}
	}
	return records
}

// reshapeWide handles tables where years occupy header cells and rows are
// per-entity. Up to three mostly non-numeric columns become the row
// identifier; their joined values label the measure.
func (rs *Reshaper) reshapeWide(rows [][]string, headers []string, side domain.Side, metric domain.Metric, scaleFactor float64) []domain.TidyRecord {
	type yearHeader struct {
		col  int
		year int
	}
	var yearHeaders []yearHeader
	isYearCol := make(map[int]bool)
	for c, h := range headers {
		if y, ok := ParseYearFromHeader(h); ok {
			yearHeaders = append(yearHeaders, yearHeader{col: c, year: y})
			isYearCol[c] = true
		}
	}
	if len(yearHeaders) == 0 {
		return nil
	}

	idCols := rs.pickIdentifierColumns(rows, headers, isYearCol)

	var records []domain.TidyRecord
	for idx, row := range rows {
		var labelParts []string
		for _, c := range idCols {
			if v := strings.TrimSpace(row[c]); v != "" {
				labelParts = append(labelParts, v)
			}
		}
		measure := strings.Join(labelParts, " / ")
		if measure == "" {
			measure = fmt.Sprintf("row_%d", idx)
		}
		region := rs.matcher.MatchText(measure)

		for _, yh := range yearHeaders {
			v, ok := CleanNumericToken(row[yh.col])
			if !ok {
				continue
			}
			year := yh.year
			record := domain.TidyRecord{
				Year:         &year,
				Side:         side,
				Metric:       metric,
				Measure:      measure,
				Value100mYen: v * scaleFactor,
			}
			if region != "" {
				r := region
				record.SegmentRegion = &r
			}
			records = append(records, record)
		}
	}
	return records
}

// pickIdentifierColumns selects up to three non-year columns whose sampled
// values are mostly non-numeric.
func (rs *Reshaper) pickIdentifierColumns(rows [][]string, headers []string, isYearCol map[int]bool) []int {
	sample := rows
	if len(sample) > idSampleRows {
		sample = sample[:idSampleRows]
	}

	var idCols []int
	for c := range headers {
		if isYearCol[c] {
			continue
		}
		nonEmpty := 0
		numeric := 0
		for _, row := range sample {
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			nonEmpty++
			if IsNumericToken(v) {
				numeric++
			}
		}
		if nonEmpty == 0 {
			continue
		}
		if float64(numeric)/float64(nonEmpty) < idNumericRatio {
			idCols = append(idCols, c)
			if len(idCols) == maxIDColumns {
				break
			}
		}
	}
	return idCols
}
