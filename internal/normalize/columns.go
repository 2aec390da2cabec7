package normalize

import (
	"regexp"
	"strings"
)

const (
	columnSampleRows    = 100
	yearScoreThreshold  = 0.7
	numericColThreshold = 0.5
	yearRangeMin        = 1900
	yearRangeMax        = 2100
)

var yearHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^year$`),
	regexp.MustCompile(`(?i)fiscal_?year`),
	regexp.MustCompile(`年度`),
	regexp.MustCompile(`西暦`),
	regexp.MustCompile(`(?i)^cy$`),
	regexp.MustCompile(`年(度)?$`),
}

// IdentifyYearColumn returns the index of the column carrying the year.
// A header matching a year pattern wins outright regardless of position.
// Otherwise columns are scored by the fraction of sampled values that parse
// as an integer in [1900, 2100]; the best column qualifies at score >= 0.7.
// Returns false when no column qualifies.
func IdentifyYearColumn(headers []string, rows [][]string) (int, bool) {
	for i, h := range headers {
		for _, p := range yearHeaderPatterns {
			if p.MatchString(h) {
				return i, true
			}
		}
	}

	sample := rows
	if len(sample) > columnSampleRows {
		sample = sample[:columnSampleRows]
	}

	bestIdx := -1
	bestScore := 0.0
	for c := range headers {
		parsed := 0
		inRange := 0
		for _, row := range sample {
			if c >= len(row) {
				continue
			}
			v, ok := ParseInt(row[c])
			if !ok {
				continue
			}
			parsed++
			if v >= yearRangeMin && v <= yearRangeMax {
				inRange++
			}
		}
		if parsed == 0 {
			continue
		}
		score := float64(inRange) / float64(parsed)
		if score >= yearScoreThreshold && score > bestScore {
			bestIdx = c
			bestScore = score
		}
	}
	if bestIdx < 0 {
		return 0, false
	}
	return bestIdx, true
}

// IdentifyNumericColumns returns the indices of measure columns: those
// where at least half of the non-empty sampled values parse as a float.
func IdentifyNumericColumns(headers []string, rows [][]string) []int {
	sample := rows
	if len(sample) > columnSampleRows {
		sample = sample[:columnSampleRows]
	}

	var numeric []int
	for c := range headers {
		nonEmpty := 0
		parsed := 0
		for _, row := range sample {
			if c >= len(row) || strings.TrimSpace(row[c]) == "" {
				continue
			}
			nonEmpty++
			if IsNumericToken(row[c]) {
				parsed++
			}
		}
		if nonEmpty > 0 && float64(parsed)/float64(nonEmpty) >= numericColThreshold {
			numeric = append(numeric, c)
		}
	}
	return numeric
}
