package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// missingTokens are placeholder strings that statistical exports use for
// absent values. They clean to "no value", never to an error.
var missingTokens = map[string]struct{}{
	"":     {},
	"--":   {},
	"-":    {},
	"...":  {},
	"n.a.": {},
	"na":   {},
	"n/a":  {},
	"*":    {},
}

// CleanNumericToken parses a raw cell into a float. It strips thousands
// separators and spaces, folds full-width forms via NFKC, and treats
// parenthesized values as negative. Returns false for missing tokens and
// anything that still fails to parse.
func CleanNumericToken(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if _, ok := missingTokens[strings.ToLower(s)]; ok {
		return 0, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" || s == "." {
		return 0, false
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		val = -val
	}
	return val, true
}

// IsNumericToken reports whether the cell cleans to a number.
func IsNumericToken(raw string) bool {
	_, ok := CleanNumericToken(raw)
	return ok
}

// ParseInt parses a cell as an integer after NFKC folding, for year-column
// scoring.
func ParseInt(raw string) (int, bool) {
	s := strings.TrimSpace(norm.NFKC.String(raw))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

var yearHeaderPattern = regexp.MustCompile(`^(19\d{2}|20\d{2}|21\d{2})年?$`)

// ParseYearFromHeader extracts a 4-digit year (1900-2199, optionally
// suffixed with 年) from a wide-layout header cell.
func ParseYearFromHeader(name string) (int, bool) {
	s := strings.TrimSpace(name)
	m := yearHeaderPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return y, true
}
