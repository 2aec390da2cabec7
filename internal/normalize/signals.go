package normalize

import (
	"regexp"
	"strings"

	"investviz/pkg/contracts/domain"
)

// unitScale maps a unit phrase to the multiplier that normalizes values to
// 100 million yen. The table is priority ordered; the first pattern found
// in the joined text wins. Patterns are assumed mutually exclusive within
// one header.
type unitScale struct {
	pattern *regexp.Regexp
	scale   float64
}

var unitScales = []unitScale{
	{regexp.MustCompile(`(?i)兆円|trillion\s*y(en)?`), 10000.0},
	{regexp.MustCompile(`(?i)億円|100\s*million\s*y(en)?`), 1.0},
	{regexp.MustCompile(`(?i)十億円|billion\s*y(en)?`), 10.0},
	{regexp.MustCompile(`(?i)百万円|million\s*y(en)?`), 0.01},
	{regexp.MustCompile(`(?i)千万円`), 0.1},
	{regexp.MustCompile(`(?i)万円|ten\s*thousand\s*y(en)?`), 0.0001},
}

var (
	assetKeywords      = []string{"対外", "outward", "assets"}
	liabilityKeywords  = []string{"対内", "inward", "liabilities"}
	reinvestedKeywords = []string{"再投資", "reinvested"}
	netKeywords        = []string{"ネット", "純", "net "}
	flowKeywords       = []string{"フロー", "flow"}
)

// DetectUnitScale scans header texts and the file name for a unit phrase
// and returns the matched pattern plus the scale factor normalizing values
// to 100 million yen. Defaults to 1.0 when nothing matches.
func DetectUnitScale(texts []string) (string, float64) {
	joined := joinNonEmpty(texts, " / ")
	for _, u := range unitScales {
		if u.pattern.MatchString(joined) {
			return u.pattern.String(), u.scale
		}
	}
	return "", 1.0
}

// DetectSide classifies the flow side from header/filename text. Never
// fails; unmatched text is "unknown".
func DetectSide(texts []string) domain.Side {
	joined := strings.ToLower(joinNonEmpty(texts, " "))
	if containsAny(joined, assetKeywords) {
		return domain.SideAssets
	}
	if containsAny(joined, liabilityKeywords) {
		return domain.SideLiabilities
	}
	return domain.SideUnknown
}

// DetectMetric classifies the metric kind from header/filename text. Never
// fails; unmatched text is "unknown".
func DetectMetric(texts []string) domain.Metric {
	joined := strings.ToLower(joinNonEmpty(texts, " "))
	if containsAny(joined, reinvestedKeywords) {
		return domain.MetricReinvested
	}
	if containsAny(joined, netKeywords) {
		return domain.MetricNet
	}
	if containsAny(joined, flowKeywords) {
		return domain.MetricFlow
	}
	return domain.MetricUnknown
}

func joinNonEmpty(texts []string, sep string) string {
	var parts []string
	for _, t := range texts {
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
