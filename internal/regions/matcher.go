package regions

import (
	"strings"
	"unicode/utf8"

	"investviz/pkg/contracts/domain"
)

// Matcher canonicalizes text spans against the region dictionary. It holds
// an immutable entry list, so a single instance is safe for concurrent use.
type Matcher struct {
	entries []domain.RegionEntry
	levels  map[string]domain.RegionLevel
}

// NewMatcher creates a matcher over the given dictionary entries.
func NewMatcher(entries []domain.RegionEntry) *Matcher {
	levels := make(map[string]domain.RegionLevel, len(entries))
	for _, entry := range entries {
		levels[entry.Canonical] = entry.Level
	}
	return &Matcher{entries: entries, levels: levels}
}

// candidate records one dictionary hit for tie-breaking.
type candidate struct {
	canonical string
	priority  int
	aliasLen  int
}

// MatchText returns the canonical name of the best dictionary entry whose
// alias occurs in text. Japanese aliases match case-sensitively, English
// aliases case-insensitively. Among all hits the highest (level priority,
// alias length) pair wins, so a country always beats a region or group and
// the longer alias breaks ties within a level. Returns "" when nothing
// matches.
func (m *Matcher) MatchText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	textLower := strings.ToLower(text)

	var best *candidate
	for _, entry := range m.entries {
		priority := entry.Level.Priority()

		for _, alias := range entry.AliasesJA {
			if alias != "" && strings.Contains(text, alias) {
				best = better(best, candidate{entry.Canonical, priority, utf8.RuneCountInString(alias)})
				break
			}
		}
		for _, alias := range entry.AliasesEN {
			if alias != "" && strings.Contains(textLower, strings.ToLower(alias)) {
				best = better(best, candidate{entry.Canonical, priority, utf8.RuneCountInString(alias)})
				break
			}
		}
	}

	if best == nil {
		return ""
	}
	return best.canonical
}

// MatchHeader matches a flattened header label. Labels produced by the
// multi-row header merge contain " / "-separated segments; each segment is
// tried on its own before falling back to the whole string.
func (m *Matcher) MatchHeader(header string) string {
	if header == "" {
		return ""
	}
	if strings.Contains(header, " / ") {
		for _, part := range strings.Split(header, " / ") {
			if region := m.MatchText(part); region != "" {
				return region
			}
		}
	}
	return m.MatchText(header)
}

// Level returns the dictionary level of a canonical region name.
func (m *Matcher) Level(canonical string) (domain.RegionLevel, bool) {
	level, ok := m.levels[canonical]
	return level, ok
}

// better keeps the lexicographically larger (priority, aliasLen) candidate.
func better(current *candidate, next candidate) *candidate {
	if current == nil {
		return &next
	}
	if next.priority > current.priority ||
		(next.priority == current.priority && next.aliasLen > current.aliasLen) {
		return &next
	}
	return current
}
