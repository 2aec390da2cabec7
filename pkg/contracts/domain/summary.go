package domain

// Series is one labeled time series aligned on a shared year axis.
// Years absent from the underlying data are zero-filled.
type Series struct {
	Label string    `json:"label"`
	X     []string  `json:"x"`
	Y     []float64 `json:"y"`
}

// Composition holds latest-year shares for a label set, normalized to sum
// to 1. Raw values are included for the region/country blocks.
type Composition struct {
	Year   string    `json:"year"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values,omitempty"`
	Share  []float64 `json:"share"`
}

// Ranking is one entry of the latest-year country ranking.
type Ranking struct {
	Country string  `json:"country"`
	Value   float64 `json:"value"`
}

// RegionRollup aggregates values per matched geographic entity.
type RegionRollup struct {
	Available   []string     `json:"available"`
	Series      []Series     `json:"series"`
	Rankings    []Ranking    `json:"rankings,omitempty"`
	Composition *Composition `json:"composition,omitempty"`
}

// Summary is the read-only multi-dimensional view consumed by the dashboard.
// It is rebuilt wholesale from the full tidy record set on every run.
type Summary struct {
	Title       string        `json:"title"`
	Years       []string      `json:"years"`
	Series      []Series      `json:"series"`
	Views       []string      `json:"views"`
	Composition *Composition  `json:"composition"`
	Regions     *RegionRollup `json:"regions,omitempty"`
	Countries   *RegionRollup `json:"countries,omitempty"`
}
