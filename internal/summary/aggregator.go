// Package summary builds the multi-dimensional dashboard view from the
// full tidy record set of one pipeline run.
package summary

import (
	"log/slog"
	"sort"
	"strconv"

	"investviz/internal/regions"
	"investviz/pkg/contracts/domain"
)

// DefaultTopMeasures is the number of measures kept as the primary series
// set when no override is configured.
const DefaultTopMeasures = 5

// Aggregator derives the summary object consumed by the dashboard. The
// summary is rebuilt wholesale on every run, never updated incrementally.
type Aggregator struct {
	topN    int
	matcher *regions.Matcher
	logger  *slog.Logger
}

// NewAggregator creates an aggregator keeping the top n measures. The
// matcher supplies dictionary levels for the country rollup.
func NewAggregator(topN int, matcher *regions.Matcher, logger *slog.Logger) *Aggregator {
	if topN <= 0 {
		topN = DefaultTopMeasures
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{topN: topN, matcher: matcher, logger: logger}
}

// rollup accumulates values keyed by (dimension label, year key).
// Materialization into arrays happens only at the end, so output ordering
// is deterministic regardless of record iteration order.
type rollup map[string]map[string]float64

func (r rollup) add(label, yearKey string, v float64) {
	byYear, ok := r[label]
	if !ok {
		byYear = make(map[string]float64)
		r[label] = byYear
	}
	byYear[yearKey] += v
}

func (r rollup) total(label string) float64 {
	sum := 0.0
	for _, v := range r[label] {
		sum += v
	}
	return sum
}

func (r rollup) series(label string, years []string) domain.Series {
	y := make([]float64, len(years))
	for i, year := range years {
		y[i] = r[label][year]
	}
	return domain.Series{Label: label, X: years, Y: y}
}

func (r rollup) sortedLabels() []string {
	labels := make([]string, 0, len(r))
	for label := range r {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// BuildSummary aggregates the complete record set into the dashboard
// summary: top-N measure series on the sorted union of observed years,
// latest-year composition shares, and region/country rollups when any
// record carries a matched region.
func (a *Aggregator) BuildSummary(records []domain.TidyRecord) *domain.Summary {
	measures := make(rollup)
	regionAgg := make(rollup)
	countryAgg := make(rollup)
	yearsSet := make(map[string]struct{})

	for _, r := range records {
		yearKey := ""
		if r.Year != nil {
			yearKey = strconv.Itoa(*r.Year)
			yearsSet[yearKey] = struct{}{}
		}
		measures.add(r.Measure, yearKey, r.Value100mYen)

		if r.SegmentRegion == nil || *r.SegmentRegion == "" {
			continue
		}
		region := *r.SegmentRegion
		regionAgg.add(region, yearKey, r.Value100mYen)
		if level, ok := a.matcher.Level(region); ok && level == domain.RegionLevelCountry {
			countryAgg.add(region, yearKey, r.Value100mYen)
		}
	}

	years := make([]string, 0, len(yearsSet))
	for y := range yearsSet {
		years = append(years, y)
	}
	sort.Strings(years)

	latest := ""
	if len(years) > 0 {
		latest = years[len(years)-1]
	}

	topMeasures := a.rankMeasures(measures)
	series := make([]domain.Series, 0, len(topMeasures))
	for _, m := range topMeasures {
		series = append(series, measures.series(m, years))
	}

	result := &domain.Summary{
		Title:  "InvestViz Summary",
		Years:  years,
		Series: series,
		Views:  []string{"timeseries", "yoy_diff", "composition"},
		Composition: &domain.Composition{
			Year:   latest,
			Labels: topMeasures,
			Share:  shares(latestValues(measures, topMeasures, latest)),
		},
	}

	if len(regionAgg) > 0 {
		result.Regions = buildRollup(regionAgg, years, latest, false)
	}
	if len(countryAgg) > 0 {
		result.Countries = buildRollup(countryAgg, years, latest, true)
	}

	a.logger.Debug("summary built",
		slog.Int("record_count", len(records)),
		slog.Int("year_count", len(years)),
		slog.Int("measure_count", len(measures)),
		slog.Int("region_count", len(regionAgg)),
		slog.Int("country_count", len(countryAgg)))

	return result
}

// rankMeasures orders measures by all-time total descending and keeps the
// top N. Ties break alphabetically for deterministic output.
func (a *Aggregator) rankMeasures(measures rollup) []string {
	labels := measures.sortedLabels()
	sort.SliceStable(labels, func(i, j int) bool {
		return measures.total(labels[i]) > measures.total(labels[j])
	})
	if len(labels) > a.topN {
		labels = labels[:a.topN]
	}
	return labels
}

// buildRollup materializes one region or country block. The country block
// additionally carries a descending latest-year ranking that excludes
// non-positive values.
func buildRollup(agg rollup, years []string, latest string, withRankings bool) *domain.RegionRollup {
	labels := agg.sortedLabels()

	series := make([]domain.Series, 0, len(labels))
	for _, label := range labels {
		series = append(series, agg.series(label, years))
	}

	values := latestValues(agg, labels, latest)
	block := &domain.RegionRollup{
		Available: labels,
		Series:    series,
		Composition: &domain.Composition{
			Year:   latest,
			Labels: labels,
			Values: values,
			Share:  shares(values),
		},
	}

	if withRankings {
		rankings := make([]domain.Ranking, 0, len(labels))
		for i, label := range labels {
			if values[i] > 0 {
				rankings = append(rankings, domain.Ranking{Country: label, Value: values[i]})
			}
		}
		sort.SliceStable(rankings, func(i, j int) bool {
			return rankings[i].Value > rankings[j].Value
		})
		block.Rankings = rankings
	}

	return block
}

func latestValues(agg rollup, labels []string, latest string) []float64 {
	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = agg[label][latest]
	}
	return values
}

// shares normalizes values to sum to 1. A zero denominator is forced to
// 1.0, so degenerate inputs yield zero shares instead of NaN.
func shares(values []float64) []float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		sum = 1.0
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / sum
	}
	return out
}
