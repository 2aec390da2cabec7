package domain

import (
	"strconv"
	"strings"
)

// Side classifies the flow direction of a value series.
type Side string

const (
	SideAssets      Side = "assets"
	SideLiabilities Side = "liabilities"
	SideUnknown     Side = "unknown"
)

// Metric classifies the kind of value a series carries.
type Metric string

const (
	MetricReinvested Metric = "reinvested"
	MetricNet        Metric = "net"
	MetricFlow       Metric = "flow"
	MetricUnknown    Metric = "unknown"
)

// TidyRecord is the canonical normalized output row: one (year, measure,
// segment) combination carrying a single value expressed in 100 million yen.
// A record is never emitted for a cell that fails to parse as a number.
type TidyRecord struct {
	Year            *int     `json:"year"`
	FiscalYear      *int     `json:"fiscal_year"` // reserved
	YearJP          *string  `json:"year_jp"`     // reserved
	Side            Side     `json:"side"`
	Metric          Metric   `json:"metric"`
	Measure         string   `json:"measure"`
	SegmentRegion   *string  `json:"segment_region"`
	SegmentIndustry *string  `json:"segment_industry"` // reserved
	SegmentOther    *string  `json:"segment_other"`    // reserved
	Value100mYen    float64  `json:"value_100m_yen"`
	QAFlag          *string  `json:"qa_flag"`
	FlagOutlier     *bool    `json:"flag_outlier"`
	FlagBreak       *bool    `json:"flag_break"` // reserved
}

// SchemaVersion identifies the tidy record schema revision.
const SchemaVersion = "0.1.0"

// SchemaHeaders lists the tidy CSV columns in canonical order.
var SchemaHeaders = []string{
	"year",
	"fiscal_year",
	"year_jp",
	"side",
	"metric",
	"measure",
	"segment_region",
	"segment_industry",
	"segment_other",
	"value_100m_yen",
	"qa_flag",
	"flag_outlier",
	"flag_break",
}

// AppendQAFlag appends a quality annotation token, semicolon-joined with any
// existing content.
func (r *TidyRecord) AppendQAFlag(token string) {
	if r.QAFlag == nil || *r.QAFlag == "" {
		r.QAFlag = &token
		return
	}
	joined := *r.QAFlag + ";" + token
	r.QAFlag = &joined
}

// CSVRow renders the record as tidy CSV fields in SchemaHeaders order.
// Nil fields become empty strings.
func (r *TidyRecord) CSVRow() []string {
	row := make([]string, 0, len(SchemaHeaders))
	row = append(row, intPtrString(r.Year))
	row = append(row, intPtrString(r.FiscalYear))
	row = append(row, strPtrString(r.YearJP))
	row = append(row, string(r.Side))
	row = append(row, string(r.Metric))
	row = append(row, r.Measure)
	row = append(row, strPtrString(r.SegmentRegion))
	row = append(row, strPtrString(r.SegmentIndustry))
	row = append(row, strPtrString(r.SegmentOther))
	row = append(row, strconv.FormatFloat(r.Value100mYen, 'f', -1, 64))
	row = append(row, strPtrString(r.QAFlag))
	row = append(row, boolPtrString(r.FlagOutlier))
	row = append(row, boolPtrString(r.FlagBreak))
	return row
}

func intPtrString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func strPtrString(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func boolPtrString(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
