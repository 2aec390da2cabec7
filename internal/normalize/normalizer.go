package normalize

import (
	"log/slog"
	"path/filepath"

	"investviz/internal/csvio"
	"investviz/internal/regions"
	"investviz/pkg/contracts/domain"
)

// Result carries everything extracted from one input file: the tidy
// records, the flattened headers, reshape statistics, and the signal
// metadata recorded into the parse log.
type Result struct {
	Records []domain.TidyRecord
	Headers []string
	Stats   Stats
	Meta    FileMeta
}

// FileMeta is the per-file diagnostic block of the parse log.
type FileMeta struct {
	Path         string        `json:"path"`
	Encoding     string        `json:"encoding,omitempty"`
	Delimiter    string        `json:"delimiter,omitempty"`
	HeaderRows   int           `json:"header_rows"`
	UnitDetected string        `json:"unit_detected"`
	ScaleFactor  float64       `json:"scale_factor"`
	Side         domain.Side   `json:"side"`
	Metric       domain.Metric `json:"metric"`
}

// Normalizer converts raw cell matrices into tidy records. It is stateless
// apart from its collaborators and safe for sequential reuse across files.
type Normalizer struct {
	reshaper     *Reshaper
	logger       *slog.Logger
	flagOutliers bool
}

// NewNormalizer creates a normalizer using the given region matcher.
func NewNormalizer(matcher *regions.Matcher, logger *slog.Logger, flagOutliers bool) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		reshaper:     NewReshaper(matcher),
		logger:       logger,
		flagOutliers: flagOutliers,
	}
}

// NormalizeMatrix runs the full structural inference chain over one raw
// matrix: boundary detection, header flattening, signal extraction,
// reshape, and outlier annotation. sourceName participates in signal
// detection because units and sides are often stated only in file names.
func (n *Normalizer) NormalizeMatrix(matrix [][]string, sourceName string) Result {
	headerRows := DetectHeaderRows(matrix)
	headers := BuildHeaders(matrix, headerRows)

	texts := append(append([]string{}, headers...), filepath.Base(sourceName))
	unitPattern, scale := DetectUnitScale(texts)
	side := DetectSide(texts)
	metric := DetectMetric(texts)

	rows := DataRows(matrix, headers, headerRows)
	records, stats := n.reshaper.Reshape(rows, headers, side, metric, scale)

	if n.flagOutliers {
		FlagOutliers(records)
	}

	n.logger.Debug("matrix normalized",
		slog.String("source", sourceName),
		slog.Int("header_rows", headerRows),
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_out", stats.RowsOut),
		slog.Float64("scale_factor", scale))

	return Result{
		Records: records,
		Headers: headers,
		Stats:   stats,
		Meta: FileMeta{
			Path:         sourceName,
			HeaderRows:   headerRows,
			UnitDetected: unitPattern,
			ScaleFactor:  scale,
			Side:         side,
			Metric:       metric,
		},
	}
}

// NormalizeFile reads one CSV or Excel file and normalizes its matrix.
// Read failures propagate; everything past the read degrades gracefully.
func (n *Normalizer) NormalizeFile(path string) (Result, error) {
	matrix, meta, err := csvio.ReadAnyMatrix(path)
	if err != nil {
		return Result{}, err
	}

	result := n.NormalizeMatrix(matrix, meta.Path)
	result.Meta.Encoding = meta.Encoding
	result.Meta.Delimiter = meta.Delimiter
	result.Meta.Path = meta.Path
	return result, nil
}
