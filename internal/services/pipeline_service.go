// Package services orchestrates pipeline runs: input discovery, per-file
// normalization with isolation, output writing, and summary aggregation.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"investviz/internal/config"
	"investviz/internal/csvio"
	apperrors "investviz/internal/errors"
	"investviz/internal/files"
	"investviz/internal/normalize"
	"investviz/internal/summary"
	"investviz/internal/validation"
	"investviz/pkg/contracts/domain"
)

// Output file names within a run directory.
const (
	NormalizedCSVName = "normalized.csv"
	SummaryJSONName   = "summary.json"
	ParseLogName      = "parse_log.json"
	PivotCSVName      = "pivot_year_measure.csv"
)

// InputReport is the per-file entry of the parse log.
type InputReport struct {
	normalize.FileMeta
	Headers []string        `json:"headers"`
	Stats   normalize.Stats `json:"stats"`
}

// FileFailure records one input that could not be processed.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ParseLog is the diagnostic artifact written next to the normalized CSV.
type ParseLog struct {
	Pipeline      string        `json:"pipeline"`
	SchemaVersion string        `json:"schema_version"`
	GeneratedAt   string        `json:"generated_at"`
	Inputs        []InputReport `json:"inputs"`
	Failures      []FileFailure `json:"failures,omitempty"`
}

// RunReport summarizes one pipeline execution.
type RunReport struct {
	Inputs      []InputReport   `json:"inputs"`
	Failures    []FileFailure   `json:"failures,omitempty"`
	RecordCount int             `json:"record_count"`
	Summary     *domain.Summary `json:"summary"`
	OutputDir   string          `json:"output_dir"`
}

// PipelineService runs the normalization pipeline over a file or a
// directory batch. Each run is synchronous and operates on its own output
// directory; the service itself holds no per-run state.
type PipelineService struct {
	cfg        *config.Config
	logger     *slog.Logger
	normalizer *normalize.Normalizer
	aggregator *summary.Aggregator
	validator  *validation.FileValidator
}

// NewPipelineService creates a pipeline service.
func NewPipelineService(cfg *config.Config, normalizer *normalize.Normalizer, aggregator *summary.Aggregator, logger *slog.Logger) *PipelineService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PipelineService{
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "pipeline_service")),
		normalizer: normalizer,
		aggregator: aggregator,
		validator:  validation.NewFileValidator(logger),
	}
}

// Run normalizes the input path (one file, or every CSV/Excel file directly
// under a directory) into outDir. A file that fails to read is skipped and
// reported rather than aborting the batch; the run fails only when no input
// file could be processed at all.
func (s *PipelineService) Run(ctx context.Context, inputPath, outDir string) (*RunReport, error) {
	runsTotal.Inc()

	if err := s.validator.ValidateInputPath(inputPath); err != nil {
		return nil, apperrors.NewNotFoundError("input path").WithContext("path", inputPath).WithContext("cause", err.Error())
	}
	if err := s.validator.ValidateOutputDirectory(outDir); err != nil {
		return nil, apperrors.NewStorageError("output directory not usable", err).WithContext("path", outDir)
	}

	inputs, err := s.resolveInputs(inputPath)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, apperrors.NewNotFoundError("input files").WithContext("path", inputPath)
	}

	s.logger.InfoContext(ctx, "starting pipeline run",
		slog.String("input", inputPath),
		slog.String("output_dir", outDir),
		slog.Int("file_count", len(inputs)))

	var allRecords []domain.TidyRecord
	var reports []InputReport
	var failures []FileFailure

	for _, path := range inputs {
		result, err := s.normalizer.NormalizeFile(path)
		if err != nil {
			filesFailedTotal.Inc()
			failure := FileFailure{Path: path, Error: err.Error()}
			failures = append(failures, failure)
			s.logger.WarnContext(ctx, "input file skipped",
				slog.String("path", path),
				slog.String("error", err.Error()))
			if !s.cfg.Pipeline.ContinueOnFile {
				return nil, err
			}
			continue
		}

		filesProcessedTotal.Inc()
		recordsNormalizedTotal.Add(float64(len(result.Records)))
		allRecords = append(allRecords, result.Records...)
		reports = append(reports, InputReport{
			FileMeta: result.Meta,
			Headers:  result.Headers,
			Stats:    result.Stats,
		})
	}

	if len(reports) == 0 {
		return nil, apperrors.NewParsingError("no input file could be processed", nil).
			WithContext("input", inputPath).
			WithContext("failures", len(failures))
	}

	sum := s.aggregator.BuildSummary(allRecords)

	if err := s.writeOutputs(outDir, allRecords, sum, reports, failures); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("files_processed", len(reports)),
		slog.Int("files_failed", len(failures)),
		slog.Int("record_count", len(allRecords)))

	return &RunReport{
		Inputs:      reports,
		Failures:    failures,
		RecordCount: len(allRecords),
		Summary:     sum,
		OutputDir:   outDir,
	}, nil
}

// resolveInputs expands a path into the ordered list of files to process.
func (s *PipelineService) resolveInputs(inputPath string) ([]string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to stat input path", err).WithContext("path", inputPath)
	}
	if !info.IsDir() {
		return []string{inputPath}, nil
	}

	discovered, err := files.NewDiscovery("").FindInputFiles(inputPath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list input directory", err).WithContext("path", inputPath)
	}
	paths := make([]string, len(discovered))
	for i, f := range discovered {
		paths[i] = f.Path
	}
	return paths, nil
}

// writeOutputs materializes the run artifacts into outDir.
func (s *PipelineService) writeOutputs(outDir string, records []domain.TidyRecord, sum *domain.Summary, reports []InputReport, failures []FileFailure) error {
	rows := make([][]string, len(records))
	for i := range records {
		rows[i] = records[i].CSVRow()
	}
	if err := csvio.WriteSimpleCSV(filepath.Join(outDir, NormalizedCSVName), domain.SchemaHeaders, rows); err != nil {
		return apperrors.NewStorageError("failed to write normalized CSV", err)
	}

	if err := writeJSON(filepath.Join(outDir, SummaryJSONName), sum); err != nil {
		return apperrors.NewStorageError("failed to write summary JSON", err)
	}

	parseLog := ParseLog{
		Pipeline:      "investviz",
		SchemaVersion: domain.SchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Inputs:        reports,
		Failures:      failures,
	}
	if err := writeJSON(filepath.Join(outDir, ParseLogName), parseLog); err != nil {
		return apperrors.NewStorageError("failed to write parse log", err)
	}

	if s.cfg.Pipeline.WritePivot {
		if err := s.writePivot(filepath.Join(outDir, PivotCSVName), records); err != nil {
			return apperrors.NewStorageError("failed to write pivot CSV", err)
		}
	}

	return nil
}

// writePivot writes the year x measure pivot of summed values for
// spreadsheet analysis. Records without a year are left out.
func (s *PipelineService) writePivot(path string, records []domain.TidyRecord) error {
	pivot := make(map[int]map[string]float64)
	measureSet := make(map[string]struct{})
	for _, r := range records {
		if r.Year == nil {
			continue
		}
		measureSet[r.Measure] = struct{}{}
		byMeasure, ok := pivot[*r.Year]
		if !ok {
			byMeasure = make(map[string]float64)
			pivot[*r.Year] = byMeasure
		}
		byMeasure[r.Measure] += r.Value100mYen
	}

	measures := make([]string, 0, len(measureSet))
	for m := range measureSet {
		measures = append(measures, m)
	}
	sort.Strings(measures)

	years := make([]int, 0, len(pivot))
	for y := range pivot {
		years = append(years, y)
	}
	sort.Ints(years)

	headers := append([]string{"year"}, measures...)
	rows := make([][]string, 0, len(years))
	for _, y := range years {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(y))
		for _, m := range measures {
			row = append(row, strconv.FormatFloat(pivot[y][m], 'f', -1, 64))
		}
		rows = append(rows, row)
	}

	return csvio.WriteSimpleCSV(path, headers, rows)
}

// writeJSON writes an indented JSON artifact, creating parent directories.
func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
