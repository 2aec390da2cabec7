package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investviz/internal/config"
	"investviz/internal/csvio"
	"investviz/internal/normalize"
	"investviz/internal/regions"
	"investviz/internal/summary"
)

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			TopMeasures:    5,
			FlagOutliers:   true,
			WritePivot:     true,
			ContinueOnFile: true,
		},
	}
}

func newTestService(cfg *config.Config) *PipelineService {
	catalog := regions.NewCatalog("", nil)
	matcher := regions.NewMatcher(catalog.Entries())
	normalizer := normalize.NewNormalizer(matcher, nil, cfg.Pipeline.FlagOutliers)
	aggregator := summary.NewAggregator(cfg.Pipeline.TopMeasures, matcher, nil)
	return NewPipelineService(cfg, normalizer, aggregator, nil)
}

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestRun_SingleFile(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeInput(t, inDir, "対外直接投資_億円.csv",
		"年度,米国,中国\n2020,100,200\n2021,300,400\n")

	svc := newTestService(testConfig())
	report, err := svc.Run(context.Background(), filepath.Join(inDir, "対外直接投資_億円.csv"), outDir)

	require.NoError(t, err)
	assert.Equal(t, 4, report.RecordCount)
	assert.Empty(t, report.Failures)
	require.Len(t, report.Inputs, 1)
	assert.Equal(t, 1, report.Inputs[0].HeaderRows)
	require.NotNil(t, report.Summary)
	assert.Equal(t, []string{"2020", "2021"}, report.Summary.Years)

	// Run artifacts on disk.
	for _, name := range []string{NormalizedCSVName, SummaryJSONName, ParseLogName, PivotCSVName} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	matrix, _, err := csvio.ReadMatrix(filepath.Join(outDir, NormalizedCSVName))
	require.NoError(t, err)
	require.Len(t, matrix, 5, "header plus four records")
	assert.Equal(t, "year", matrix[0][0])

	var parseLog ParseLog
	data, err := os.ReadFile(filepath.Join(outDir, ParseLogName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &parseLog))
	assert.Equal(t, "investviz", parseLog.Pipeline)
	require.Len(t, parseLog.Inputs, 1)
	assert.Equal(t, 4, parseLog.Inputs[0].Stats.RowsOut)
}

func TestRun_DirectoryBatchSkipsBadFile(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeInput(t, inDir, "a_good.csv", "年度,金額\n2020,100\n2021,200\n")
	// An .xlsx extension with CSV bytes fails the Excel reader.
	writeInput(t, inDir, "b_broken.xlsx", "not,a,workbook\n")

	svc := newTestService(testConfig())
	report, err := svc.Run(context.Background(), inDir, outDir)

	require.NoError(t, err)
	assert.Equal(t, 2, report.RecordCount)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Path, "b_broken.xlsx")
	require.Len(t, report.Inputs, 1)
}

func TestRun_BatchAbortsWhenIsolationDisabled(t *testing.T) {
	inDir := t.TempDir()
	writeInput(t, inDir, "a_broken.xlsx", "not,a,workbook\n")
	writeInput(t, inDir, "b_good.csv", "年度,金額\n2020,100\n")

	cfg := testConfig()
	cfg.Pipeline.ContinueOnFile = false

	svc := newTestService(cfg)
	_, err := svc.Run(context.Background(), inDir, filepath.Join(t.TempDir(), "out"))

	assert.Error(t, err)
}

func TestRun_AllFilesFailing(t *testing.T) {
	inDir := t.TempDir()
	writeInput(t, inDir, "broken.xlsx", "not,a,workbook\n")

	svc := newTestService(testConfig())
	_, err := svc.Run(context.Background(), inDir, filepath.Join(t.TempDir(), "out"))

	assert.Error(t, err, "a run with zero processed files fails")
}

func TestRun_EmptyDirectory(t *testing.T) {
	svc := newTestService(testConfig())
	_, err := svc.Run(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "out"))
	assert.Error(t, err)
}

func TestRun_MissingInput(t *testing.T) {
	svc := newTestService(testConfig())
	_, err := svc.Run(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), t.TempDir())
	assert.Error(t, err)
}

func TestRun_PivotContent(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeInput(t, inDir, "data.csv", "年度,投資額\n2020,10\n2021,30\n")

	svc := newTestService(testConfig())
	_, err := svc.Run(context.Background(), inDir, outDir)
	require.NoError(t, err)

	matrix, _, err := csvio.ReadMatrix(filepath.Join(outDir, PivotCSVName))
	require.NoError(t, err)
	require.Len(t, matrix, 3)
	assert.Equal(t, []string{"year", "投資額"}, matrix[0])
	assert.Equal(t, []string{"2020", "10"}, matrix[1])
	assert.Equal(t, []string{"2021", "30"}, matrix[2])
}
