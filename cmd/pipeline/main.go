package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"investviz/internal/config"
	"investviz/internal/infrastructure"
	"investviz/internal/normalize"
	"investviz/internal/regions"
	"investviz/internal/services"
	"investviz/internal/summary"
)

func main() {
	in := flag.String("in", "", "input CSV/Excel file or directory (defaults to the configured data dir)")
	out := flag.String("out", "", "output directory for normalized artifacts (defaults to the configured build dir)")
	topN := flag.Int("top", 0, "number of top measures to chart (overrides config when > 0)")
	noOutliers := flag.Bool("no-outliers", false, "disable outlier flagging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *in == "" {
		*in = cfg.Paths.DataDir
	}
	if *out == "" {
		*out = cfg.Paths.BuildDir
	}
	if *topN > 0 {
		cfg.Pipeline.TopMeasures = *topN
	}
	if *noOutliers {
		cfg.Pipeline.FlagOutliers = false
	}

	catalog := regions.NewCatalog(cfg.Paths.RegionsFile, logger)
	matcher := regions.NewMatcher(catalog.Entries())
	normalizer := normalize.NewNormalizer(matcher, logger, cfg.Pipeline.FlagOutliers)
	aggregator := summary.NewAggregator(cfg.Pipeline.TopMeasures, matcher, logger)
	pipeline := services.NewPipelineService(cfg, normalizer, aggregator, logger)

	report, err := pipeline.Run(context.Background(), *in, *out)
	if err != nil {
		logger.Error("Pipeline run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d file(s), %d record(s) -> %s\n",
		len(report.Inputs), report.RecordCount, report.OutputDir)
	for _, f := range report.Failures {
		fmt.Printf("  skipped %s: %s\n", f.Path, f.Error)
	}
}
