// Command processor runs the net worth data pipeline as a batch job: it
// parses the input worksheets, merges participants with profession data,
// projects every balance over the full horizon, and writes the CSV, JSON,
// and Excel outputs used by the dashboard and downstream analysis.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"nwcli/internal/config"
	"nwcli/internal/dataprocessing"
	"nwcli/internal/exporter"
	"nwcli/internal/infrastructure"
	"nwcli/internal/projection"
	"nwcli/internal/sheets"
	"nwcli/internal/validation"
)

func main() {
	baseDir := flag.String("dir", "", "base directory for data/input and data/processed (defaults to the executable's directory)")
	growth := flag.Float64("growth", projection.DefaultAnnualGrowthRate, "annual growth rate for the projection")
	pullSheets := flag.Bool("sheets", false, "download the participant worksheet from Google Sheets before processing")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  *logLevel,
		Format: "text",
		Output: "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(*baseDir, *growth, *pullSheets, logger); err != nil {
		logger.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(baseDir string, growth float64, pullSheets bool, logger *slog.Logger) error {
	start := time.Now()
	ctx := context.Background()

	paths, err := resolvePaths(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	logger.Info("starting pipeline",
		slog.String("input_dir", paths.InputDir),
		slog.String("output_dir", paths.ProcessedDir),
		slog.Float64("growth", growth))

	if pullSheets {
		if err := downloadSurvey(ctx, paths, logger); err != nil {
			return err
		}
	}

	scenario := projection.DefaultScenario()
	scenario.AnnualGrowthRate = growth
	if err := scenario.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	dataset, err := buildDataset(ctx, paths, scenario, logger)
	if err != nil {
		return err
	}

	if err := writeOutputs(paths, dataset, logger); err != nil {
		return err
	}

	logger.Info("pipeline complete",
		slog.Int("participants", len(dataset.Merged)),
		slog.Int("timeline_points", len(dataset.Timeline)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

func resolvePaths(baseDir string) (*config.Paths, error) {
	if baseDir != "" {
		return config.NewPaths(baseDir), nil
	}
	return config.GetPaths()
}

func downloadSurvey(ctx context.Context, paths *config.Paths, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config for sheets download: %w", err)
	}

	client, err := sheets.NewClient(ctx, paths.CredentialsPath, cfg.Sheets, logger)
	if err != nil {
		return fmt.Errorf("failed to create sheets client: %w", err)
	}

	if err := client.DownloadParticipants(ctx, paths.ParticipantsPath()); err != nil {
		return fmt.Errorf("failed to download participant worksheet: %w", err)
	}
	return nil
}

func buildDataset(ctx context.Context, paths *config.Paths, scenario projection.Scenario, logger *slog.Logger) (*dataprocessing.Dataset, error) {
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(paths.InputDir); err != nil {
		return nil, err
	}
	for _, required := range []string{paths.ParticipantsPath(), paths.ProfessionsPath()} {
		if err := validator.ValidateCSVFile(required); err != nil {
			return nil, err
		}
	}
	if err := validator.ValidateOutputDirectory(paths.ProcessedDir); err != nil {
		return nil, err
	}

	participants, err := dataprocessing.ParseParticipants(paths.ParticipantsPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse participants: %w", err)
	}

	professions, err := dataprocessing.ParseProfessions(paths.ProfessionsPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to parse professions: %w", err)
	}

	var taxes *projection.TaxTable
	if table, err := dataprocessing.ParseTaxTable(paths.TaxTablePath(), logger); err != nil {
		logger.Warn("tax table unavailable, skipping income enrichment",
			slog.String("path", paths.TaxTablePath()),
			slog.String("error", err.Error()))
	} else {
		taxes = table
	}

	merged := dataprocessing.Merge(participants, professions, taxes, logger)

	processor := dataprocessing.NewProcessor(logger, scenario)
	return processor.Process(ctx, merged)
}

func writeOutputs(paths *config.Paths, dataset *dataprocessing.Dataset, logger *slog.Logger) error {
	timelineExp := exporter.NewTimelineExporter(paths)
	summaryExp := exporter.NewSummaryExporter(paths)
	workbookExp := exporter.NewWorkbookExporter(paths)

	if err := timelineExp.ExportMerged(dataset.Merged, config.MergedFile); err != nil {
		return fmt.Errorf("failed to write merged CSV: %w", err)
	}
	if err := timelineExp.ExportTimeline(dataset.Timeline, config.TimelineFile); err != nil {
		return fmt.Errorf("failed to write timeline CSV: %w", err)
	}
	if err := timelineExp.ExportAnnual(dataset.Series, config.AnnualFile); err != nil {
		return fmt.Errorf("failed to write annual CSV: %w", err)
	}
	if err := summaryExp.ExportCSV(dataset.Summaries, config.SummaryFile); err != nil {
		return fmt.Errorf("failed to write summary CSV: %w", err)
	}
	if err := summaryExp.ExportJSON(dataset.Summaries, config.SummaryJSON); err != nil {
		return fmt.Errorf("failed to write summary JSON: %w", err)
	}
	if err := workbookExp.Export(dataset.Merged, dataset.Series, dataset.Summaries, config.WorkbookFile); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("outputs written",
		slog.String("merged", paths.MergedPath()),
		slog.String("timeline", paths.TimelinePath()),
		slog.String("annual", paths.AnnualPath()),
		slog.String("summary", paths.SummaryPath()),
		slog.String("workbook", paths.WorkbookPath()))

	return nil
}
