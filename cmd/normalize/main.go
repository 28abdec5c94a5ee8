package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"surveyprep/internal/config"
	"surveyprep/internal/dataprocessing"
	"surveyprep/internal/exporter"
	"surveyprep/internal/files"
	"surveyprep/internal/infrastructure"
	"surveyprep/internal/validation"
)

// options holds the parsed command line for one run.
type options struct {
	inputDir string
	inputs   []string
	output   string
	ruleSet  string
	workers  int
	verbose  bool
}

func main() {
	opts := parseFlags(os.Args[1:])

	level := "info"
	if opts.verbose {
		level = "debug"
	}
	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  level,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "normalize: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) options {
	fs := flag.NewFlagSet("normalize", flag.ExitOnError)
	inDir := fs.String("in", "", "input directory of survey exports (.csv, .xlsx, .xls)")
	out := fs.String("out", "cleaned_master_data.csv", "output path for the combined CSV")
	ruleSet := fs.String("ruleset", "remove", "column policy: remove or suffix")
	workers := fs.Int("workers", 0, "concurrent file transforms during the merge (0 = default)")
	verbose := fs.Bool("v", false, "verbose logging")
	fs.Parse(args)

	return options{
		inputDir: *inDir,
		inputs:   fs.Args(),
		output:   *out,
		ruleSet:  *ruleSet,
		workers:  *workers,
		verbose:  *verbose,
	}
}

// run executes one batch: discover inputs, merge, export.
func run(ctx context.Context, opts options, logger *slog.Logger) error {
	start := time.Now()

	rules, err := dataprocessing.RuleSetByName(opts.ruleSet)
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)

	paths, err := collectInputs(opts, validator)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no spreadsheet files to process")
	}

	if err := validator.ValidateOutputDirectory(filepath.Dir(opts.output)); err != nil {
		return err
	}

	logger.Info("starting batch",
		slog.Int("files", len(paths)),
		slog.String("rule_set", rules.Name),
		slog.String("output", opts.output))

	sources := make([]dataprocessing.SourceFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		sources = append(sources, dataprocessing.SourceFile{
			Name:    filepath.Base(path),
			Content: content,
		})
	}

	normalizer := dataprocessing.NewNormalizer(rules, opts.workers)
	table, err := normalizer.MergeFiles(ctx, sources)
	if err != nil {
		return err
	}

	// BOM on so Excel opens the result with the right encoding.
	writer := exporter.NewCSVWriter(exporter.Options{BOM: true})
	if err := writer.WriteTableFile(opts.output, table); err != nil {
		return err
	}

	elapsed := time.Since(start)
	logger.Info("batch complete",
		slog.Int("files", len(sources)),
		slog.Int("rows", table.RowCount()),
		slog.Int("columns", table.ColumnCount()),
		slog.Duration("elapsed", elapsed))

	fmt.Printf("combined %d files into %s (%d rows, %d columns) in %s\n",
		len(sources), opts.output, table.RowCount(), table.ColumnCount(), elapsed.Round(time.Millisecond))

	return nil
}

// collectInputs resolves the batch file list from -in and positional
// arguments. Directory discovery is sorted by name so batches are
// deterministic.
func collectInputs(opts options, validator *validation.FileValidator) ([]string, error) {
	var paths []string

	if opts.inputDir != "" {
		if err := validator.ValidateInputDirectory(opts.inputDir); err != nil {
			return nil, err
		}
		discovery := files.NewDiscovery(opts.inputDir)
		found, err := discovery.FindSpreadsheetFiles(opts.inputDir)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			paths = append(paths, f.Path)
		}
	}

	for _, arg := range opts.inputs {
		if err := validator.ValidateSpreadsheetFile(arg); err != nil {
			return nil, err
		}
		paths = append(paths, arg)
	}

	return paths, nil
}
