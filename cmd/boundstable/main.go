// Package main provides the CLI entry point for boundstable, which turns
// systematic-testing result files into LaTeX table rows.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/d3sformal/threadfuzzer-net/config"
	"github.com/d3sformal/threadfuzzer-net/report"
	"github.com/d3sformal/threadfuzzer-net/results"
	"github.com/d3sformal/threadfuzzer-net/synth"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("boundstable failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	inputDir   string
	outputPath string
	logLevel   string
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:   "boundstable",
		Short: "Render bounded systematic testing results as LaTeX rows",
		Long: `Boundstable reads results_systematic_<suffix>.txt for every
preemption-bound configuration and writes one violated row and one
iterations row per benchmark to a LaTeX table body.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderFromFlags(cmd, logger, level, gf)
		},
	}

	pflags := root.PersistentFlags()
	pflags.StringVar(&gf.configPath, "config", "",
		"Path to a TOML config file")
	pflags.StringVar(&gf.inputDir, "dir", config.DefaultInputDir,
		"Directory containing the result files")
	pflags.StringVar(&gf.outputPath, "output", config.DefaultOutputPath,
		"Path of the generated .tex file")
	pflags.StringVar(&gf.logLevel, "log-level", config.DefaultLogLevel,
		"Log level: debug, info, warn, error")

	root.AddCommand(newRenderCmd(logger, level, &gf))
	root.AddCommand(newSynthCmd(logger, level, &gf))

	return root
}

func newRenderCmd(logger *slog.Logger, level *slog.LevelVar, gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Write the LaTeX table rows (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderFromFlags(cmd, logger, level, *gf)
		},
	}
}

func newSynthCmd(logger *slog.Logger, level *slog.LevelVar, gf *globalFlags) *cobra.Command {
	var (
		benchmarks  []string
		iterations  int
		seed        int64
		timeoutRate float64
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write synthetic result files for every configuration",
		Long: `Generate deterministic results_systematic_<suffix>.txt files in the
runner's output format, for trying out the table pipeline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, level, *gf)
			if err != nil {
				return err
			}

			paths, err := synth.WriteAll(cfg.InputDir, synth.Config{
				Benchmarks:  benchmarks,
				Iterations:  iterations,
				Seed:        seed,
				TimeoutRate: timeoutRate,
			}, results.Suffixes())
			if err != nil {
				return errors.Wrap(err, "write synthetic results")
			}

			logger.InfoContext(cmd.Context(), "synthetic results written",
				slog.String("dir", cfg.InputDir),
				slog.Int("files", len(paths)),
				slog.Int("benchmarks", len(benchmarks)),
			)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&benchmarks, "benchmarks", synth.DefaultBenchmarks(),
		"Benchmark names to generate")
	flags.IntVar(&iterations, "iterations", 100,
		"Runs per benchmark")
	flags.Int64Var(&seed, "seed", 1,
		"Random seed")
	flags.Float64Var(&timeoutRate, "timeout-rate", 0.02,
		"Probability that a single run times out")

	return cmd
}

// resolveConfig loads the config file and applies explicitly set flags
// over it.
func resolveConfig(cmd *cobra.Command, level *slog.LevelVar, gf globalFlags) (config.Config, error) {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.InputDir = gf.inputDir
	}

	if flags.Changed("output") {
		cfg.OutputPath = gf.outputPath
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = gf.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	level.Set(cfg.Level())

	return cfg, nil
}

func renderFromFlags(cmd *cobra.Command, logger *slog.Logger, level *slog.LevelVar, gf globalFlags) error {
	cfg, err := resolveConfig(cmd, level, gf)
	if err != nil {
		return err
	}

	return renderTable(cmd.Context(), logger, cfg)
}

func renderTable(ctx context.Context, logger *slog.Logger, cfg config.Config) error {
	suffixes := results.Suffixes()

	logger.InfoContext(ctx, "building table",
		slog.String("input_dir", cfg.InputDir),
		slog.String("output", cfg.OutputPath),
		slog.Int("configurations", len(suffixes)),
	)

	// Step 1: Read and parse every configuration's file.
	files, err := results.NewLoader(cfg.InputDir, logger).LoadAll(ctx, suffixes)
	if err != nil {
		return errors.Wrap(err, "load results")
	}

	// Step 2: Aggregate per benchmark.
	table := results.NewTable()
	for _, f := range files {
		table.AddFile(f)

		logger.DebugContext(ctx, "configuration aggregated",
			slog.String("suffix", string(f.Suffix)),
			slog.Int("records", len(f.Records)),
		)
	}

	missing := table.Missing(suffixes)
	for _, name := range table.Names() {
		if len(missing[name]) == 0 {
			continue
		}

		logger.WarnContext(ctx, "benchmark missing configurations",
			slog.String("benchmark", name),
			slog.Any("suffixes", missing[name]),
		)
	}

	// Step 3: Render.
	if err := report.WriteFile(cfg.OutputPath, table, suffixes); err != nil {
		return errors.Wrap(err, "render table")
	}

	logger.InfoContext(ctx, "table written",
		slog.String("output", cfg.OutputPath),
		slog.Int("benchmarks", table.Len()),
	)

	return nil
}
