package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/PyBalance/Audit-Sampling/internal/config"
	"github.com/PyBalance/Audit-Sampling/pkg/constants"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string, verbose bool) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if verbose {
		level = "debug"
	}
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "console" // Default to console for interactive CLI use
	}

	// Configure encoder
	var conf zap.Config
	switch format {
	case "console":
		conf = zap.NewDevelopmentConfig()
		conf.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		conf = zap.NewProductionConfig()
		conf.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		conf.OutputPaths = []string{loggingConfig.OutputFile}
		conf.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return conf.Build()
}

type cliOptions struct {
	journal               string
	start                 string
	end                   string
	method                string
	materiality           float64
	tolerableMisstatement float64
	riskFactor            float64
	confidence            float64
	size                  int
	accounts              []string
	configPath            string
	output                string
	columns               []string
	seed                  int64
	verbose               bool
	logLevel              string
}

func main() {
	var opts cliOptions

	rootCmd := &cobra.Command{
		Use:   "audit-sampler",
		Short: "Audit sampling from accounting ledgers (MUS and random)",
		Long: `audit-sampler draws audit samples from an accounting journal:
  - two methods: MUS (monetary unit sampling) and simple random sampling;
  - populations built by period, report subject, and transaction direction;
  - optional JSON rule configuration, all fields optional;
  - one Excel output with a worksheet per population plus a summary sheet.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			seedSet := cmd.Flags().Changed("seed")
			return run(opts, seedSet)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.journal, "journal", "", "path to the ledger file (.xlsx or .csv)")
	flags.StringVar(&opts.start, "start", "", "period start date (inclusive), e.g. 2025-01-01")
	flags.StringVar(&opts.end, "end", "", "period end date (inclusive), e.g. 2025-12-31")
	flags.StringVar(&opts.method, "method", "", "sampling method: mus or random")
	flags.Float64Var(&opts.materiality, "materiality", 0, "materiality used as tolerable error when --tolerable-misstatement is absent (MUS)")
	flags.Float64Var(&opts.tolerableMisstatement, "tolerable-misstatement", 0, "tolerable misstatement, takes precedence over --materiality (MUS)")
	flags.Float64Var(&opts.riskFactor, "risk-factor", constants.DefaultRiskFactor, "expected error = tolerable error x risk factor (MUS)")
	flags.Float64Var(&opts.confidence, "confidence", constants.DefaultConfidenceLevel, "confidence level in (0,1) (MUS)")
	flags.IntVar(&opts.size, "size", 0, "sample size (random method)")
	flags.StringSliceVar(&opts.accounts, "accounts", nil, "report-subject accounts to sample; empty or 'all' samples every account")
	flags.StringVar(&opts.configPath, "config", "", "optional JSON rule configuration file")
	flags.StringVar(&opts.output, "output", "", "output Excel path")
	flags.StringSliceVar(&opts.columns, "columns", nil, "output columns: default set, +col additions, explicit list, or 'all'")
	flags.Int64Var(&opts.seed, "seed", 0, "seed for reproducible selection (optional)")
	flags.BoolVar(&opts.verbose, "verbose", false, "verbose logging and console summary")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	for _, required := range []string{"journal", "start", "end", "method", "output"} {
		if err := rootCmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
