package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/pharma-organizers/internal/config"
	"github.com/pfrederiksen/pharma-organizers/internal/demo"
	"github.com/pfrederiksen/pharma-organizers/internal/logger"
	"github.com/pfrederiksen/pharma-organizers/internal/pipeline"
	"github.com/pfrederiksen/pharma-organizers/internal/report"
	"github.com/pfrederiksen/pharma-organizers/internal/storage"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNoRecords = 2
)

// Demo output defaults, kept apart from the scrape outputs
const (
	DemoOutputCSV     = "verified_demo_organizers.csv"
	DemoValidationLog = "verified_demo_validation_log.txt"
)

// Version is reported by --version and set from main
var Version = "dev"

// exitError carries a non-zero exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// options holds the flag values shared by all commands
type options struct {
	configPath    string
	logFile       string
	format        string
	verbose       bool
	events        int
	delay         float64
	output        string
	validationLog string
	listingURL    string
	respectRobots bool
	count         int
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "pharma-organizers",
		Short: "Collect organizer contacts for medical and pharma trade events",
		Long: `A CLI tool that reads a medical/pharma event listing, extracts each event's
organizer name, website and email, validates them, and writes a CSV dataset
plus a plain-text validation log.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default ./"+config.DefaultConfigFile+" or ~/"+config.DefaultConfigFile+")")
	pf.StringVar(&opts.logFile, "log-file", "", "Write structured logs to this file instead of stderr")
	pf.StringVar(&opts.format, "format", "text", "Summary format: text, json or markdown")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	pf.StringVar(&opts.output, "output", "", "Dataset CSV path (overrides output_csv)")
	pf.StringVar(&opts.validationLog, "validation-log", "", "Validation log path (overrides validation_log)")

	f := cmd.Flags()
	f.IntVar(&opts.events, "events", config.DefaultEventsToScrape, "Number of listing entries to process")
	f.Float64Var(&opts.delay, "delay", config.DefaultRequestDelay, "Minimum seconds between event page fetches")
	f.StringVar(&opts.listingURL, "listing-url", config.DefaultListingURL, "Event listing page")
	f.BoolVar(&opts.respectRobots, "respect-robots", false, "Skip pages disallowed by robots.txt")

	cmd.AddCommand(newDemoCmd(opts), newSummaryCmd(opts))

	return cmd
}

func newDemoCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write the curated demo dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.count, "count", demo.DefaultCount, "Number of demo events to write")
	return cmd
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [dataset.csv]",
		Short: "Print the data-quality summary of an existing dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, opts, args)
		},
	}
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, opts *options) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := pipeline.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writeBanner(out, cfg)

	res := runner.WithProgress(out).Run(ctx)
	defer func() { logger.Debug("Run metrics", logger.MetricsSnapshot().Fields()) }()

	if res.Outcome == pipeline.OutcomeFailed {
		writeFailure(out, res)
		return &exitError{code: ExitNoRecords, err: fmt.Errorf("scrape failed: %w", res.Err)}
	}

	if err := report.WriteFiles(cfg.OutputCSV, cfg.ValidationLog, res.Records, res.Audit); err != nil {
		return err
	}

	writeRunResult(out, res, cfg)
	return writeSummary(out, res.Records, format)
}

func runDemo(cmd *cobra.Command, opts *options) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	closeLog, err := setupLogger(cfg, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	if !changed(cmd, "output") {
		cfg.OutputCSV = DemoOutputCSV
	}
	if !changed(cmd, "validation-log") {
		cfg.ValidationLog = DemoValidationLog
	}

	records, err := demo.Records(opts.count)
	if err != nil {
		return err
	}

	audit := report.AuditLog{GeneratedAt: time.Now(), RunID: uuid.NewString()}
	for i, rec := range records {
		audit.Entries = append(audit.Entries, report.NewAuditEntry(i+1, rec))
	}

	if err := report.WriteFiles(cfg.OutputCSV, cfg.ValidationLog, records, audit); err != nil {
		return err
	}
	logger.Info("Demo dataset written", logger.Fields{"records": len(records), "path": cfg.OutputCSV})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s with %d demo events\n", cfg.OutputCSV, len(records))
	fmt.Fprintf(out, "Validation log: %s\n\n", cfg.ValidationLog)
	return writeSummary(out, records, format)
}

func runSummary(cmd *cobra.Command, opts *options, args []string) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	path := opts.output
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		cfg, err := loadConfig(cmd, opts)
		if err != nil {
			return err
		}
		path = cfg.OutputCSV
	}

	records, err := report.LoadDataset(path)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	return writeSummary(cmd.OutOrStdout(), records, format)
}

// loadConfig reads the config file, if any, and applies explicitly set flags
// on top of it.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()

	if path := config.FindConfigFile(opts.configPath); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("loading config %s: %w", path, err)
		}
		cfg = loaded
	} else if opts.configPath != "" {
		return cfg, fmt.Errorf("loading config %s: %w", opts.configPath, config.ErrConfigNotFound)
	}

	if changed(cmd, "events") {
		cfg.EventsToScrape = opts.events
	}
	if changed(cmd, "delay") {
		cfg.RequestDelay = opts.delay
	}
	if changed(cmd, "listing-url") {
		cfg.ListingURL = opts.listingURL
	}
	if changed(cmd, "respect-robots") {
		cfg.RespectRobots = opts.respectRobots
	}
	if changed(cmd, "output") {
		cfg.OutputCSV = opts.output
	}
	if changed(cmd, "validation-log") {
		cfg.ValidationLog = opts.validationLog
	}
	if opts.verbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// setupLogger installs the default logger and returns a func that closes the
// log file, if one was opened.
func setupLogger(cfg config.Config, opts *options) (func(), error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}

	if opts.logFile != "" {
		path, err := storage.ExpandPath(opts.logFile)
		if err != nil {
			return nil, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() {
			logger.SetDefault(logger.New(level, os.Stderr))
			f.Close()
		}
	}

	logger.SetDefault(logger.New(level, w))
	return closeFn, nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().ExecuteContext(context.Background())
	os.Exit(exitCode(err, os.Stderr))
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitError
}
