package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/stlkit/alloc"
	"github.com/joshuapare/stlkit/internal/logger"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	logDir   string
	logLevel string
)

// printer formats numbers with digit grouping.
var printer = message.NewPrinter(language.English)

var rootCmd = &cobra.Command{
	Use:   "stlctl",
	Short: "Inspect and exercise the stlkit pool allocator",
	Long: `stlctl prints the size-class layout of the stlkit pool allocator and
runs reproducible allocate/deallocate workloads against it, reporting free-list,
growth and scavenging statistics.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write JSON logs to this directory")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "info", "Minimum log level (debug, info, warn, error)")
}

func execute() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run executes the command line and logs a failing command.
func run(args []string) error {
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("stlctl: command failed", "err", err)
		return err
	}
	return nil
}

// initLogging routes the library logger to --log-dir, or to stderr in
// verbose mode.
func initLogging() error {
	opts := logger.Options{Level: logger.ParseLevel(logLevel)}
	switch {
	case logDir != "":
		opts.Enabled = true
		opts.LogDir = logDir
	case verbose && !quiet:
		opts.Enabled = true
		opts.Writer = os.Stderr
	}
	if err := logger.Init(opts); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	return nil
}

// configByName resolves the --config flag.
func configByName(name string) (*alloc.Config, error) {
	switch name {
	case "", "default":
		return &alloc.DefaultConfig, nil
	case "wide":
		return &alloc.ConfigWide, nil
	default:
		return nil, fmt.Errorf("unknown config %q (want default or wide)", name)
	}
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		printer.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		printer.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
