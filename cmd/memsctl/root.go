package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mems/cmd/memsctl/logger"
	"github.com/joshuapare/mems/mems"
	"github.com/joshuapare/mems/mems/printer"
	"github.com/joshuapare/mems/mems/verify"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	showPhys bool
	checkAll bool
	debugLog bool
	logFile  string

	// Allocator configuration
	pageSize    uint64
	virtualBase uint64
)

var rootCmd = &cobra.Command{
	Use:   "memsctl",
	Short: "Drive and inspect the MeMS first-fit allocator",
	Long: `memsctl runs the MeMS allocator against real OS pages. It can replay
the classic demo, execute allocation scripts, and print the region chain
with its holes and allocations after every step.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Options{
			Enabled: debugLog || logFile != "",
			File:    logFile,
			JSON:    jsonOut,
			Level:   slog.LevelDebug,
		})
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Close()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors and reports")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output reports in JSON format")
	rootCmd.PersistentFlags().BoolVar(&showPhys, "phys", false, "Show physical addresses in reports")
	rootCmd.PersistentFlags().
		BoolVar(&checkAll, "check", false, "Validate the allocator after every operation")
	rootCmd.PersistentFlags().BoolVarP(&debugLog, "debug", "d", false, "Log allocator events to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append allocator events to a file")

	rootCmd.PersistentFlags().
		Uint64Var(&pageSize, "page-size", 0, "Region growth granularity in bytes (0 uses 4096)")
	rootCmd.PersistentFlags().
		Uint64Var(&virtualBase, "base", 0, "First virtual address handed out (0 uses 1000)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// newAllocator builds an allocator from the global flags.
func newAllocator() (*mems.Allocator, error) {
	opts := mems.DefaultOptions()
	if pageSize != 0 {
		opts.PageSize = pageSize
	}
	if virtualBase != 0 {
		opts.VirtualBase = mems.Handle(virtualBase)
	}
	opts.Logger = logger.L
	opts.CheckInvariants = opts.CheckInvariants || checkAll

	a, err := mems.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize allocator: %w", err)
	}
	printVerbose("Allocator ready: page size %d, base %d\n", a.PageSize(), a.VirtualBase())
	return a, nil
}

func printerOptions() printer.Options {
	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	opts.ShowPhysical = showPhys
	opts.ShowArena = verbose
	return opts
}

// printReport snapshots the allocator and prints it, validating the snapshot
// first when --check is set.
func printReport(a *mems.Allocator) error {
	rep, err := a.Report()
	if err != nil {
		return err
	}
	if checkAll {
		if err := verify.AllInvariants(rep); err != nil {
			return fmt.Errorf("snapshot validation failed: %w", err)
		}
	}
	return printer.New(os.Stdout, printerOptions()).PrintReport(rep)
}

// printCounters prints the allocator's operation counters.
func printCounters(a *mems.Allocator) error {
	return printer.New(os.Stdout, printerOptions()).PrintStats(a.Stats())
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
