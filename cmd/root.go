package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Shared CLI flags
	logLevel string // Log verbosity level
	seed     int64  // Master seed for all random substreams
	output   string // Output CSV path ("-" = stdout)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "episim",
	Short: "Agent-based epidemic simulator with a deterministic compartmental companion",
}

// setupLogging applies the --log flag (and the config file's verbose field,
// which raises the floor to info).
func setupLogging(verbose bool) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	if verbose && level < logrus.InfoLevel {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up shared CLI flags
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warning", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed for random substreams")
	rootCmd.PersistentFlags().StringVar(&output, "output", "-", "Output CSV path (\"-\" for stdout)")
}
