// Package cli implements the tagcheck command line interface.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Error codes used in JSON error responses.
const (
	ErrCodeNotFound  = "NOT_FOUND"
	ErrCodeParse     = "PARSE_ERROR"
	ErrCodeSuite     = "INVALID_SUITE"
	ErrCodeStore     = "STORE_ERROR"
	ErrCodeCompare   = "COMPARE_FAILED"
	ErrCodeRunFailed = "RUN_FAILED"
	ErrCodeGeneric   = "ERROR"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is resolved from ConfigPath in PersistentPreRunE.
	Config Config

	// Logger receives diagnostic output on stderr, gated by Verbose.
	Logger zerolog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tagcheck CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tagcheck",
		Short: "Validate tagged simulation output against reference data",
		Long: `tagcheck parses the tagged data format written by simulation codes
(@name:dtype:rank:shape headers followed by whitespace-separated values)
and validates actual output against stored reference files, with an
absolute tolerance for real and complex values.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $HOME/"+defaultConfigName+")")

	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// newLogger builds the diagnostic logger. Diagnostics always go to stderr
// so JSON output on stdout stays intact.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
