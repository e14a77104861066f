package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tagcheck/internal/tagged"
)

// EntrySummary is the JSON shape of one parsed entry.
type EntrySummary struct {
	Name   string       `json:"name"`
	Dtype  tagged.Dtype `json:"dtype"`
	Rank   int          `json:"rank"`
	Shape  []int        `json:"shape,omitempty"`
	Values int          `json:"values"`
}

// ParseResult is the JSON payload of the parse command.
type ParseResult struct {
	File    string         `json:"file"`
	Entries []EntrySummary `json:"entries"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	var showValues bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a tagged data file and list its entries",
		Long: `Parse a tagged data file and list every entry with its name, dtype,
rank and shape. Files ending in .gz or .zst are decompressed
transparently. With --values the decoded data is printed as well.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], showValues, cmd)
		},
	}
	cmd.Flags().BoolVar(&showValues, "values", false, "print decoded values")
	return cmd
}

func runParse(opts *RootOptions, path string, showValues bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	r, err := tagged.Open(path)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	defer r.Close()

	entries, err := r.ReadAll()
	if err != nil {
		var ee *tagged.EntryError
		if errors.As(err, &ee) {
			msg := fmt.Sprintf("%s: %s", path, ee.Error())
			formatter.Error(ErrCodeParse, msg, map[string]int{
				"start_line": ee.StartLine,
				"end_line":   ee.EndLine,
			})
			return NewExitError(ExitFailure, msg)
		}
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}
	opts.Logger.Debug().Str("file", path).Int("entries", len(entries)).Msg("parsed tagged file")

	if opts.Format == "json" {
		result := ParseResult{File: path}
		for _, e := range entries {
			result.Entries = append(result.Entries, EntrySummary{
				Name:   e.Name(),
				Dtype:  e.Dtype(),
				Rank:   e.Rank(),
				Shape:  e.Shape(),
				Values: e.Data().Len(),
			})
		}
		return formatter.Success(result)
	}

	for _, e := range entries {
		if showValues {
			fmt.Fprintln(formatter.Writer, e)
		} else {
			fmt.Fprintln(formatter.Writer, e.Tagline())
		}
	}
	fmt.Fprintf(formatter.Writer, "%d entries\n", len(entries))
	return nil
}
