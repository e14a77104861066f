package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tagcheck/internal/compare"
	"github.com/roach88/tagcheck/internal/tagged"
)

// CompareResult is the JSON payload of the compare command.
type CompareResult struct {
	Reference string            `json:"reference"`
	Actual    string            `json:"actual"`
	AbsTol    float64           `json:"abstol"`
	Checked   int               `json:"checked"`
	Passed    bool              `json:"passed"`
	Findings  []compare.Finding `json:"findings,omitempty"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	var abstol float64

	cmd := &cobra.Command{
		Use:   "compare <reference> <actual>",
		Short: "Compare a tagged output file against a reference file",
		Long: `Compare the tagged output of a simulation run against a reference
file. Entries are matched by name; values compare with an absolute
tolerance for real and complex entries and exactly otherwise.

Exits 0 when all entries match, 1 when deviations were found or a file
could not be parsed.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(rootOpts, args[0], args[1], abstol, cmd)
		},
	}
	cmd.Flags().Float64Var(&abstol, "abstol", -1, "absolute tolerance (default from config, then 1e-10)")
	return cmd
}

func runCompare(opts *RootOptions, refPath, actPath string, abstolFlag float64, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	abstol := opts.Config.Tolerance(abstolFlag)

	ref, err := readCollection(refPath)
	if err != nil {
		formatter.Error(ErrCodeParse, fmt.Sprintf("reference %s: %v", refPath, err), nil)
		return NewExitError(ExitFailure, err.Error())
	}
	actual, err := readCollection(actPath)
	if err != nil {
		formatter.Error(ErrCodeParse, fmt.Sprintf("actual %s: %v", actPath, err), nil)
		return NewExitError(ExitFailure, err.Error())
	}
	opts.Logger.Debug().
		Int("reference_entries", ref.Len()).
		Int("actual_entries", actual.Len()).
		Float64("abstol", abstol).
		Msg("comparing collections")

	comparer := &compare.Comparer{AbsTol: abstol}
	res := comparer.Compare(ref, actual)

	if opts.Format == "json" {
		if err := formatter.Success(CompareResult{
			Reference: refPath,
			Actual:    actPath,
			AbsTol:    abstol,
			Checked:   res.Checked,
			Passed:    res.Passed(),
			Findings:  res.Findings,
		}); err != nil {
			return err
		}
	} else {
		for _, f := range res.Findings {
			fmt.Fprintln(formatter.Writer, f)
		}
		if res.Passed() {
			fmt.Fprintf(formatter.Writer, "OK: %d entries checked\n", res.Checked)
		} else {
			fmt.Fprintf(formatter.Writer, "FAILED: %d of %d entries deviate\n", len(res.Findings), res.Checked)
		}
	}

	if !res.Passed() {
		return NewExitError(ExitFailure, "comparison failed")
	}
	return nil
}

func readCollection(path string) (*tagged.Collection, error) {
	r, err := tagged.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return tagged.Collect(r)
}
