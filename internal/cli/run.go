package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tagcheck/internal/report"
	"github.com/roach88/tagcheck/internal/store"
	"github.com/roach88/tagcheck/internal/suite"
	"github.com/roach88/tagcheck/internal/testcase"
)

// CaseOutcome is the JSON shape of one executed case.
type CaseOutcome struct {
	Case    string `json:"case"`
	Prepare string `json:"prepare"`
	Run     string `json:"run"`
	Test    string `json:"test"`
	Detail  string `json:"detail,omitempty"`
}

// RunSummary is the JSON payload of the run command.
type RunSummary struct {
	Suite  string        `json:"suite"`
	RunID  string        `json:"run_id,omitempty"`
	Passed bool          `json:"passed"`
	Cases  []CaseOutcome `json:"cases"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "run <suite.yaml>",
		Short: "Prepare, run and test every case of a suite",
		Long: `Execute a validation suite: for each case, stage the input files,
run the simulation command, and compare its tagged output against the
reference file. Outcomes are printed as a test protocol and recorded in
the run history database.

Exits 0 when every case passes, 1 when any case failed or errored, 2 on
a bad suite file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(rootOpts, args[0], dbPath, cmd)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "run history database (default from config, then "+defaultDBPath+")")
	return cmd
}

func runSuite(opts *RootOptions, suitePath, dbFlag string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := suite.Load(suitePath)
	if err != nil {
		formatter.Error(ErrCodeSuite, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	opts.Logger.Debug().Str("suite", s.Name).Int("cases", len(s.Cases)).Msg("loaded suite")

	db, err := store.Open(opts.Config.DBPath(dbFlag))
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	defer db.Close()

	ctx := cmd.Context()
	runID, err := db.BeginRun(ctx, s.Name)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	// The protocol goes to stdout in text mode and to stderr in JSON
	// mode, where stdout carries the machine-readable summary.
	protocol := report.New(formatter.Writer)
	if opts.Format == "json" {
		protocol = report.New(formatter.GetErrWriter())
	}

	summary := RunSummary{Suite: s.Name, RunID: runID, Passed: true}
	for _, c := range s.Cases {
		outcome := executeCase(ctx, s, c, opts, protocol)
		summary.Cases = append(summary.Cases, outcome)
		if outcome.Prepare != testcase.StatusOK.String() ||
			outcome.Run != testcase.StatusOK.String() ||
			outcome.Test != testcase.StatusOK.String() {
			summary.Passed = false
		}
		if err := db.RecordResult(ctx, runID, c.Name,
			parseStatus(outcome.Prepare), parseStatus(outcome.Run), parseStatus(outcome.Test),
			outcome.Detail); err != nil {
			opts.Logger.Warn().Err(err).Str("case", c.Name).Msg("failed to record result")
		}
	}

	protocol.SummaryHeader()
	for _, o := range summary.Cases {
		protocol.SummaryRow(o.Case, parseStatus(o.Prepare), parseStatus(o.Run), parseStatus(o.Test))
	}

	if opts.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	}
	if !summary.Passed {
		return NewExitError(ExitFailure, "suite failed")
	}
	return nil
}

// executeCase runs one case through prepare, run and test, logging each
// action to the protocol.
func executeCase(ctx context.Context, s *suite.Suite, c suite.Case, opts *RootOptions, protocol *report.Logger) CaseOutcome {
	tc := s.Build(c, opts.Logger)
	prepare, run, test := testcase.StatusNotRun, testcase.StatusNotRun, testcase.StatusNotRun
	var detail string

	protocol.Header(c.Name)

	protocol.Start(c.Name, "prepare")
	if err := tc.Prepare(); err != nil {
		prepare = testcase.StatusError
		detail = err.Error()
		protocol.Result(c.Name, "prepare", prepare, detail)
		return CaseOutcome{Case: c.Name, Prepare: prepare.String(), Run: run.String(), Test: test.String(), Detail: detail}
	}
	prepare = testcase.StatusOK
	protocol.Result(c.Name, "prepare", prepare, "")

	protocol.Start(c.Name, "run")
	if err := tc.Run(ctx); err != nil {
		run = testcase.StatusError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			run = testcase.StatusInterrupted
		} else if !tc.Finished() {
			run = testcase.StatusNotFinished
		}
		detail = err.Error()
		protocol.Result(c.Name, "run", run, detail)
		return CaseOutcome{Case: c.Name, Prepare: prepare.String(), Run: run.String(), Test: test.String(), Detail: detail}
	}
	run = testcase.StatusOK
	protocol.Result(c.Name, "run", run, "")

	protocol.Start(c.Name, "test")
	tester := s.Tester(c)
	passed, err := tester.Test()
	switch {
	case err != nil:
		test = testcase.StatusError
		detail = err.Error()
	case passed:
		test = testcase.StatusOK
		protocol.Success(fmt.Sprintf("%d entries checked", tester.LastResult.Checked))
	default:
		test = testcase.StatusFailed
		var lines []string
		for _, f := range tester.LastResult.Findings {
			protocol.Failure(f.String())
			lines = append(lines, f.String())
		}
		detail = strings.Join(lines, "; ")
	}
	msg := ""
	if test == testcase.StatusError {
		msg = detail
	}
	protocol.Result(c.Name, "test", test, msg)

	return CaseOutcome{Case: c.Name, Prepare: prepare.String(), Run: run.String(), Test: test.String(), Detail: detail}
}

// parseStatus maps a stored status label back to its Status value.
func parseStatus(label string) testcase.Status {
	for _, s := range []testcase.Status{
		testcase.StatusNotRun, testcase.StatusNotFinished, testcase.StatusOK,
		testcase.StatusFailed, testcase.StatusError, testcase.StatusInterrupted,
	} {
		if s.String() == label {
			return s
		}
	}
	return testcase.StatusUnknown
}
