// Package testcase defines the interfaces a validation case is composed
// of and the status vocabulary shared by the runner, the report and the
// run history.
//
// A case goes through three actions in fixed order: prepare (stage input
// files), run (execute the simulation), test (compare tagged output
// against the reference). Each action maps onto one small interface so
// suites can mix implementations.
package testcase

import "context"

// Status is the outcome of one test case action.
type Status int

const (
	// StatusUnknown means no outcome has been recorded.
	StatusUnknown Status = iota

	// StatusNotRun means the action was never started.
	StatusNotRun

	// StatusNotFinished means the action started but did not complete.
	StatusNotFinished

	// StatusOK means the action completed successfully.
	StatusOK

	// StatusFailed means the action completed and the result is a failure
	// (a test that found deviations, not an execution problem).
	StatusFailed

	// StatusError means the action aborted with an execution error.
	StatusError

	// StatusInterrupted means the action was cancelled from outside.
	StatusInterrupted
)

var statusNames = map[Status]string{
	StatusUnknown:     "Unknown",
	StatusNotRun:      "Not run",
	StatusNotFinished: "Not finished",
	StatusOK:          "OK",
	StatusFailed:      "FAILED",
	StatusError:       "Error",
	StatusInterrupted: "Interrupted",
}

// String returns the label used in reports and in the run history.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Preparator stages the working directory of a case before the run.
type Preparator interface {
	// Prepare sets up the current test case.
	Prepare() error

	// Cleanup undoes whatever Prepare set up, where that makes sense.
	Cleanup() error
}

// Runner executes the simulation under test.
type Runner interface {
	// Run executes the simulation and blocks until it exits or ctx is
	// cancelled.
	Run(ctx context.Context) error

	// Finished reports whether a run has already completed in this
	// working directory.
	Finished() bool
}

// Tester validates the produced output. It returns false (with a nil
// error) when the output deviates from the reference, and an error only
// for execution problems such as unreadable files.
type Tester interface {
	Test() (bool, error)
}

// Case composes one preparator, runner and tester into a full test case,
// forwarding each call to the respective part.
type Case struct {
	Name       string
	Preparator Preparator
	Runner     Runner
	Tester     Tester
}

// Prepare calls the preparator.
func (c *Case) Prepare() error { return c.Preparator.Prepare() }

// Run calls the runner.
func (c *Case) Run(ctx context.Context) error { return c.Runner.Run(ctx) }

// Finished calls the runner.
func (c *Case) Finished() bool { return c.Runner.Finished() }

// Test calls the tester.
func (c *Case) Test() (bool, error) { return c.Tester.Test() }

// Cleanup calls the preparator.
func (c *Case) Cleanup() error { return c.Preparator.Cleanup() }
