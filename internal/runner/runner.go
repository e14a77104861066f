// Package runner executes the simulation binary of a test case inside its
// working directory, following the file conventions of the harness:
// standard input is piped from a file named STDIN when one exists,
// standard output and error are captured to STDOUT and STDERR, and a
// marker file records that the run completed.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
)

// MarkerFile signals a completed run in a working directory.
const MarkerFile = ".runfinished"

// ExecRunner runs one command line in a working directory.
type ExecRunner struct {
	// Workdir is the directory the command executes in.
	Workdir string

	// Cmdline is the command and its arguments; the first element is the
	// program.
	Cmdline []string

	// Log receives per-run diagnostics. Zero value is silent.
	Log zerolog.Logger
}

// Run executes the command. The marker file is removed before the run and
// recreated once the command has exited, so an interrupted run leaves no
// marker behind. A non-zero exit status is returned as the error of the
// command; output capture files are written either way.
func (r *ExecRunner) Run(ctx context.Context) error {
	if len(r.Cmdline) == 0 {
		return errors.New("empty command line")
	}
	if err := os.MkdirAll(r.Workdir, 0o755); err != nil {
		return fmt.Errorf("creating workdir: %w", err)
	}
	if err := r.setUnfinished(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, r.Cmdline[0], r.Cmdline[1:]...)
	cmd.Dir = r.Workdir

	stdin := filepath.Join(r.Workdir, "STDIN")
	if _, err := os.Stat(stdin); err == nil {
		in, err := os.Open(stdin)
		if err != nil {
			return fmt.Errorf("opening STDIN file: %w", err)
		}
		defer in.Close()
		cmd.Stdin = in
	}

	stdout, err := os.Create(filepath.Join(r.Workdir, "STDOUT"))
	if err != nil {
		return fmt.Errorf("creating STDOUT file: %w", err)
	}
	defer stdout.Close()
	stderr, err := os.Create(filepath.Join(r.Workdir, "STDERR"))
	if err != nil {
		return fmt.Errorf("creating STDERR file: %w", err)
	}
	defer stderr.Close()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.Log.Debug().Str("workdir", r.Workdir).Strs("cmdline", r.Cmdline).Msg("starting run")
	runErr := cmd.Run()

	if err := r.setFinished(); err != nil {
		if runErr == nil {
			return err
		}
		return runErr
	}
	if runErr != nil {
		r.Log.Debug().Err(runErr).Msg("run exited with error")
		return fmt.Errorf("running %s: %w", r.Cmdline[0], runErr)
	}
	r.Log.Debug().Msg("run finished")
	return nil
}

// Finished reports whether the marker file of a completed run exists.
func (r *ExecRunner) Finished() bool {
	_, err := os.Stat(filepath.Join(r.Workdir, MarkerFile))
	return err == nil
}

func (r *ExecRunner) setFinished() error {
	f, err := os.Create(filepath.Join(r.Workdir, MarkerFile))
	if err != nil {
		return fmt.Errorf("creating run marker: %w", err)
	}
	return f.Close()
}

func (r *ExecRunner) setUnfinished() error {
	err := os.Remove(filepath.Join(r.Workdir, MarkerFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing run marker: %w", err)
	}
	return nil
}
