// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sby

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
)

// PASS_SENTINEL is the file sby creates in its work directory on success.
const PASS_SENTINEL = "PASS"

// Outcome of one checker run.
type Outcome int

//go:generate go tool stringer -linecomment -type=Outcome
const (
	OUTCOME_PASS         = Outcome(0) // pass
	OUTCOME_FAIL         = Outcome(1) // fail
	OUTCOME_INCONSISTENT = Outcome(2) // inconsistent
)

// Result of verifying one instruction.
//
// Success and failure travel on different channels: OUTCOME_PASS is
// confirmed only by the sentinel file the checker itself created, while
// OUTCOME_FAIL carries an explicit message. OUTCOME_INCONSISTENT marks a
// clean exit with no sentinel, which is neither.
type Result struct {
	Insn     string  // Instruction name.
	Outcome  Outcome // Verdict.
	Message  string  // Failure detail, empty on pass.
	Sentinel string  // Sentinel path that was checked.
}

// Runner invokes the external sby checker.
type Runner struct {
	Verbose bool      // If set, verbosely logs the invocations.
	Command string    // Checker program; "sby" if empty.
	Args    []string  // Extra arguments inserted before -f.
	Stderr  io.Writer // Checker stderr; os.Stderr if nil.
}

// Verify runs the checker on a job file and inspects the sentinel.
//
// The checker's stdout is suppressed; its exit status is the sole signal
// consumed from the process. The run is cancelable through ctx: a killed
// checker cannot have created a trustworthy sentinel, so mid-run
// termination is safe.
func (r *Runner) Verify(ctx context.Context, insn string, jobPath string, sentinelPath string) (res Result, err error) {
	command := r.Command
	if command == "" {
		command = "sby"
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	args := append(append([]string{}, r.Args...), "-f", jobPath)
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr

	if r.Verbose {
		log.Printf("sby: %v: %v", insn, cmd.String())
	}

	res = Result{Insn: insn, Sentinel: sentinelPath}

	runErr := cmd.Run()
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			// The checker never ran; this is not a verdict.
			err = &ErrVerify{Insn: insn, Err: runErr}
			return
		}
		res.Outcome = OUTCOME_FAIL
		res.Message = exitErr.Error()
		return
	}

	_, statErr := os.Stat(sentinelPath)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			// Clean exit but the checker left no sentinel. Not a
			// pass: surface it distinctly rather than trusting the
			// exit status alone.
			res.Outcome = OUTCOME_INCONSISTENT
			res.Message = f("checker exited cleanly but '%v' does not exist", sentinelPath)
			return
		}
		err = &ErrVerify{Insn: insn, Err: statErr}
		return
	}

	res.Outcome = OUTCOME_PASS
	return
}
