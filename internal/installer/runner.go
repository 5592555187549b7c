// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// defaultWaitDelay bounds how long Run waits for output pipes after the
// child has been killed (e.g. when a grandchild keeps them open).
const defaultWaitDelay = 2 * time.Second

// ExitCodeKilled is reported when the child was terminated by a signal or
// context cancellation instead of exiting on its own.
const ExitCodeKilled = -1

// syntaxErrorExitCode matches the status bash uses for a script it cannot parse.
const syntaxErrorExitCode = 2

type (
	// Runner executes a planned invocation and captures its output.
	// A non-zero exit is a RunResult, not an error; errors are reserved for
	// invocations that could not be started.
	Runner interface {
		Run(ctx context.Context, inv Invocation) (RunResult, error)
	}

	// RunResult is the captured result of a finished child.
	RunResult struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode int
	}

	// ExecRunner runs invocations as real child processes. Stdin is empty and
	// the child inherits the parent's environment.
	ExecRunner struct {
		// WaitDelay overrides defaultWaitDelay when positive.
		WaitDelay time.Duration
	}

	// VirtualRunner interprets install.sh scripts in-process with mvdan.cc/sh.
	// Commands the script runs are still spawned from PATH. Non-script
	// invocations are delegated to Fallback (an ExecRunner when nil).
	VirtualRunner struct {
		Fallback Runner
	}
)

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, inv Invocation) (RunResult, error) {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = defaultWaitDelay
	if r.WaitDelay > 0 {
		cmd.WaitDelay = r.WaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := RunResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if errors.Is(err, exec.ErrWaitDelay) {
			// The child exited; only its inherited pipes outlived it.
			result.ExitCode = cmd.ProcessState.ExitCode()
			return result, nil
		}
		if cmd.ProcessState != nil || ctx.Err() != nil {
			result.ExitCode = ExitCodeKilled
			return result, nil
		}
		return result, newLaunchError(inv, err)
	}

	return result, nil
}

// Run implements Runner.
func (r VirtualRunner) Run(ctx context.Context, inv Invocation) (RunResult, error) {
	if !inv.Script {
		fallback := r.Fallback
		if fallback == nil {
			fallback = ExecRunner{}
		}
		return fallback.Run(ctx, inv)
	}

	path := inv.ScriptPath()
	f, err := os.Open(path)
	if err != nil {
		return RunResult{}, newLaunchError(inv, err)
	}
	defer func() { _ = f.Close() }() // Read-only file; close error non-critical

	prog, err := syntax.NewParser().Parse(f, path)
	if err != nil {
		return RunResult{
			Stderr:   []byte(fmt.Sprintf("%s: %v\n", InstallScriptName, err)),
			ExitCode: syntaxErrorExitCode,
		}, nil
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(inv.Dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return RunResult{}, newLaunchError(inv, fmt.Errorf("failed to create interpreter: %w", err))
	}

	err = runner.Run(ctx, prog)
	result := RunResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err != nil {
		var exitStatus interp.ExitStatus
		switch {
		case errors.As(err, &exitStatus):
			result.ExitCode = int(exitStatus)
		case ctx.Err() != nil:
			result.ExitCode = ExitCodeKilled
		default:
			result.ExitCode = 1
			result.Stderr = append(result.Stderr, []byte(err.Error()+"\n")...)
		}
	}

	return result, nil
}
