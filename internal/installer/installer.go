// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/dotwell/dotwell/pkg/dotwellfile"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type (
	// Installer plans and runs bundle installs.
	Installer struct {
		runner  Runner
		shell   string
		timeout time.Duration
		logger  *log.Logger
		newID   func() string
	}

	// Option configures an Installer.
	Option func(*Installer)

	// Outcome is the result of one install attempt.
	Outcome struct {
		// Succeeded is exactly ExitCode == 0.
		Succeeded bool
		// CombinedOutput is stdout, a newline, then stderr, trimmed of
		// surrounding whitespace. Invalid UTF-8 is replaced with U+FFFD.
		CombinedOutput string
		ExitCode       int
		Invocation     Invocation
		Duration       time.Duration
		// TimedOut reports that the configured timeout killed the child.
		TimedOut bool
		// ID correlates log lines for this install.
		ID string
	}
)

// WithRunner replaces the process runner (ExecRunner by default).
func WithRunner(r Runner) Option {
	return func(in *Installer) {
		if r != nil {
			in.runner = r
		}
	}
}

// WithShell sets the interpreter for install.sh scripts.
func WithShell(shell string) Option {
	return func(in *Installer) {
		if shell != "" {
			in.shell = shell
		}
	}
}

// WithTimeout bounds every install. Zero or negative disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(in *Installer) {
		in.timeout = max(d, 0)
	}
}

// WithLogger sets the logger for install tracing.
func WithLogger(logger *log.Logger) Option {
	return func(in *Installer) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// New creates an Installer.
func New(opts ...Option) *Installer {
	in := &Installer{
		runner: ExecRunner{},
		shell:  DefaultShell,
		logger: log.New(io.Discard),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Shell returns the configured install.sh interpreter.
func (in *Installer) Shell() string { return in.shell }

// Timeout returns the configured per-install limit (zero means none).
func (in *Installer) Timeout() time.Duration { return in.timeout }

// Plan maps a bundle to its invocation using the configured shell.
func (in *Installer) Plan(b dotwellfile.Bundle) (Invocation, error) {
	return planWithShell(b, in.shell)
}

// Install runs the bundle's build tool in its directory and waits for it.
// A child that exits non-zero produces an unsuccessful Outcome and a nil
// error; an error is returned only when nothing could be started.
func (in *Installer) Install(ctx context.Context, b dotwellfile.Bundle) (Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	inv, err := in.Plan(b)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Invocation: inv, ID: in.newID()}
	logger := in.logger.With("install", outcome.ID, "bundle", b.Name())

	runCtx := ctx
	if in.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, in.timeout)
		defer cancel()
	}

	logger.Debug("starting install", "command", inv.String(), "dir", inv.Dir)
	start := time.Now()
	res, err := in.runner.Run(runCtx, inv)
	outcome.Duration = time.Since(start)

	if err != nil {
		err = newLaunchError(inv, err)
		logger.Warn("install could not start", "error", err)
		return outcome, err
	}

	outcome.ExitCode = res.ExitCode
	outcome.Succeeded = res.ExitCode == 0
	outcome.CombinedOutput = CombineOutput(res.Stdout, res.Stderr)
	if !outcome.Succeeded && errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		outcome.TimedOut = true
	}

	logger.Debug("install finished",
		"succeeded", outcome.Succeeded,
		"exit_code", outcome.ExitCode,
		"timed_out", outcome.TimedOut,
		"duration", outcome.Duration)
	return outcome, nil
}

// CombineOutput joins stdout and stderr with a newline, replaces invalid
// UTF-8 with U+FFFD, and trims surrounding whitespace.
func CombineOutput(stdout, stderr []byte) string {
	combined := strings.ToValidUTF8(string(stdout), "�") + "\n" + strings.ToValidUTF8(string(stderr), "�")
	return strings.TrimSpace(combined)
}
