// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotwell/dotwell/internal/discovery"
	"github.com/dotwell/dotwell/internal/installer"
	"github.com/dotwell/dotwell/internal/issue"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

func newInstallCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "install <name>",
		Short: "Install a dotfile bundle without the interactive browser",
		Long: `Install the first discovered bundle with the given name.

The bundle's build tool runs in the bundle directory. Its combined output
is printed once it finishes; a non-zero exit status fails the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), a, args[0])
		},
	}
}

func runInstall(ctx context.Context, a *App, name string) error {
	cfg, _, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}

	logger, closeLog, err := a.newLogger(cfg, a.stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	result := a.scan(ctx, cfg, logger)
	a.reportDiagnostics(logger, result.Diagnostics)

	target, ok := findBundle(result, name)
	if !ok {
		return bundleNotFoundError(name, result.Entries)
	}

	fmt.Fprintf(a.stdout, "%s %s %s\n",
		SubtitleStyle.Render("Installing"),
		TitleStyle.Render(target.Name()),
		SubtitleStyle.Render("from "+target.Dir))

	outcome, err := newInstaller(cfg, logger).Install(ctx, target)
	if err != nil {
		var launchErr *installer.ProcessLaunchError
		if errors.As(err, &launchErr) {
			return launchErr.Actionable(target.Name())
		}
		return issue.WrapWithOperation(err, "install "+target.Name())
	}

	if outcome.CombinedOutput != "" {
		fmt.Fprintln(a.stdout, outcome.CombinedOutput)
	}

	switch {
	case outcome.Succeeded:
		fmt.Fprintf(a.stdout, "%s Installed %s\n", SuccessStyle.Render("✓"), target.Name())
		return nil
	case outcome.TimedOut:
		return &ExitError{Code: 1, Err: issue.NewErrorContext().
			WithOperation("install "+target.Name()).
			WithIssue(issue.InstallTimedOutId).
			WithSuggestion(fmt.Sprintf("Raise install.timeout (currently %s) in your config", cfg.Install.Timeout)).
			Wrap(fmt.Errorf("%s timed out", outcome.Invocation)).
			BuildError()}
	default:
		return &ExitError{Code: 1, Err: issue.NewErrorContext().
			WithOperation("install "+target.Name()).
			WithIssue(issue.InstallFailedId).
			WithSuggestion("Review the output above for the failing step").
			Wrap(fmt.Errorf("%s exited with status %d", outcome.Invocation, outcome.ExitCode)).
			BuildError()}
	}
}

// findBundle returns the first entry named name, in scan order.
func findBundle(result discovery.Result, name string) (dotwellfile.Bundle, bool) {
	for _, b := range result.Entries {
		if b.Name() == name {
			return b, true
		}
	}
	return dotwellfile.Bundle{}, false
}

func bundleNotFoundError(name string, entries []dotwellfile.Bundle) error {
	ctx := issue.NewErrorContext().
		WithOperation("install " + name).
		WithIssue(issue.BundleNotFoundId).
		Wrap(fmt.Errorf("no bundle named %q was found", name))

	if len(entries) == 0 {
		ctx.WithSuggestion("Create a dotwell.toml or dotwell.json file in your dotfiles directory")
	} else {
		ctx.WithSuggestion("Run 'dotwell list' to see the bundles that were found")
	}
	return ctx.BuildError()
}
