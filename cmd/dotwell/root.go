// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/dotwell/dotwell/internal/app"
	"github.com/dotwell/dotwell/internal/discovery"
	"github.com/dotwell/dotwell/internal/issue"
	"github.com/dotwell/dotwell/internal/tui"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the dotwell command tree over a.
func NewRootCommand(a *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dotwell",
		Short: "Browse and install dotfile bundles",
		Long: TitleStyle.Render("dotwell") + SubtitleStyle.Render(" - Browse and install dotfile bundles") + `

dotwell finds dotfile bundles described by a dotwell.toml or dotwell.json
file under your config directory, ~/dotfiles, ~/.dotfiles, /etc/nixos and
the working directory, and runs each bundle's build tool to install it.

` + SubtitleStyle.Render("Examples:") + `
  dotwell                   Open the interactive browser
  dotwell --list            List discovered bundles
  dotwell install zsh       Install the 'zsh' bundle
  dotwell init --name zsh   Create a dotwell.toml in the current directory
  dotwell config show       Show current configuration`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.list {
				return runList(cmd.Context(), a, listFormatText)
			}
			return runTUI(cmd.Context(), a)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&a.flags.configPath, "config", "", "config file (default is <user config dir>/dotwell/config.cue)")
	rootCmd.PersistentFlags().StringVar(&a.flags.logFile, "log-file", "", "append logs to this file")
	rootCmd.Flags().BoolVarP(&a.flags.list, "list", "l", false, "list discovered bundles and exit")

	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newInstallCommand(a))
	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production command tree and runs it.
// This is called by main.main().
func Execute() {
	a := NewApp(Dependencies{})
	rootCmd := NewRootCommand(a)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(a.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// runTUI starts the interactive browser. Logs never reach the terminal here
// since they would corrupt the alternate screen.
func runTUI(ctx context.Context, a *App) error {
	cfg, _, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}

	logger, closeLog, err := a.newLogger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	session := app.NewSession(ctx, scannerFunc(func(ctx context.Context) discovery.Result {
		return a.scan(ctx, cfg, logger)
	}), newInstaller(cfg, logger))
	logDiagnostics(logger, session.Diagnostics())

	return tui.Run(ctx, session, tui.WithColorScheme(cfg.UI.ColorScheme))
}

// handleError prints command errors followed by the linked catalog guidance,
// if any. An ExitError without a cause has already reported itself and
// prints nothing.
func (a *App) handleError(w io.Writer, _ fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.flags.verbose))

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue() != nil {
		a.renderIssue(w, ae.IssueId)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
