// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dotwell/dotwell/internal/config"
	"github.com/dotwell/dotwell/internal/discovery"
	"github.com/dotwell/dotwell/internal/installer"
	"github.com/dotwell/dotwell/internal/issue"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer; every Cobra handler receives an App reference.
	App struct {
		Config config.Provider
		Roots  RootProvider
		stdout io.Writer
		stderr io.Writer
		flags  *rootFlags

		// colorScheme is the last loaded ui.color_scheme, used to render
		// issue guidance.
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Roots  RootProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// RootProvider returns the directories to scan and any diagnostics about
	// default locations that could not be resolved.
	RootProvider func() (discovery.RootSet, []discovery.Diagnostic)

	// scannerFunc adapts a function to app.Scanner.
	scannerFunc func(ctx context.Context) discovery.Result

	// rootFlags holds the persistent flag values shared by all commands.
	rootFlags struct {
		verbose    bool
		configPath string
		logFile    string
		list       bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Roots == nil {
		deps.Roots = discovery.DefaultRoots
	}

	return &App{
		Config: deps.Config,
		Roots:  deps.Roots,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		flags:  &rootFlags{},
	}
}

// Scan implements app.Scanner.
func (f scannerFunc) Scan(ctx context.Context) discovery.Result { return f(ctx) }

// loadConfig loads the effective configuration, honoring --config, and
// reports the file it came from.
func (a *App) loadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, source, err := a.Config.LoadWithSource(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, "", err
	}
	if a.flags.verbose {
		cfg.UI.Verbose = true
	}
	a.colorScheme = cfg.UI.ColorScheme
	return cfg, source, nil
}

// newLogger builds the process logger. Logs go to --log-file when set, and
// to fallback otherwise. The returned close function releases the log file.
func (a *App) newLogger(cfg *config.Config, fallback io.Writer) (*log.Logger, func() error, error) {
	w := fallback
	closeFn := func() error { return nil }

	if a.flags.logFile != "" {
		f, err := os.OpenFile(a.flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "dotwell",
		ReportTimestamp: a.flags.logFile != "",
	})
	if cfg.UI.Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger, closeFn, nil
}

// scan runs discovery over the configured roots. Diagnostics about the roots
// themselves are merged into the result.
func (a *App) scan(ctx context.Context, cfg *config.Config, logger *log.Logger) discovery.Result {
	roots, rootDiags := a.Roots()
	scanner := discovery.New(roots,
		discovery.WithLogger(logger),
		discovery.WithFollowSymlinks(cfg.Scan.FollowSymlinks),
	)
	result := scanner.Scan(ctx)
	result.Diagnostics = append(rootDiags, result.Diagnostics...)
	return result
}

// newInstaller builds the installer described by the install section of cfg.
func newInstaller(cfg *config.Config, logger *log.Logger) *installer.Installer {
	var runner installer.Runner = installer.ExecRunner{}
	if cfg.Install.VirtualShell {
		runner = installer.VirtualRunner{Fallback: installer.ExecRunner{}}
	}
	return installer.New(
		installer.WithRunner(runner),
		installer.WithShell(cfg.Install.Shell),
		installer.WithTimeout(cfg.Install.Timeout),
		installer.WithLogger(logger),
	)
}

// logDiagnostics reports scan diagnostics through the logger.
func logDiagnostics(logger *log.Logger, diags []discovery.Diagnostic) {
	for _, d := range diags {
		fields := []any{"code", d.Code}
		if d.Path != "" {
			fields = append(fields, "path", d.Path)
		}
		if d.Cause != nil {
			fields = append(fields, "err", d.Cause)
		}
		if d.Severity == discovery.SeverityError {
			logger.Error(d.Message, fields...)
		} else {
			logger.Warn(d.Message, fields...)
		}
	}
}

// reportDiagnostics logs diags and follows malformed descriptors with the
// catalog guidance on stderr.
func (a *App) reportDiagnostics(logger *log.Logger, diags []discovery.Diagnostic) {
	logDiagnostics(logger, diags)
	for _, d := range diags {
		if d.Code == discovery.CodeDescriptorMalformed {
			a.renderIssue(a.stderr, issue.DescriptorMalformedId)
			return
		}
	}
}

// renderIssue writes the catalog entry for id to w in the configured color
// scheme. Rendering failures are dropped; the entry only adds guidance.
func (a *App) renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(issueStyle(a.colorScheme))
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// issueStyle maps a color scheme to a glamour style name.
func issueStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
