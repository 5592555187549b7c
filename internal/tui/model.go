// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dotwell/dotwell/internal/app"
	"github.com/dotwell/dotwell/internal/config"
	"github.com/dotwell/dotwell/internal/installer"
	"github.com/dotwell/dotwell/internal/issue"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// Rows taken by the installing view's status block, help and footer.
	outputChrome = 9
)

type (
	// Model is the Bubble Tea model driving an app.Session.
	Model struct {
		ctx         context.Context
		session     *app.Session
		colorScheme config.ColorScheme

		spinner spinner.Model
		output  viewport.Model
		preview string

		installing bool
		target     dotwellfile.Bundle
		cancel     context.CancelFunc

		err      error
		width    int
		height   int
		quitting bool
	}

	// Option configures a Model.
	Option func(*Model)

	// installDoneMsg carries the result of a background install.
	installDoneMsg struct {
		outcome installer.Outcome
		err     error
	}
)

// WithColorScheme selects the markdown palette used for descriptions.
func WithColorScheme(scheme config.ColorScheme) Option {
	return func(m *Model) {
		m.colorScheme = scheme
	}
}

// New creates a Model over session. ctx is the parent of every install the
// model starts; canceling it cancels a running install.
func New(ctx context.Context, session *app.Session, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := Model{
		ctx:         ctx,
		session:     session,
		colorScheme: config.ColorSchemeAuto,
		spinner:     s,
		output:      viewport.New(defaultWidth, defaultHeight-outputChrome),
		width:       defaultWidth,
		height:      defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.colorScheme = resolveColorScheme(m.colorScheme, lipgloss.HasDarkBackground)
	return m
}

// Run starts the program on the alternate screen and blocks until the user
// quits.
func Run(ctx context.Context, session *app.Session, opts ...Option) error {
	p := tea.NewProgram(New(ctx, session, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(Model); ok && m.cancel != nil {
		m.cancel()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.output.Width = max(msg.Width-4, 1)
		m.output.Height = max(msg.Height-outputChrome, 1)
		m.refreshPreview()
		return m, nil

	case spinner.TickMsg:
		if !m.installing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case installDoneMsg:
		return m.handleInstallDone(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input based on the session view
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "q":
		return m.quit()
	}

	// Keys other than quit are ignored while an install runs.
	if m.installing {
		return m, nil
	}

	m.err = nil

	switch m.session.View() {
	case app.ViewHome:
		return m.handleHomeKey(msg)
	case app.ViewBrowse:
		return m.handleBrowseKey(msg)
	case app.ViewPreview:
		return m.handlePreviewKey(msg)
	case app.ViewInstalling:
		return m.handleInstallingKey(msg)
	}
	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.quit()
	case "b":
		m.session.Browse()
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.session.Back()

	case "down", "j":
		m.session.Next()

	case "up", "k":
		m.session.Previous()

	case "enter":
		m.session.Open()
		m.refreshPreview()

	case "i":
		return m.startInstall()
	}
	return m, nil
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.Back()

	case "i", "enter":
		return m.startInstall()
	}
	return m, nil
}

func (m Model) handleInstallingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.session.Back()
		m.refreshPreview()
		return m, nil
	}

	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.quitting = true
	return m, tea.Quit
}

// startInstall launches the selected bundle's installer in the background.
func (m Model) startInstall() (tea.Model, tea.Cmd) {
	target, ok := m.session.InstallTarget()
	if !ok {
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.installing = true
	m.target = target
	m.cancel = cancel

	return m, tea.Batch(
		m.spinner.Tick,
		runInstall(ctx, m.session.Installer(), target),
	)
}

func runInstall(ctx context.Context, inst app.Installer, target dotwellfile.Bundle) tea.Cmd {
	return func() tea.Msg {
		outcome, err := inst.Install(ctx, target)
		return installDoneMsg{outcome: outcome, err: err}
	}
}

func (m Model) handleInstallDone(msg installDoneMsg) (tea.Model, tea.Cmd) {
	m.installing = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	if msg.err != nil {
		m.err = installError(m.target, msg.err)
		return m, nil
	}

	m.session.RecordOutcome(msg.outcome)
	m.output.SetContent(msg.outcome.CombinedOutput)
	m.output.GotoTop()
	return m, nil
}

// installError turns a launch failure into the actionable error shown in the
// error line.
func installError(target dotwellfile.Bundle, err error) error {
	var launchErr *installer.ProcessLaunchError
	if errors.As(err, &launchErr) {
		return launchErr.Actionable(target.Name())
	}
	return issue.WrapWithOperation(err, "install "+target.Name())
}

// refreshPreview re-renders the selected description for the preview view.
func (m *Model) refreshPreview() {
	b, ok := m.session.Selected()
	if !ok {
		m.preview = ""
		return
	}
	m.preview = renderMarkdown(b.Descriptor.Description, m.colorScheme, m.previewWidth())
}

func (m *Model) previewWidth() int {
	return max(m.width-8, 20)
}
