// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dotwell/dotwell/internal/issue"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

const (
	listFormatText listFormat = "text"
	listFormatJSON listFormat = "json"
	listFormatYAML listFormat = "yaml"
)

type (
	// listFormat selects how `dotwell list` renders entries.
	listFormat string

	// listEntry is the serialized form of a discovered bundle.
	listEntry struct {
		Name         string   `json:"name" yaml:"name"`
		Description  string   `json:"description" yaml:"description"`
		Category     string   `json:"category" yaml:"category"`
		Compiler     string   `json:"compiler" yaml:"compiler"`
		Dependencies []string `json:"dependencies" yaml:"dependencies"`
		Files        []string `json:"files" yaml:"files"`
		Path         string   `json:"path" yaml:"path"`
		Descriptor   string   `json:"descriptor" yaml:"descriptor"`
	}
)

func newListCommand(a *App) *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered dotfile bundles",
		Long: `List every dotfile bundle found under the default search roots.

Discovery problems (unreadable directories, malformed descriptors) are
reported as warnings on stderr and never change the exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := listFormat(format)
			switch f {
			case listFormatText, listFormatJSON, listFormatYAML:
			default:
				return fmt.Errorf("unknown format %q (valid: text, json, yaml)", format)
			}
			return runList(cmd.Context(), a, f)
		},
	}

	listCmd.Flags().StringVarP(&format, "format", "f", string(listFormatText), "output format (text, json, yaml)")
	return listCmd
}

// runList scans the default roots and prints the entries. It succeeds
// whenever the output could be written, whatever the scan found.
func runList(ctx context.Context, a *App, format listFormat) error {
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

	switch format {
	case listFormatJSON:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(toListEntries(result.Entries))
	case listFormatYAML:
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(toListEntries(result.Entries)); err != nil {
			return err
		}
		return enc.Close()
	default:
		if err := renderListText(a.stdout, result.Entries); err != nil {
			return err
		}
		if len(result.Entries) == 0 {
			a.renderIssue(a.stderr, issue.NoDotfilesFoundId)
		}
		return nil
	}
}

func toListEntries(bundles []dotwellfile.Bundle) []listEntry {
	entries := make([]listEntry, 0, len(bundles))
	for _, b := range bundles {
		d := b.Descriptor
		entries = append(entries, listEntry{
			Name:         d.Name,
			Description:  d.Description,
			Category:     d.Category,
			Compiler:     d.CompilerName(),
			Dependencies: nonNil(d.Dependencies),
			Files:        nonNil(d.Files),
			Path:         b.Dir,
			Descriptor:   b.File,
		})
	}
	return entries
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// renderListText writes the human-readable listing.
func renderListText(w io.Writer, bundles []dotwellfile.Bundle) error {
	var b strings.Builder

	if len(bundles) == 0 {
		b.WriteString("No dotfiles found.\n")
		b.WriteString("\nCreate a dotwell.toml or dotwell.json file in your dotfiles directory.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if len(bundles) == 1 {
		b.WriteString("Found 1 dotfile configuration:\n\n")
	} else {
		fmt.Fprintf(&b, "Found %d dotfile configurations:\n\n", len(bundles))
	}

	for i, entry := range bundles {
		d := entry.Descriptor
		fmt.Fprintf(&b, "%d. %s [%s]\n", i+1, d.Name, d.CompilerName())
		fmt.Fprintf(&b, "   %s\n", d.Description)
		fmt.Fprintf(&b, "   Path: %s\n", entry.Dir)
		fmt.Fprintf(&b, "   Category: %s\n", d.Category)
		fmt.Fprintf(&b, "   Dependencies: %s\n", strings.Join(d.Dependencies, ", "))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
