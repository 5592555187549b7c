// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotwell/dotwell/internal/issue"
	"github.com/dotwell/dotwell/pkg/dotwellfile"
)

type initOptions struct {
	dir      string
	name     string
	compiler string
	format   string
}

func newInitCommand(a *App) *cobra.Command {
	var opts initOptions

	initCmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a dotwell descriptor for a new bundle",
		Long: `Create a starter dotwell.toml (or dotwell.json) in the given directory,
or in the current directory when none is given.

The bundle name defaults to the directory name. An existing descriptor is
never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.dir = "."
			if len(args) > 0 {
				opts.dir = args[0]
			}
			return runInit(a, opts)
		},
	}

	initCmd.Flags().StringVar(&opts.name, "name", "", "bundle name (default is the directory name)")
	initCmd.Flags().StringVar(&opts.compiler, "compiler", string(dotwellfile.CompilerMake), "build tool (gcc, make, cargo, nix)")
	initCmd.Flags().StringVar(&opts.format, "format", string(dotwellfile.FormatTOML), "descriptor format (toml, json)")

	return initCmd
}

func runInit(a *App, opts initOptions) error {
	format := dotwellfile.Format(opts.format)
	if ok, errs := format.IsValid(); !ok {
		return errors.Join(errs...)
	}
	kind := dotwellfile.CompilerKind(opts.compiler)
	if ok, errs := kind.IsValid(); !ok {
		return errors.Join(errs...)
	}

	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", opts.dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("create descriptor").
			WithResource(dir).
			Wrap(err).
			WithSuggestion("Create the directory first or pass an existing one").
			BuildError()
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	for _, fileName := range dotwellfile.DescriptorFileNames() {
		existing := filepath.Join(dir, fileName)
		if _, err := os.Stat(existing); err == nil {
			return issue.NewErrorContext().
				WithOperation("create descriptor").
				WithResource(existing).
				WithIssue(issue.DescriptorExistsId).
				Wrap(errors.New("a descriptor already exists")).
				WithSuggestion("Edit the existing descriptor instead").
				BuildError()
		}
	}

	name := opts.name
	if name == "" {
		name = filepath.Base(dir)
	}

	d, err := dotwellfile.Scaffold(name, kind)
	if err != nil {
		return err
	}
	content, err := dotwellfile.Encode(d, format)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, format.FileName())
	if err := os.WriteFile(path, content, 0o644); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return issue.NewErrorContext().
				WithOperation("create descriptor").
				WithResource(path).
				WithIssue(issue.PermissionDeniedId).
				Wrap(err).
				BuildError()
		}
		return fmt.Errorf("failed to write descriptor: %w", err)
	}

	fmt.Fprintf(a.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(a.stdout, "  1. Fill in the description, dependencies and files")
	fmt.Fprintln(a.stdout, "  2. Run 'dotwell list' to check that the bundle is found")
	fmt.Fprintf(a.stdout, "  3. Run 'dotwell install %s' to install it\n", name)

	return nil
}
