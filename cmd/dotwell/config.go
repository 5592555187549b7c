// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotwell/dotwell/internal/config"
)

// newConfigCommand creates the `dotwell config` command tree.
func newConfigCommand(a *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect dotwell configuration",
		Long: `Inspect dotwell configuration.

Configuration is read from config.cue in:
  - Linux: ~/.config/dotwell/config.cue
  - macOS: ~/Library/Application Support/dotwell/config.cue
  - Windows: %APPDATA%\dotwell\config.cue

Every key can also be set through the environment, e.g. DOTWELL_INSTALL_SHELL=zsh.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), a)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(a)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, a *App) error {
	cfg, source, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}

	w := a.stdout
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if source != "" {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	timeout := "none"
	if cfg.Install.Timeout > 0 {
		timeout = cfg.Install.Timeout.String()
	}

	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", SuccessStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("install"))
	fmt.Fprintf(w, "  shell: %s\n", SuccessStyle.Render(cfg.Install.Shell))
	fmt.Fprintf(w, "  virtual_shell: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.Install.VirtualShell)))
	fmt.Fprintf(w, "  timeout: %s\n", SuccessStyle.Render(timeout))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("scan"))
	fmt.Fprintf(w, "  follow_symlinks: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.Scan.FollowSymlinks)))

	return nil
}

func showConfigPath(a *App) error {
	path := a.flags.configPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(a.stdout, path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(a.stderr, SubtitleStyle.Render("(file does not exist, defaults apply)"))
	}
	return nil
}
