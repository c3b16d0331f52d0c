// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glrun/glrun/internal/config"
)

func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the glrun configuration",
		Long: `Inspect and create the glrun configuration.

Settings are read from config.cue or config.toml in the glrun config
directory (or the file given with --config) and can be overridden with
GLRUN_* environment variables, for example GLRUN_SHELL_MODE=virtual.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configCmd.AddCommand(newConfigShowCommand(app, flags))
	configCmd.AddCommand(newConfigInitCommand(app))
	configCmd.AddCommand(newConfigPathCommand(app, flags))

	return configCmd
}

func newConfigShowCommand(app *App, flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return err
			}

			out, err := config.Generate(loaded.Config, config.Format(format))
			if err != nil {
				return err
			}

			if loaded.Path != "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("# loaded from "+loaded.Path))
			} else {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("# no config file found, showing defaults"))
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "output format (cue or toml)")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)

	return cmd
}

func newConfigInitCommand(app *App) *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a default config file into the glrun config directory.

An existing file is left untouched unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			f := config.Format(format)
			if _, err := config.Generate(config.DefaultConfig(), f); err != nil {
				return err
			}

			existing, err := config.DefaultConfigPath(f)
			if err != nil {
				return err
			}
			existed := fileExists(existing)

			path, err := config.CreateDefaultConfig(f, force)
			if err != nil {
				return err
			}

			if existed && !force {
				fmt.Fprintln(app.stdout, WarningStyle.Render("Config file already exists: "+path))
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("Use --force to overwrite it."))
				return nil
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓ Wrote "+path))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "file format (cue or toml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	_ = cmd.RegisterFlagCompletionFunc("format", formatCompletion)

	return cmd
}

func newConfigPathCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file glrun would read",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintln(app.stdout, path)
				return nil
			}

			// Nothing exists yet: show where `config init` would write.
			path, err = config.DefaultConfigPath(config.FormatCUE)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			fmt.Fprintln(app.stderr, SubtitleStyle.Render("(not created yet, run 'glrun config init')"))
			return nil
		},
	}
}

func formatCompletion(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	formats := config.Formats()
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, string(f))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
