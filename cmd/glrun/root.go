// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/glrun/glrun/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the flag values of one command tree.
type rootFlags struct {
	validate   bool
	yes        bool
	osID       string
	shell      string
	debug      bool
	verbose    bool
	configPath string
}

// NewRootCommand builds the glrun command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	cmd, _ := newRootCommand(app)
	return cmd
}

func newRootCommand(app *App) (*cobra.Command, *rootFlags) {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "glrun [flags] <script-file-or-url>",
		Short: "Run one script on every operating system",
		Long: TitleStyle.Render("glrun") + SubtitleStyle.Render(" - run one script on every operating system") + `

A glrun script holds commands for several operating systems. Only the
commands of the section matching the host are shown, confirmed and run.

` + SubtitleStyle.Render("Script syntax:") + `
  # comment            ignored
  @linux               start the section for linux (also @macos, @windows)
  -echo hello          a single command
  --                   open or close a multi-line command block

` + SubtitleStyle.Render("Examples:") + `
  glrun setup.glrun                         Run a local script
  glrun https://example.com/setup.glrun     Fetch and run a remote script
  glrun --validate --os windows setup.glrun Show what would run on Windows
  glrun guide                               List troubleshooting guides`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runScript(cmd.Context(), app, flags, args[0])
		},
	}

	rootCmd.Flags().BoolVarP(&flags.validate, "validate", "v", false, "parse the script and print the resolved commands without running them")
	rootCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "run without asking for confirmation")
	rootCmd.Flags().StringVar(&flags.osID, "os", "", "resolve the script for this OS instead of the host (linux, macos, windows)")
	rootCmd.Flags().StringVar(&flags.shell, "shell", "", "shell mode: native or virtual (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "show progress and full error chains")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (.cue or .toml; default is <config dir>/glrun/config.cue)")

	_ = rootCmd.RegisterFlagCompletionFunc("os", cobra.FixedCompletions(
		[]string{"linux", "macos", "windows"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("shell", cobra.FixedCompletions(
		[]string{"native", "virtual"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(newConfigCommand(app, flags))
	rootCmd.AddCommand(newGuideCommand(app, flags))

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd, flags
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs glrun and exits the process. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd, flags := newRootCommand(app)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(flags)),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// errorHandler prints actionable errors with their suggestions and stays
// silent for failures that were already reported.
func errorHandler(flags *rootFlags) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}

		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			fmt.Fprintln(w, formatErrorForDisplay(err, flags.verbose))
			return
		}

		fang.DefaultErrorHandler(w, styles, err)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors include their suggestions, and in verbose mode the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ErrorStyle.Render("Error: ") + ae.Format(verboseMode)
	}
	return ErrorStyle.Render("Error: ") + err.Error()
}

// newLogger returns the CLI logger. Debug enables per-command diagnostics.
func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "glrun", Level: log.InfoLevel})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
