// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/glrun/glrun/internal/config"
	"github.com/glrun/glrun/internal/issue"
	"github.com/glrun/glrun/internal/runtime"
	"github.com/glrun/glrun/pkg/platform"
	"github.com/glrun/glrun/pkg/script"
)

// runScript loads, resolves and (unless validating) executes one script.
func runScript(ctx context.Context, app *App, flags *rootFlags, ref string) error {
	loaded, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	cfg := loaded.Config

	if flags.shell != "" {
		cfg.Shell.Mode = config.ShellMode(strings.ToLower(strings.TrimSpace(flags.shell)))
	}
	if valid, errs := cfg.Shell.Mode.IsValid(); !valid {
		return issue.NewErrorContext().
			WithOperation("select shell").
			WithResource(cfg.Shell.Mode.String()).
			WithSuggestions(
				"Use --shell native to run commands with the system shell",
				"Use --shell virtual to run commands with the embedded POSIX interpreter",
			).
			WithGuide(issue.InvalidShellModeId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	debug := flags.debug || cfg.UI.Debug
	verbose := flags.verbose || cfg.UI.Verbose
	applyColorMode(cfg.UI.Color)
	logger := newLogger(app.stderr, debug)
	if loaded.Path != "" {
		logger.Debug("loaded config", "path", loaded.Path)
	}

	text, err := app.Scripts(cfg.Fetch, logger).Load(ctx, ref)
	if err != nil {
		return err
	}

	hostOS := app.HostOS()
	if flags.osID != "" {
		hostOS = platform.NormalizeIdentifier(flags.osID)
	}
	logger.Debug("resolving script", "script", ref, "os", hostOS)

	parsed, err := script.Parse(text, hostOS)
	if err != nil {
		return noMatchingSectionError(ref, err)
	}
	for _, w := range parsed.Warnings() {
		logger.Warn(w.String(), "script", ref)
	}

	out := app.stdout
	commands := parsed.Commands()

	if flags.validate {
		printCommands(out, commands)
		fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("✓ %s is valid for %s (%d command(s))", ref, hostOS, len(commands))))
		return nil
	}

	if len(commands) == 0 {
		fmt.Fprintln(out, SubtitleStyle.Render("Nothing to run for "+hostOS))
		return nil
	}

	if !flags.yes && !cfg.Run.AssumeYes {
		printCommands(out, commands)
		proceed, err := confirm(app.stdin, out)
		if err != nil {
			return err
		}
		if !proceed {
			logger.Debug("run declined")
			return nil
		}
	}

	shell, err := app.Shells(runtime.Mode(cfg.Shell.Mode), runtime.ShellOptions{
		Path:   cfg.Shell.Path,
		Args:   cfg.Shell.Args,
		Stderr: app.stderr,
	})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("select shell").
			WithResource(cfg.Shell.Mode.String()).
			WithGuide(issue.InvalidShellModeId).
			Wrap(err).
			BuildError()
	}

	executor := runtime.NewExecutor(shell,
		runtime.WithStdout(out),
		runtime.WithLogger(logger),
		runtime.WithReporter(newFailureReporter(app.stderr, verbose)),
	)
	summary := runtime.Summarize(executor.Execute(ctx, commands))

	if summary.Failed() > 0 {
		fmt.Fprintln(app.stderr, ErrorStyle.Render(
			fmt.Sprintf("%d of %d command(s) failed", summary.Failed(), summary.Total)))
		fmt.Fprintln(app.stderr, SubtitleStyle.Render(
			fmt.Sprintf("Run 'glrun guide %s' for help.", issue.Get(issue.CommandFailedId).Slug())))
		return &ExitError{Code: summary.ExitCode()}
	}

	if verbose {
		fmt.Fprintln(app.stderr, SuccessStyle.Render(fmt.Sprintf("✓ %d command(s) succeeded", summary.Succeeded)))
	}
	return nil
}

// noMatchingSectionError turns a parse failure into an actionable error that
// lists the sections the script does declare.
func noMatchingSectionError(ref string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("resolve script").
		WithResource(ref).
		WithGuide(issue.NoMatchingOsSectionId).
		Wrap(err)

	var noMatch *script.NoMatchingOsSectionError
	if errors.As(err, &noMatch) {
		if len(noMatch.Sections) == 0 {
			ctx.WithSuggestion("Add an '@" + noMatch.HostOS + "' line before the commands for this system")
		} else {
			ctx.WithSuggestion("Add an '@" + noMatch.HostOS + "' section, the script only declares: " +
				strings.Join(noMatch.Sections, ", "))
			ctx.WithSuggestion("Use --os " + noMatch.Sections[0] + " --validate to preview another section")
		}
	}
	return ctx.BuildError()
}

// printCommands lists the resolved commands, numbering each one and indenting
// the continuation lines of multi-line blocks.
func printCommands(w io.Writer, commands []string) {
	width := len(fmt.Sprint(len(commands)))
	indent := strings.Repeat(" ", width+2)
	for i, command := range commands {
		lines := strings.Split(command, "\n")
		fmt.Fprintf(w, "%*d. %s\n", width, i+1, CmdStyle.Render(lines[0]))
		for _, line := range lines[1:] {
			fmt.Fprintf(w, "%s%s\n", indent, CmdStyle.Render(line))
		}
	}
}
