// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glrun/glrun/internal/config"
	"github.com/glrun/glrun/internal/issue"
)

func newGuideCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Show troubleshooting guides",
		Long: `Show troubleshooting guides.

Without a topic, lists every guide. Error messages name the guide that
matches them, for example: glrun guide no-matching-os`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			guides := issue.Values()
			out := make([]string, 0, len(guides))
			for _, g := range guides {
				out = append(out, g.Slug()+"\t"+g.Title())
			}
			return out, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listGuides(app)
				return nil
			}

			guide, ok := issue.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown guide %q (run 'glrun guide' to list them)", args[0])
			}

			// A broken config must not hide the guide that explains it.
			color := config.ColorAuto
			if loaded, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath}); err == nil {
				color = loaded.Config.UI.Color
			}

			rendered, err := guide.Render(guideStyle(color))
			if err != nil {
				return fmt.Errorf("failed to render guide %q: %w", guide.Slug(), err)
			}
			fmt.Fprint(app.stdout, rendered)
			return nil
		},
	}
}

func listGuides(app *App) {
	guides := issue.Values()
	width := 0
	for _, g := range guides {
		width = max(width, len(g.Slug()))
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Guides"))
	for _, g := range guides {
		pad := strings.Repeat(" ", width-len(g.Slug()))
		fmt.Fprintf(app.stdout, "  %s%s  %s\n", CmdStyle.Render(g.Slug()), pad, SubtitleStyle.Render(g.Title()))
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Run 'glrun guide <topic>' to read one."))
}
