package cli

import (
	"strings"

	"jendo-cli/internal/reports"
	"jendo-cli/internal/tui"

	"github.com/spf13/cobra"
)

const reportPathPrefix = "my-reports"

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open [my-reports/<category>/<section>/<item>]",
		Short: "Open the TUI, optionally at one report item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(cmd, app, path)
		},
	}
}

// IsReportPath reports whether s looks like a deep link rather than a
// subcommand name.
func IsReportPath(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "/")
	return s == reportPathPrefix || strings.HasPrefix(s, reportPathPrefix+"/")
}

// parseReportPath turns my-reports/<category>/<section>/<item> into the
// parameters of the item's values screen. A bare "my-reports" yields zero
// params (open at home).
func parseReportPath(s string) (reports.NavParams, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" || s == reportPathPrefix {
		return reports.NavParams{}, nil
	}
	parts := strings.Split(s, "/")
	if parts[0] != reportPathPrefix || len(parts) != 4 {
		return reports.NavParams{}, errUsage("invalid report path %q (expected my-reports/<category>/<section>/<item>)", s)
	}
	kinds := []string{"category", "section", "item"}
	for i, kind := range kinds {
		if _, err := reports.ParseID(kind, parts[i+1]); err != nil {
			return reports.NavParams{}, err
		}
	}
	return reports.NavParams{
		CategoryID: parts[1],
		SectionID:  parts[2],
		ItemID:     parts[3],
	}, nil
}

func runTUI(cmd *cobra.Command, app *App, path string) error {
	start, err := parseReportPath(path)
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx := cmd.Context()
	if err := app.setup(ctx, true); err != nil {
		return writeErr(cmd, err)
	}
	opts := tui.Options{
		Backend:  app.client,
		Session:  app.sess,
		Location: app.cfg.Location(),
		Logger:   app.logger,
		Start:    start,
	}
	if app.cfg.TUI != nil {
		opts.Glyphs = app.cfg.TUI.Glyphs
		opts.OpenCommand = app.cfg.TUI.OpenCommand
	}
	return tui.Run(opts)
}
