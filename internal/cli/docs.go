package cli

import (
	"fmt"

	"jendo-cli/internal/content"
	"jendo-cli/internal/docs"

	"github.com/spf13/cobra"
)

const docsRenderWidth = 80

func newDocsCmd(app *App) *cobra.Command {
	var raw, render bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, errUsage("unknown docs topic: %q (run `jendo docs` to list topics)", topic))
			}

			switch {
			case render:
				_, err := fmt.Fprint(cmd.OutOrStdout(), content.Terminal(body, docsRenderWidth, "dark"))
				return err
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the topic for the terminal")
	return cmd
}
