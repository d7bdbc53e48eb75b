// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/invowk/testsetup/internal/marker"
)

func newMarkersCommand(app *App) *cobra.Command {
	var (
		render   bool
		encoding string
	)

	markersCmd := &cobra.Command{
		Use:   "markers <file>",
		Short: "List the markers found in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := marker.NewParser(marker.WithEncoding(encoding))
			text, err := parser.ReadFile(args[0])
			if err != nil {
				cmd.SilenceErrors = true
				return app.reportError(err)
			}
			markers := marker.All(text)

			out := cmd.OutOrStdout()
			if render {
				rendered, err := glamour.Render(markersMarkdown(args[0], markers), "auto")
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			}

			if len(markers) == 0 {
				fmt.Fprintln(out, SubtitleStyle.Render("(no markers)"))
				return nil
			}
			for _, m := range markers {
				fmt.Fprintf(out, "%d\t%s\t%s\n", m.Line, PathStyle.Render(":"+m.Tag+":"), SuccessStyle.Render(m.Value))
			}
			return nil
		},
	}

	markersCmd.Flags().BoolVar(&render, "render", false, "render the markers as a Markdown table")
	markersCmd.Flags().StringVar(&encoding, "encoding", "", "text encoding of the file (default utf-8)")

	return markersCmd
}

func markersMarkdown(path string, markers []marker.Marker) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Markers in `%s`\n\n", path)
	if len(markers) == 0 {
		sb.WriteString("_No markers found._\n")
		return sb.String()
	}
	sb.WriteString("| Line | Tag | Value |\n|---:|---|---|\n")
	for _, m := range markers {
		value := strings.ReplaceAll(m.Value, "|", `\|`)
		fmt.Fprintf(&sb, "| %d | `%s` | %s |\n", m.Line, m.Tag, value)
	}
	return sb.String()
}
