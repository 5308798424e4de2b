package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/render"
)

// Export formats.
const (
	formatSVG  = "svg"
	formatDOT  = "dot"
	formatJSON = "json"
	formatText = "txt"
)

var exportFormats = []string{formatSVG, formatDOT, formatJSON, formatText}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		width, height float64
		format        string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the layout as SVG, DOT, JSON or text",
		Long: `Write the grid for a container size to a file or stdout.

The format defaults to the extension of --output, and to text when writing
to stdout.`,
		Example: `  streamwall export -o wall.svg
  streamwall export --format json --width 390 --height 844`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = exportFormat(format, output)
			ws, err := c.openWorkspace(cmd, width, height)
			if err != nil {
				return err
			}
			defer ws.Close()

			v := ws.board.View()
			opts := render.Options{Labels: labels(ws.project)}

			var data []byte
			switch format {
			case formatSVG:
				data, err = render.SVG(cmd.Context(), v.Layout, v.Metrics, opts)
			case formatDOT:
				data = []byte(render.DOT(v.Layout, v.Metrics, opts))
			case formatJSON:
				data, err = json.MarshalIndent(v, "", "  ")
				data = append(data, '\n')
			case formatText:
				data = []byte(render.Text(v.Layout, v.Metrics, render.TextOptions{Options: opts}))
			default:
				return swerrors.New(swerrors.ErrCodeInvalidInput, "unknown format %q (want one of %s)", format, strings.Join(exportFormats, ", "))
			}
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := c.out.Write(data)
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess(c.out, "Exported %s layout", v.Mode)
			printFile(c.out, output)
			return nil
		},
	}

	sizeFlags(cmd, &width, &height)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(exportFormats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// exportFormat picks the explicit format, then the output extension, then
// text.
func exportFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), "."); ext != "" {
		if ext == "gv" {
			return formatDOT
		}
		return ext
	}
	return formatText
}
