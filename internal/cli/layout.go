package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/render"
	"github.com/matzehuels/streamwall/pkg/session"
)

// layoutOptions holds flags shared by the commands that print a layout.
type layoutOptions struct {
	width, height float64
	noColor       bool
	asJSON        bool
}

func (o *layoutOptions) register(cmd *cobra.Command) {
	sizeFlags(cmd, &o.width, &o.height)
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "disable colours")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print the board as JSON")
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the grid for a container size",
		Long: `Show the grid the project gets in a container of the given size.

The manual layout saved for the screen mode is used when there is one;
otherwise the streams are spread evenly.`,
		Example: `  streamwall layout
  streamwall layout --width 390 --height 844`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd, opts.width, opts.height)
			if err != nil {
				return err
			}
			defer ws.Close()
			return c.printBoard(ws, opts, "")
		},
	}

	opts.register(cmd)
	return cmd
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "move <stream-id> <x> <y>",
		Short: "Drag a tile to a cell",
		Long: `Drag a tile so its top-left corner lands on cell (x, y).

Tiles in the way are moved aside. The result is saved as the manual layout
of the current screen mode.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := cellArgs(args[1], args[2])
			if err != nil {
				return err
			}
			ws, err := c.openWorkspace(cmd, opts.width, opts.height)
			if err != nil {
				return err
			}
			defer ws.Close()

			res, err := ws.board.Move(cmd.Context(), args[0], x, y)
			if err != nil {
				return err
			}
			c.printResult(args[0], "move", res)
			return c.printBoard(ws, opts, args[0])
		},
	}

	opts.register(cmd)
	return cmd
}

// resizeCommand creates the resize command.
func (c *CLI) resizeCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "resize <stream-id> <w> <h>",
		Short: "Resize a tile to w × h cells",
		Long: `Resize a tile to w columns by h rows.

Growing pushes neighbours aside. A tile so large that the others would no
longer fit is rejected and the layout is left as it was.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := cellArgs(args[1], args[2])
			if err != nil {
				return err
			}
			ws, err := c.openWorkspace(cmd, opts.width, opts.height)
			if err != nil {
				return err
			}
			defer ws.Close()

			res, err := ws.board.ResizeTile(cmd.Context(), args[0], w, h)
			if err != nil {
				return err
			}
			c.printResult(args[0], "resize", res)
			return c.printBoard(ws, opts, args[0])
		},
	}

	opts.register(cmd)
	return cmd
}

// resetCommand creates the reset command.
func (c *CLI) resetCommand() *cobra.Command {
	var width, height float64

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the manual layout of a screen mode",
		Long: `Forget the manual layout saved for the screen mode the container size
falls into. The other mode keeps its layout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd, width, height)
			if err != nil {
				return err
			}
			defer ws.Close()

			had := ws.board.HasManual()
			if err := ws.board.Reset(cmd.Context()); err != nil {
				return err
			}
			if !had {
				printInfo(c.out, "No manual %s layout saved", ws.board.Mode())
				return nil
			}
			printSuccess(c.out, "Reset the %s layout", ws.board.Mode())
			return nil
		},
	}

	sizeFlags(cmd, &width, &height)
	return cmd
}

// printResult reports how an interaction ended.
func (c *CLI) printResult(id, verb string, res session.Result) {
	switch {
	case res.Outcome == session.RolledBack:
		printWarning(c.out, "Cannot %s %s here; layout unchanged", verb, id)
	case res.Repaired:
		printSuccess(c.out, "Saved %s of %s", verb, StyleHighlight.Render(id))
		printDetail(c.out, "other tiles were rearranged to make room")
	default:
		printSuccess(c.out, "Saved %s of %s", verb, StyleHighlight.Render(id))
	}
}

// printBoard writes the board as a character grid or as JSON.
func (c *CLI) printBoard(ws *workspace, opts layoutOptions, highlight string) error {
	v := ws.board.View()
	if opts.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	manual := "even"
	if v.Manual {
		manual = "manual"
	}
	fmt.Fprintf(c.out, "%s  %s\n\n",
		StyleTitle.Render(ws.project.Name),
		StyleDim.Render(fmt.Sprintf("%s · %dx%d · %s", v.Mode, v.Metrics.Cols, v.Metrics.Rows, manual)))
	if len(v.Layout) == 0 {
		printInfo(c.out, "No streams yet")
		printNextStep(c.out, "Add one", appName+" project add <url>")
		return nil
	}
	fmt.Fprint(c.out, render.Text(v.Layout, v.Metrics, render.TextOptions{
		Options:   render.Options{Labels: labels(ws.project)},
		Color:     !opts.noColor,
		Highlight: highlight,
	}))
	return nil
}

// cellArgs parses two non-negative integers.
func cellArgs(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil || x < 0 {
		return 0, 0, swerrors.New(swerrors.ErrCodeInvalidInput, "expected a non-negative integer, got %q", a)
	}
	y, err := strconv.Atoi(b)
	if err != nil || y < 0 {
		return 0, 0, swerrors.New(swerrors.ErrCodeInvalidInput, "expected a non-negative integer, got %q", b)
	}
	return x, y, nil
}
