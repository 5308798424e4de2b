package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/live"
	"github.com/matzehuels/streamwall/pkg/project"
	"github.com/matzehuels/streamwall/pkg/store"
)

// errNoEndpoint is returned by commands that need a live resolver.
var errNoEndpoint = swerrors.New(swerrors.ErrCodeInvalidInput,
	"no live status endpoint configured (set live.endpoint or STREAMWALL_LIVE_ENDPOINT)")

// statusCommand creates the status command.
func (c *CLI) statusCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which streams are live",
		Long: `Ask the live status service which streams of the project are live.

With --watch the table is refreshed on the configured interval until
interrupted. Statuses are cached in the layout store so a restart shows
the last known state right away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, _, err := c.loadProject(cmd)
			if err != nil {
				return err
			}
			if len(p.Streams) == 0 {
				printInfo(c.out, "No streams yet")
				return nil
			}
			r, err := c.resolver()
			if err != nil {
				return err
			}
			if r == nil {
				return errNoEndpoint
			}
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if watch {
				poller := c.newPoller(ctx, r, p, s, func(st map[string]live.Status) {
					fmt.Fprintln(c.out, statusTable(p, st))
				})
				if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}

			poller := c.newPoller(ctx, r, p, s, nil)
			spin := newSpinner(ctx, c.out, fmt.Sprintf("Checking %d streams", len(p.Streams)))
			spin.Start()
			prog := newProgress(loggerFromContext(ctx))
			_, err = poller.Poll(ctx)
			spin.Stop()
			if err != nil {
				if spin.Cancelled() {
					return ctx.Err()
				}
				return err
			}
			prog.done(fmt.Sprintf("Checked %d streams", len(p.Streams)))

			st := poller.Statuses()
			fmt.Fprintln(c.out, statusTable(p, st.Snapshot()))
			printDetail(c.out, "%d of %d live", len(st.Live()), len(p.Streams))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling on the configured interval")
	return cmd
}

// newPoller builds a poller over the streams of p, caching in s.
func (c *CLI) newPoller(ctx context.Context, r live.Resolver, p *project.Project, s store.Store, onUpdate func(map[string]live.Status)) *live.Poller {
	opts := []live.PollerOption{
		live.WithInterval(c.cfg.Live.Interval()),
		live.WithCache(s, c.cfg.Live.CacheTTL()),
		live.WithPollerLogger(loggerFromContext(ctx)),
	}
	if onUpdate != nil {
		opts = append(opts, live.WithCallback(onUpdate))
	}
	return live.NewPoller(r, live.Sources(p.Refs()...), opts...)
}

// statusTable renders one row per stream in project order.
func statusTable(p *project.Project, statuses map[string]live.Status) string {
	rows := make([][]string, 0, len(p.Streams))
	for _, s := range p.Streams {
		st, ok := statuses[s.ID]
		rows = append(rows, []string{statusIcon(st, ok), s.Label(), s.ID, statusDetail(st, ok)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Stream", "ID", "Checked").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 || col == 3 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func statusIcon(st live.Status, ok bool) string {
	switch {
	case !ok || st.Uncertain:
		return StyleDim.Render("?")
	case st.IsLive:
		return StyleLive.Render(iconLive)
	default:
		return StyleDim.Render(iconOffline)
	}
}

func statusDetail(st live.Status, ok bool) string {
	switch {
	case !ok:
		return "never"
	case st.ConsentRequired:
		return "consent wall"
	case st.CheckedAt.IsZero():
		return "unknown"
	default:
		return st.CheckedAt.Local().Format(time.TimeOnly)
	}
}
