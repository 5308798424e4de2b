package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/streamwall/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr          string
		width, height float64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grid over a JSON API",
		Long: `Serve the project's grid over HTTP so a browser front end can resize the
container, drag and resize tiles, and read live statuses.

Live statuses are polled in the background when live.endpoint is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			ws, err := c.openWorkspace(cmd, width, height)
			if err != nil {
				return err
			}
			defer ws.Close()

			opts := []server.Option{server.WithLogger(logger)}

			r, err := c.resolver()
			if err != nil {
				return err
			}
			if r != nil {
				poller := c.newPoller(ctx, r, ws.project, ws.store, nil)
				opts = append(opts, server.WithStatuses(poller.Statuses()))
				go func() {
					if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("live poller stopped", "err", err)
					}
				}()
			} else {
				logger.Info("live status disabled; set live.endpoint to enable it")
			}

			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			printInfo(c.out, "Serving %s on %s", StyleValue.Render(ws.project.Name), StyleLink.Render("http://"+addr))

			srv := server.New(ws.board, opts...)
			err = srv.ListenAndServe(ctx, addr, c.cfg.Server.ReadTimeout(), c.cfg.Server.WriteTimeout())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	sizeFlags(cmd, &width, &height)
	return cmd
}
