package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect or clear saved layouts",
	}

	cmd.AddCommand(c.storePathCommand())
	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeClearCommand())

	return cmd
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where layouts are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := c.cfg.Store
			printKeyValue(c.out, "backend", sc.Backend)
			switch sc.Backend {
			case store.BackendRedis:
				printKeyValue(c.out, "addr", sc.Redis.Addr)
			case store.BackendMongo:
				printKeyValue(c.out, "uri", sc.Mongo.URI)
				printKeyValue(c.out, "database", sc.Mongo.Database)
			case store.BackendMemory, store.BackendNull:
			default:
				printKeyValue(c.out, "dir", sc.Dir)
			}
			return nil
		},
	}
}

// storeShowCommand creates the "store show" subcommand.
func (c *CLI) storeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the manual layouts saved for the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, _, err := c.loadProject(cmd)
			if err != nil {
				return err
			}
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			layouts := store.NewLayouts(s, loggerFromContext(ctx))
			for _, mode := range []grid.Mode{grid.ModeDesktop, grid.ModeMobile} {
				l, ok := layouts.Load(ctx, p.ID, mode)
				if !ok {
					printKeyValue(c.out, string(mode), StyleDim.Render("none"))
					continue
				}
				printKeyValue(c.out, string(mode), strconv.Itoa(len(l))+" tiles")
				for _, it := range l {
					printDetail(c.out, "%s (%d,%d) %dx%d", it.ID, it.X, it.Y, it.W, it.H)
				}
			}
			return nil
		},
	}
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete saved layouts",
		Long: `Delete the manual layouts of the project in both screen modes.

With --all, every entry of the file store is removed, including cached
live statuses of other projects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if all {
				fs, ok := s.(*store.FileStore)
				if !ok {
					return swerrors.New(swerrors.ErrCodeUnsupported, "--all only works with the file backend")
				}
				n, err := fs.Clear()
				if err != nil {
					return err
				}
				printSuccess(c.out, "Cleared %d entries", n)
				printDetail(c.out, "Directory: %s", fs.Path())
				return nil
			}

			p, _, err := c.loadProject(cmd)
			if err != nil {
				return err
			}
			layouts := store.NewLayouts(s, loggerFromContext(ctx))
			for _, mode := range []grid.Mode{grid.ModeDesktop, grid.ModeMobile} {
				if err := layouts.Delete(ctx, p.ID, mode); err != nil {
					return fmt.Errorf("delete %s layout: %w", mode, err)
				}
			}
			printSuccess(c.out, "Cleared saved layouts of %s", StyleValue.Render(p.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "remove every entry of the file store")
	return cmd
}
