package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/streamwall/pkg/board"
	"github.com/matzehuels/streamwall/pkg/buildinfo"
	"github.com/matzehuels/streamwall/pkg/config"
	"github.com/matzehuels/streamwall/pkg/observability"
	"github.com/matzehuels/streamwall/pkg/project"
	"github.com/matzehuels/streamwall/pkg/store"
)

const appName = "streamwall"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Default container size for commands run outside a browser.
const (
	defaultWidth  = 1920
	defaultHeight = 1080
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out     io.Writer
	cfgFile string
	cfg     *config.Config
	verbose bool
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose forces debug logging regardless of the configured level.
func (c *CLI) SetVerbose(v bool) {
	c.verbose = v
}

// SetOutput redirects command output, mainly for tests.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// Config returns the loaded configuration.
func (c *CLI) Config() *config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Streamwall lays out live streams on a tiled grid",
		Long:          `Streamwall arranges YouTube, Twitch and Kick streams on a responsive grid, remembers manual arrangements per project and screen mode, and tracks which streams are live.`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default "+config.ConfigFile()+")")
	root.PersistentFlags().StringP("project", "p", "", "project file (default "+project.DefaultFile+")")

	root.AddCommand(c.projectCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.resetCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads config file and environment and applies the log level.
func (c *CLI) loadConfig() error {
	if err := config.Init(c.cfgFile); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	c.cfg = cfg

	switch {
	case c.verbose:
		c.SetLogLevel(log.DebugLevel)
	default:
		if lvl, err := log.ParseLevel(strings.ToLower(cfg.Logging.Level)); err == nil {
			c.SetLogLevel(lvl)
		}
	}
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.UseLogger(c.Logger)
	}
	return nil
}

// projectPath resolves the --project flag against the configuration.
func (c *CLI) projectPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("project"); p != "" {
		return p
	}
	return c.cfg.Project.File
}

// loadProject reads the project named by --project.
func (c *CLI) loadProject(cmd *cobra.Command) (*project.Project, string, error) {
	path := c.projectPath(cmd)
	p, err := project.Load(path)
	if err != nil {
		return nil, path, err
	}
	return p, path, nil
}

// openStore opens the configured blob store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, c.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.cfg.Store.Backend, err)
	}
	return s, nil
}

// workspace bundles what most commands need: the project, its store and a
// sized board.
type workspace struct {
	project *project.Project
	path    string
	store   store.Store
	board   *board.Board
}

func (w *workspace) Close() error { return w.store.Close() }

// openWorkspace loads the project, opens the store and builds a board sized
// width × height.
func (c *CLI) openWorkspace(cmd *cobra.Command, width, height float64) (*workspace, error) {
	ctx := cmd.Context()
	p, path, err := c.loadProject(cmd)
	if err != nil {
		return nil, err
	}
	s, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	b, err := board.New(board.Options{
		ProjectID: p.ID,
		Params:    c.cfg.Grid,
		Layouts:   store.NewLayouts(s, logger),
		Logger:    logger,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := b.SetStreams(ctx, p.StreamIDs()); err != nil {
		s.Close()
		return nil, err
	}
	if err := b.Resize(ctx, width, height); err != nil {
		s.Close()
		return nil, err
	}
	return &workspace{project: p, path: path, store: s, board: b}, nil
}

// sizeFlags registers --width and --height.
func sizeFlags(cmd *cobra.Command, width, height *float64) {
	cmd.Flags().Float64Var(width, "width", defaultWidth, "container width in pixels")
	cmd.Flags().Float64Var(height, "height", defaultHeight, "container height in pixels")
}

// labels maps stream IDs to their display names.
func labels(p *project.Project) map[string]string {
	m := make(map[string]string, len(p.Streams))
	for _, s := range p.Streams {
		m[s.ID] = s.Label()
	}
	return m
}
