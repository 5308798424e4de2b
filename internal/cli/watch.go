package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/streamwall/pkg/project"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reflow the grid whenever the project file changes",
		Long: `Print the grid, then print it again every time the project file is saved.

Streams that stay in the project keep their tiles; new streams are placed
in free space and removed streams free theirs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd, opts.width, opts.height)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := c.printBoard(ws, opts, ""); err != nil {
				return err
			}
			return c.watchProject(cmd.Context(), ws, func() error {
				fmt.Fprintln(c.out)
				return c.printBoard(ws, opts, "")
			})
		},
	}

	opts.register(cmd)
	return cmd
}

// watchProject reloads ws.project on every change to its file and applies
// the new stream set to the board, calling onChange after each applied
// change. It returns when ctx is done.
func (c *CLI) watchProject(ctx context.Context, ws *workspace, onChange func() error) error {
	logger := loggerFromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so the directory is watched.
	abs, err := filepath.Abs(ws.path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	printInfo(c.out, "Watching %s %s", StyleValue.Render(ws.path), StyleDim.Render("(ctrl+c to stop)"))

	debounce := time.NewTimer(0)
	<-debounce.C
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			changed, err := reloadProject(ctx, ws)
			if err != nil {
				logger.Warn("project not reloaded", "err", err)
				continue
			}
			if !changed {
				continue
			}
			logger.Debug("project reloaded", "streams", len(ws.project.Streams))
			if err := onChange(); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// reloadProject reads the project file again and applies its stream set.
// It reports whether anything visible changed.
func reloadProject(ctx context.Context, ws *workspace) (bool, error) {
	p, err := project.Load(ws.path)
	if err != nil {
		return false, err
	}
	if p.ID != ws.project.ID {
		return false, fmt.Errorf("project id changed from %s to %s; restart to switch projects", ws.project.ID, p.ID)
	}

	old := ws.project
	ws.project = p
	if slices.Equal(old.StreamIDs(), p.StreamIDs()) {
		return !slices.Equal(old.Streams, p.Streams) || old.Name != p.Name, nil
	}
	if err := ws.board.SetStreams(ctx, p.StreamIDs()); err != nil {
		return false, err
	}
	return true, nil
}
