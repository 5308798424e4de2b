package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/live"
	"github.com/matzehuels/streamwall/pkg/project"
	"github.com/matzehuels/streamwall/pkg/source"
)

// projectCommand creates the project management command.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create a project and manage its streams",
	}

	cmd.AddCommand(c.projectInitCommand())
	cmd.AddCommand(c.projectAddCommand())
	cmd.AddCommand(c.projectRemoveCommand())
	cmd.AddCommand(c.projectListCommand())

	return cmd
}

// projectInitCommand creates the "project init" subcommand.
func (c *CLI) projectInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create an empty project file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.projectPath(cmd)
			if _, err := os.Stat(path); err == nil && !force {
				return swerrors.New(swerrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}

			name := "My wall"
			if len(args) == 1 {
				name = args[0]
			}
			p := project.New(name)
			if err := p.Save(path); err != nil {
				return err
			}

			printSuccess(c.out, "Created project %s", StyleValue.Render(name))
			printFile(c.out, path)
			printNextStep(c.out, "Add a stream", appName+" project add https://www.twitch.tv/<channel>")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing project file")
	return cmd
}

// projectAddCommand creates the "project add" subcommand.
func (c *CLI) projectAddCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <url>...",
		Short: "Add streams by channel URL or platform:channel",
		Example: `  streamwall project add https://www.youtube.com/@lofigirl
  streamwall project add twitch:shroud kick:xqc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, path, err := c.loadProject(cmd)
			if err != nil {
				return err
			}

			refs := make([]source.Ref, 0, len(args))
			for _, arg := range args {
				ref, err := source.Parse(arg)
				if err != nil {
					return err
				}
				refs = append(refs, ref)
			}

			titles := c.channelTitles(cmd, refs)
			if title != "" && len(refs) == 1 {
				titles[refs[0].URL] = title
			}

			added := 0
			for _, ref := range refs {
				s, err := p.Add(ref, titles[ref.URL])
				if errors.Is(err, project.ErrDuplicate) {
					printWarning(c.out, "%s is already in the project", ref.ID())
					continue
				}
				if err != nil {
					return err
				}
				added++
				printSuccess(c.out, "Added %s", StyleHighlight.Render(s.ID))
				if s.Title != "" {
					printDetail(c.out, "%s", s.Title)
				}
			}

			if added == 0 {
				return nil
			}
			if err := p.Save(path); err != nil {
				return err
			}
			printFile(c.out, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "display title (single stream only)")
	return cmd
}

// channelTitles looks up channel titles through the configured resolver.
// Lookup failures only cost the titles.
func (c *CLI) channelTitles(cmd *cobra.Command, refs []source.Ref) map[string]string {
	titles := make(map[string]string, len(refs))
	r, err := c.resolver()
	if err != nil || r == nil {
		return titles
	}

	urls := make([]string, len(refs))
	for i, ref := range refs {
		urls[i] = ref.URL
	}
	channels, err := r.ResolveChannels(cmd.Context(), urls)
	if err != nil {
		loggerFromContext(cmd.Context()).Warn("channel lookup failed", "err", err)
		return titles
	}
	for url, ch := range channels {
		titles[url] = ch.Title
	}
	return titles
}

// resolver returns the configured live resolver, or nil when no endpoint is
// set.
func (c *CLI) resolver() (*live.HTTPResolver, error) {
	lc := c.cfg.Live
	if lc.Endpoint == "" {
		return nil, nil
	}
	return live.NewHTTPResolver(lc.Endpoint,
		live.WithTimeout(lc.Timeout()),
		live.WithToken(lc.Token))
}

// projectRemoveCommand creates the "project remove" subcommand.
func (c *CLI) projectRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <stream-id>...",
		Aliases: []string{"rm"},
		Short:   "Remove streams from the project",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, path, err := c.loadProject(cmd)
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := p.Remove(id); err != nil {
					return err
				}
				printSuccess(c.out, "Removed %s", StyleHighlight.Render(id))
			}
			if err := p.Save(path); err != nil {
				return err
			}
			printFile(c.out, path)
			return nil
		},
	}
}

// projectListCommand creates the "project list" subcommand.
func (c *CLI) projectListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the streams of the project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, path, err := c.loadProject(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, StyleTitle.Render(p.Name))
			printKeyValue(c.out, "id", p.ID)
			printKeyValue(c.out, "file", path)
			printKeyValue(c.out, "streams", strconv.Itoa(len(p.Streams)))
			if len(p.Streams) == 0 {
				printNextStep(c.out, "Add a stream", appName+" project add <url>")
				return nil
			}

			fmt.Fprintln(c.out)
			for _, s := range p.Streams {
				fmt.Fprintf(c.out, "  %s  %s\n", StyleHighlight.Render(s.ID), StyleDim.Render(s.URL))
				if s.Title != "" {
					printDetail(c.out, "%s", s.Title)
				}
			}
			return nil
		},
	}
}
