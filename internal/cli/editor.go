package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/streamwall/pkg/board"
	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/render"
	"github.com/matzehuels/streamwall/pkg/session"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var width, height float64

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Arrange tiles interactively",
		Long: `Open the grid in a terminal editor.

Every move and resize is saved as the manual layout of the current screen
mode as soon as it is accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := c.openWorkspace(cmd, width, height)
			if err != nil {
				return err
			}
			defer ws.Close()
			if len(ws.project.Streams) == 0 {
				printInfo(c.out, "No streams yet")
				printNextStep(c.out, "Add one", appName+" project add <url>")
				return nil
			}

			m := newEditorModel(cmd.Context(), ws.board, ws.project.Name, labels(ws.project))
			p := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen(), tea.WithOutput(c.out))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			return nil
		},
	}

	sizeFlags(cmd, &width, &height)
	return cmd
}

// editorKeys are the editor key bindings.
type editorKeys struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Grow     key.Binding
	Shrink   key.Binding
	Wider    key.Binding
	Narrower key.Binding
	Next     key.Binding
	Prev     key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var editorKeyMap = editorKeys{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move right")),
	Grow:     key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "taller")),
	Shrink:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "shorter")),
	Wider:    key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "wider")),
	Narrower: key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "narrower")),
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tile")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tile")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset layout")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k editorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Left, k.Wider, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k editorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grow, k.Shrink, k.Wider, k.Narrower},
		{k.Next, k.Prev, k.Reset, k.Help, k.Quit},
	}
}

// editorModel is the bubbletea model of the grid editor.
type editorModel struct {
	ctx    context.Context
	board  *board.Board
	title  string
	labels map[string]string

	selected int
	status   string
	warn     bool
	help     help.Model
}

func newEditorModel(ctx context.Context, b *board.Board, title string, labels map[string]string) editorModel {
	return editorModel{
		ctx:    ctx,
		board:  b,
		title:  title,
		labels: labels,
		help:   help.New(),
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, editorKeyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, editorKeyMap.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, editorKeyMap.Next):
			m.selected = (m.selected + 1) % max(1, len(m.board.StreamIDs()))
		case key.Matches(msg, editorKeyMap.Prev):
			n := max(1, len(m.board.StreamIDs()))
			m.selected = (m.selected + n - 1) % n
		case key.Matches(msg, editorKeyMap.Up):
			m.move(0, -1)
		case key.Matches(msg, editorKeyMap.Down):
			m.move(0, 1)
		case key.Matches(msg, editorKeyMap.Left):
			m.move(-1, 0)
		case key.Matches(msg, editorKeyMap.Right):
			m.move(1, 0)
		case key.Matches(msg, editorKeyMap.Grow):
			m.resize(0, 1)
		case key.Matches(msg, editorKeyMap.Shrink):
			m.resize(0, -1)
		case key.Matches(msg, editorKeyMap.Wider):
			m.resize(1, 0)
		case key.Matches(msg, editorKeyMap.Narrower):
			m.resize(-1, 0)
		case key.Matches(msg, editorKeyMap.Reset):
			if err := m.board.Reset(m.ctx); err != nil {
				m.setStatus(true, "reset failed: %v", err)
			} else {
				m.setStatus(false, "layout reset")
			}
		}
	}
	return m, nil
}

// current returns the selected tile.
func (m *editorModel) current() (grid.Item, bool) {
	ids := m.board.StreamIDs()
	if len(ids) == 0 {
		return grid.Item{}, false
	}
	m.selected = min(m.selected, len(ids)-1)
	return m.board.Layout().Find(ids[m.selected])
}

func (m *editorModel) move(dx, dy int) {
	it, ok := m.current()
	if !ok {
		return
	}
	x, y := it.X+dx, it.Y+dy
	if x < 0 || y < 0 {
		return
	}
	res, err := m.board.Move(m.ctx, it.ID, x, y)
	m.report(it.ID, "move", res, err)
}

func (m *editorModel) resize(dw, dh int) {
	it, ok := m.current()
	if !ok {
		return
	}
	w, h := it.W+dw, it.H+dh
	if w < 1 || h < 1 {
		return
	}
	res, err := m.board.ResizeTile(m.ctx, it.ID, w, h)
	m.report(it.ID, "resize", res, err)
}

func (m *editorModel) report(id, verb string, res session.Result, err error) {
	switch {
	case err != nil:
		m.setStatus(true, "%s failed: %v", verb, err)
	case res.Outcome == session.RolledBack:
		m.setStatus(true, "no room to %s %s", verb, m.label(id))
	default:
		m.setStatus(false, "saved %s of %s", verb, m.label(id))
	}
}

func (m *editorModel) setStatus(warn bool, format string, args ...any) {
	m.warn = warn
	m.status = fmt.Sprintf(format, args...)
}

func (m editorModel) label(id string) string {
	if l := m.labels[id]; l != "" {
		return l
	}
	return id
}

func (m editorModel) View() string {
	var b strings.Builder
	v := m.board.View()

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · %dx%d", v.Mode, v.Metrics.Cols, v.Metrics.Rows)))
	b.WriteString("\n\n")

	highlight := ""
	if ids := m.board.StreamIDs(); len(ids) > 0 {
		highlight = ids[min(m.selected, len(ids)-1)]
	}
	b.WriteString(render.Text(v.Layout, v.Metrics, render.TextOptions{
		Options:   render.Options{Labels: m.labels},
		Color:     true,
		Highlight: highlight,
	}))
	b.WriteString("\n")

	switch {
	case m.status == "":
	case m.warn:
		b.WriteString(StyleWarning.Render(m.status))
	default:
		b.WriteString(StyleSuccess.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(editorKeyMap))
	return b.String()
}
