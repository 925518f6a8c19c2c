package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/jsonscope/pkg/errors"
	"github.com/matzehuels/jsonscope/pkg/mutate"
	"github.com/matzehuels/jsonscope/pkg/pipeline"
	"github.com/matzehuels/jsonscope/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listMatchStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	listFocusStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// exploreCommand creates the explore command, an interactive node list
// with search and in-place editing.
func (c *CLI) exploreCommand() *cobra.Command {
	var query string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "explore <file>",
		Short: "Browse, search and edit a document interactively",
		Long: `Open a document as an indented list of nodes.

  ↑/↓ j/k   move            /      search
  n/N       next/prev match  esc    clear search
  f         jump to focus    e ⏎    edit the selected value
  F         format           w      write changes back
  q         quit

After an edit the list jumps to the first changed node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateQuery(query); err != nil {
				return err
			}
			return c.runExplore(cmd, args[0], query, noCache)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "initial search")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")
	cmd.ValidArgsFunction = completeJSONFiles(0)
	return cmd
}

func (c *CLI) runExplore(cmd *cobra.Command, path, query string, noCache bool) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	text, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	// The list owns the terminal; keep the pipeline quiet while it runs.
	quiet := quietLogger()
	runner := pipeline.NewRunner(c.openCache(ctx, noCache), cacheKeyer(), quiet)
	defer runner.Close()

	opts := c.pipelineOptions()
	opts.Logger = quiet
	ws := pipeline.NewWorkspace(runner, opts)
	ws.SetQuery(query)
	if _, err := ws.SetText(ctx, text); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	model := newExploreModel(ctx, ws, path)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(exploreModel); ok && m.dirty {
		statusFor(cmd).warning("Unsaved changes to %s were discarded", path)
	}
	return nil
}

// =============================================================================
// exploreModel - Interactive node list
// =============================================================================

type exploreMode int

const (
	modeBrowse exploreMode = iota
	modeSearch
	modeEdit
)

// exploreModel is the bubbletea model of the explorer.
type exploreModel struct {
	ctx  context.Context
	ws   *pipeline.Workspace
	file string

	nodes  []view.Node
	Cursor int
	Offset int
	Height int

	mode   exploreMode
	input  string
	status string
	dirty  bool
}

func newExploreModel(ctx context.Context, ws *pipeline.Workspace, file string) exploreModel {
	m := exploreModel{ctx: ctx, ws: ws, file: file, Height: 20}
	m.refresh()
	m.jumpToFocus()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
		m.scroll()
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeEdit:
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m exploreModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.move(m.Cursor - 1)
	case "down", "j":
		m.move(m.Cursor + 1)
	case "home", "g":
		m.move(0)
	case "end", "G":
		m.move(len(m.nodes) - 1)
	case "n":
		m.nextMatch(1)
	case "N":
		m.nextMatch(-1)
	case "f":
		if !m.jumpToFocus() {
			m.status = "Nothing changed yet"
		}
	case "/":
		m.mode = modeSearch
		m.input = m.ws.Query()
	case "esc":
		m.ws.SetQuery("")
		m.refresh()
	case "e", "enter":
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.input = ""
		if doc, ok := m.ws.Document(); ok {
			if v, ok := mutate.Lookup(doc, n.Path); ok && !v.Kind().IsContainer() {
				m.input = v.String()
			}
		}
	case "F":
		_, changed, err := m.ws.Format(m.ctx)
		switch {
		case err != nil:
			m.status = errs.UserMessage(err)
		case changed:
			m.dirty = true
			m.status = "Formatted"
		default:
			m.status = "Already formatted"
		}
		m.refresh()
	case "w":
		m.save()
	}
	return m, nil
}

func (m exploreModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeBrowse
		return m, nil
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = ""
	case tea.KeyCtrlC:
		return m, tea.Quit
	default:
		if !m.editInput(msg) {
			return m, nil
		}
	}
	if err := errs.ValidateQuery(m.input); err != nil {
		m.status = errs.UserMessage(err)
		return m, nil
	}
	m.ws.SetQuery(m.input)
	m.refresh()
	if !m.onMatch() {
		m.nextMatch(1)
	}
	return m, nil
}

func (m exploreModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input = ""
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.mode = modeBrowse
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		_, applied, err := m.ws.Edit(m.ctx, n.Path, m.input)
		switch {
		case err != nil:
			m.status = errs.UserMessage(err)
		case !applied:
			m.status = fmt.Sprintf("%s cannot be set", n.ID)
		default:
			m.dirty = true
			m.status = "Set " + n.ID
		}
		m.input = ""
		m.refresh()
		m.jumpToFocus()
	default:
		m.editInput(msg)
	}
	return m, nil
}

// editInput applies a typing key to the input line and reports whether it
// changed.
func (m *exploreModel) editInput(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeySpace:
		m.input += " "
	case tea.KeyBackspace:
		if m.input == "" {
			return false
		}
		r := []rune(m.input)
		m.input = string(r[:len(r)-1])
	default:
		return false
	}
	return true
}

func (m *exploreModel) save() {
	if !m.dirty {
		m.status = "No changes to write"
		return
	}
	if err := replaceFile(m.file, []byte(m.ws.Text()+"\n")); err != nil {
		m.status = err.Error()
		return
	}
	m.dirty = false
	m.status = "Wrote " + m.file
}

// refresh reloads the node list from the workspace, keeping the cursor on
// the same node ID when it still exists.
func (m *exploreModel) refresh() {
	var current string
	if n, ok := m.selected(); ok {
		current = n.ID
	}
	m.nodes = m.ws.View().Nodes
	for i, n := range m.nodes {
		if n.ID == current {
			m.move(i)
			return
		}
	}
	m.move(m.Cursor)
}

func (m *exploreModel) selected() (view.Node, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.nodes) {
		return view.Node{}, false
	}
	return m.nodes[m.Cursor], true
}

func (m *exploreModel) move(i int) {
	m.Cursor = min(max(i, 0), max(len(m.nodes)-1, 0))
	m.scroll()
}

func (m *exploreModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// jumpToFocus moves the cursor to the focused node, or to its nearest
// surviving ancestor when the focus path no longer exists.
func (m *exploreModel) jumpToFocus() bool {
	focus := m.ws.Focus()
	for p := focus; len(p) > 0; p = p[:len(p)-1] {
		id := p.String()
		for i, n := range m.nodes {
			if n.ID == id {
				m.move(i)
				return true
			}
		}
	}
	return false
}

func (m *exploreModel) onMatch() bool {
	n, ok := m.selected()
	return ok && n.IsMatch
}

// nextMatch moves to the next match in direction dir, wrapping around.
func (m *exploreModel) nextMatch(dir int) {
	count := len(m.nodes)
	for step := 1; step <= count; step++ {
		i := ((m.Cursor+dir*step)%count + count) % count
		if m.nodes[i].IsMatch {
			m.move(i)
			return
		}
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	title := StyleTitle.Render("jsonscope") + " " + StyleDim.Render(m.file)
	if m.dirty {
		title += StyleWarning.Render(" (modified)")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  / search  n/N matches  e edit  f focus  F format  w write  q quit"))
	b.WriteString("\n\n")

	if err := m.ws.Err(); err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + errs.UserMessage(err))
		b.WriteString("\n")
	}

	end := min(m.Offset+m.Height, len(m.nodes))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.renderNode(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m exploreModel) renderNode(i int) string {
	n := m.nodes[i]

	cursor := "  "
	if i == m.Cursor {
		cursor = "▸ "
	}
	marker := " "
	if n.IsFocus {
		marker = listFocusStyle.Render(iconFocus)
	}
	indent := strings.Repeat("  ", n.Depth)
	label := n.Label + ": "

	val := kindStyle(n.Color).Render(n.DisplayValue)
	switch {
	case i == m.Cursor:
		return marker + listSelectedStyle.Render(cursor+indent+label) + val
	case n.IsMatch:
		return marker + listMatchStyle.Render(cursor+indent+label) + val
	case n.IsDim:
		return marker + listDimStyle.Render(cursor+indent+label+n.DisplayValue)
	}
	return marker + listNormalStyle.Render(cursor+indent+label) + val
}

func (m exploreModel) footer() string {
	var parts []string
	switch m.mode {
	case modeSearch:
		parts = append(parts, StyleHighlight.Render("/")+m.input+"█")
	case modeEdit:
		if n, ok := m.selected(); ok {
			parts = append(parts, StyleHighlight.Render(n.ID+" = ")+m.input+"█")
		}
	}

	pos := fmt.Sprintf("[%d/%d]", min(m.Cursor+1, len(m.nodes)), len(m.nodes))
	if q := m.ws.Query(); q != "" {
		pos += fmt.Sprintf("  %d matches for %q", m.ws.View().Matches, q)
	}
	parts = append(parts, listDimStyle.Render(pos))
	if m.status != "" {
		parts = append(parts, StyleDim.Render(m.status))
	}
	return strings.Join(parts, "\n")
}
