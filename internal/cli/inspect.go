package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringmap/pkg/focus"
	"github.com/matzehuels/ringmap/pkg/graph"
	"github.com/matzehuels/ringmap/pkg/pipeline"
)

// inspectCommand creates the inspect command: an interactive terminal view
// of a service map with the same focus semantics as the rendered SVG.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [map.json|map.yaml]",
		Short: "Browse a service map interactively",
		Long: `Browse a service map interactively.

Moving the cursor hovers an element; enter selects it, dimming everything
outside its one-hop neighborhood, exactly as clicking does in an interactive
SVG. Enter on the selected element, or backspace, clears the selection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			m, err := runner.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			model := newInspectModel(m)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

var roleStyles = map[graph.Role]lipgloss.Style{
	graph.RoleRoot:     lipgloss.NewStyle().Foreground(colorCyan),
	graph.RoleGateway:  lipgloss.NewStyle().Foreground(colorBlue),
	graph.RoleInbound:  lipgloss.NewStyle().Foreground(colorGreen),
	graph.RoleOutbound: lipgloss.NewStyle().Foreground(colorYellow),
}

// inspectRow is one list entry: an element plus its display indentation.
type inspectRow struct {
	ref    graph.ElementRef
	kind   string // gateway kind, empty for other roles
	indent int
}

// inspectModel is the bubbletea model for service-map browsing. The cursor
// drives hover state and enter drives selection, through the same State
// transitions the SVG interaction uses.
type inspectModel struct {
	m      *graph.Map
	rows   []inspectRow
	cursor int
	state  focus.State
	height int
	offset int
}

func newInspectModel(m *graph.Map) inspectModel {
	model := inspectModel{
		m:      m,
		rows:   flattenMap(m),
		height: 20,
	}
	if len(model.rows) > 0 {
		model.state = model.state.Enter(model.rows[0].ref, m)
	}
	return model
}

// flattenMap lists every element in draw order: root first, then each
// gateway followed by its inbound and outbound endpoints.
func flattenMap(m *graph.Map) []inspectRow {
	rows := []inspectRow{{ref: graph.ElementRef{Role: graph.RoleRoot, Name: m.Root.Name}}}
	for _, gw := range m.Gateways {
		rows = append(rows, inspectRow{
			ref:  graph.ElementRef{Role: graph.RoleGateway, Name: gw.Name},
			kind: gw.Kind, indent: 1,
		})
		for _, name := range gw.Inbound {
			rows = append(rows, inspectRow{
				ref:    graph.ElementRef{Role: graph.RoleInbound, Name: name},
				indent: 2,
			})
		}
		for _, name := range gw.Outbound {
			rows = append(rows, inspectRow{
				ref:    graph.ElementRef{Role: graph.RoleOutbound, Name: name},
				indent: 2,
			})
		}
	}
	return rows
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
				m.state = m.state.Enter(m.rows[m.cursor].ref, m.m)
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
				m.state = m.state.Enter(m.rows[m.cursor].ref, m.m)
			}
		case "enter", " ":
			m.state = m.state.Click(m.rows[m.cursor].ref, m.m)
		case "backspace":
			m.state = m.state.ClickBackground()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect: " + m.m.Root.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ hover  ⏎ select/deselect  ⌫ clear  q quit"))
	b.WriteString("\n\n")

	conn := focus.Connected(m.state.Focused(), m.m)

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := " "
		if sel := m.state.Selected(); sel != nil && *sel == row.ref {
			marker = styleIconSuccess.Render(iconSuccess)
		}

		label := row.ref.Name
		if row.kind != "" {
			label += listDimStyle.Render(" [" + row.kind + "]")
		}
		line := fmt.Sprintf("%s%s %s%s %s",
			cursor, marker,
			strings.Repeat("  ", row.indent),
			roleStyles[row.ref.Role].Render(string(row.ref.Role)),
			label)

		dimmed := conn.Opacity(row.ref) < focus.OpacityFull
		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case dimmed:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine(conn))
	return b.String()
}

// statusLine summarizes the current hover/selection below the list.
func (m inspectModel) statusLine(conn focus.ConnectedElements) string {
	sel := m.state.Selected()
	if sel == nil {
		return listDimStyle.Render(fmt.Sprintf("  [%d/%d] nothing selected", m.cursor+1, len(m.rows)))
	}

	connected := 0
	for _, row := range m.rows {
		if conn.Contains(row.ref) {
			connected++
		}
	}
	return listDimStyle.Render(fmt.Sprintf("  [%d/%d] selected %s:%s · %d connected",
		m.cursor+1, len(m.rows), sel.Role, sel.Name, connected))
}
