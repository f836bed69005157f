package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowsheet/pkg/solver"
	"github.com/matzehuels/flowsheet/pkg/stream"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StreamListModel - Interactive stream browser
// =============================================================================

// StreamListModel is the bubbletea model for browsing solved streams.
// Enter toggles a detail view of the stream under the cursor.
type StreamListModel struct {
	Title    string
	Streams  []stream.Stream
	Cursor   int
	Height   int
	Offset   int
	Detailed bool
}

// NewStreamListModel creates a browser over res's streams in the given order.
func NewStreamListModel(title string, res *solver.Result, order []string) StreamListModel {
	streams := make([]stream.Stream, 0, len(order))
	for _, id := range order {
		if st, ok := res.Streams[id]; ok {
			streams = append(streams, st)
		}
	}
	return StreamListModel{
		Title:   title,
		Streams: streams,
		Height:  15,
	}
}

func (m StreamListModel) Init() tea.Cmd {
	return nil
}

func (m StreamListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detailed {
				m.Detailed = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Streams)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Streams) > 0 {
				m.Detailed = !m.Detailed
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m StreamListModel) View() string {
	if m.Detailed && m.Cursor < len(m.Streams) {
		return m.detailView(m.Streams[m.Cursor])
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Streams) == 0 {
		b.WriteString(listDimStyle.Render("  no streams"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Streams))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		st := m.Streams[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			st.ID,
			fmt.Sprintf("%.4g", st.FlowRate),
			fmt.Sprintf("%.2f", st.Temperature),
			string(st.Phase),
			st.Composition.First(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Stream", "Flow kg/s", "T K", "Phase", "Main").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Streams) {
				return lipgloss.NewStyle()
			}
			isCurrent := idx == m.Cursor
			noFlow := m.Streams[idx].FlowRate == 0

			switch {
			case isCurrent:
				return listSelectedStyle
			case noFlow:
				return listDimStyle
			case col == 1:
				return listNormalStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Streams))))

	return b.String()
}

func (m StreamListModel) detailView(st stream.Stream) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(st.ID))
	if st.Name != "" && st.Name != st.ID {
		b.WriteString(" " + listDimStyle.Render(st.Name))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	field := func(k, v string) {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", listDimStyle.Render(k), listNormalStyle.Render(v)))
	}
	field("Flow", fmt.Sprintf("%.6g kg/s", st.FlowRate))
	field("Temperature", fmt.Sprintf("%.2f K", st.Temperature))
	field("Pressure", fmt.Sprintf("%.3f kPa", st.Pressure/1000))
	field("Phase", string(st.Phase))
	field("Enthalpy", fmt.Sprintf("%.6g J/kg", st.Enthalpy))
	field("Entropy", fmt.Sprintf("%.6g J/(kg·K)", st.Entropy))

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")
	for _, c := range st.Composition.Components() {
		bar := strings.Repeat("█", int(c.Fraction*20+0.5))
		b.WriteString(fmt.Sprintf("  %-12s %6.3f %s\n", c.Material, c.Fraction, StyleHighlight.Render(bar)))
	}
	if st.Composition.Len() == 0 {
		b.WriteString(listDimStyle.Render("  empty composition"))
		b.WriteString("\n")
	}

	return b.String()
}
