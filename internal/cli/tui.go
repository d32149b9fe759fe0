package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/roadweave/pkg/gen"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StrategyPicker - Interactive generator selection
// =============================================================================

// StrategyPicker is the bubbletea model for choosing a generator.
// Selected stays empty when the user quits without choosing.
type StrategyPicker struct {
	Choices  []gen.Strategy
	Cursor   int
	Selected gen.Strategy
}

// NewStrategyPicker creates a picker over every known strategy.
func NewStrategyPicker() StrategyPicker {
	return StrategyPicker{Choices: gen.Strategies}
}

func (m StrategyPicker) Init() tea.Cmd {
	return nil
}

func (m StrategyPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k := key.String(); k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Choices)-1 {
			m.Cursor++
		}
	case "enter", " ":
		m.Selected = m.Choices[m.Cursor]
		return m, tea.Quit
	default:
		// number keys pick directly
		if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(m.Choices) {
			m.Cursor = n - 1
			m.Selected = m.Choices[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StrategyPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Road Generator"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  1-3 pick  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Choices))
	for i, st := range m.Choices {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, strconv.Itoa(i + 1), string(st), st.Description()}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Strategy", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Choices))))
	b.WriteString("\n")
	return b.String()
}
