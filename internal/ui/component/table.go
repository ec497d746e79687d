package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// Table renders fixed-width rows with an optional highlighted row.
type Table struct {
	columns     []TableColumn
	rows        [][]string
	highlighted int

	headerStyle    lipgloss.Style
	rowStyle       lipgloss.Style
	highlightStyle lipgloss.Style
	borderStyle    lipgloss.Style
}

func NewTable(columns ...TableColumn) *Table {
	palette := style.DefaultPalette()
	return &Table{
		columns:     columns,
		highlighted: -1,

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 1),

		rowStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1),

		highlightStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),
	}
}

func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = rows
	return t
}

// Highlight marks row index; -1 clears it.
func (t *Table) Highlight(index int) *Table {
	t.highlighted = index
	return t
}

func (t *Table) View() string {
	var b strings.Builder

	headers := make([]string, len(t.columns))
	rules := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = renderCell(col.Header, col, t.headerStyle)
		rules[i] = strings.Repeat("─", col.Width+2)
	}
	b.WriteString(strings.Join(headers, "│"))
	b.WriteString("\n")
	b.WriteString(strings.Join(rules, "┼"))

	for i, row := range t.rows {
		rowStyle := t.rowStyle
		if i == t.highlighted {
			rowStyle = t.highlightStyle
		}
		cells := make([]string, len(t.columns))
		for j, col := range t.columns {
			value := ""
			if j < len(row) {
				value = row[j]
			}
			cells[j] = renderCell(value, col, rowStyle)
		}
		b.WriteString("\n")
		b.WriteString(strings.Join(cells, "│"))
	}

	return t.borderStyle.Render(b.String())
}

func renderCell(content string, col TableColumn, s lipgloss.Style) string {
	runes := []rune(content)
	if len(runes) > col.Width {
		if col.Width > 1 {
			content = string(runes[:col.Width-1]) + "…"
		} else {
			content = string(runes[:col.Width])
		}
	}
	// Width includes the one-cell padding on each side.
	return s.Width(col.Width + 2).Align(col.Align).Render(content)
}
