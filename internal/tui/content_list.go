package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// rowItem is the list item backing one row of sheet content.
type rowItem struct {
	Index int
	Label string
}

// List item interface methods.
func (it rowItem) Title() string       { return it.Label }
func (it rowItem) Description() string { return "" }
func (it rowItem) FilterValue() string { return it.Label }

// rowDelegate renders rowItem rows with a selection marker and a right-aligned index.
type rowDelegate struct{}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(rowItem)
	if !ok {
		return
	}
	selected := index == m.Index()
	leftPrefix := "  "
	lineStyle := lipgloss.NewStyle()
	if selected {
		leftPrefix = "> "
		lineStyle = lineStyle.Foreground(lipgloss.Color("69")).Bold(true)
	}

	left := leftPrefix + it.Label
	right := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(fmt.Sprintf("#%d", it.Index+1))

	padding := m.Width() - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	_, _ = fmt.Fprint(w, lineStyle.Render(left)+spaces(padding)+right)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(n).Render("")
}
