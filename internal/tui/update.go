package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn
	var cmd tea.Cmd
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.layout()

	case tea.KeyMsg:
		m, cmd = m.handleKey(x)

	case tea.MouseMsg:
		m.handleMouse(x)

	case frameMsg:
		m.pres.Advance(time.Time(x))
		m.ticking = false
	}

	if m.quitting {
		return m, cmd
	}
	m.updateHitMap()
	next := m.nextFrame()
	return m, tea.Batch(cmd, next)
}

// nextFrame schedules a frame tick while animations run. At most one tick is
// in flight at a time.
func (m *Model) nextFrame() tea.Cmd {
	if m.ticking || !m.pres.Animating() {
		return nil
	}
	m.ticking = true
	return m.tick()
}
