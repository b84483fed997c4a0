package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/sheetkit/internal/gesture"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.pres.Detach()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()

	case key.Matches(msg, m.keys.Toggle):
		err = m.pres.Toggle(false)

	case key.Matches(msg, m.keys.Present):
		m.present()

	case key.Matches(msg, m.keys.Force):
		err = m.pres.Toggle(true)

	case key.Matches(msg, m.keys.Close):
		err = m.pres.Close(false)

	case key.Matches(msg, m.keys.Reset):
		err = m.pres.Reset()
		m.events.add("reset")

	case key.Matches(msg, m.keys.Add):
		m.notes++
		_, err = m.pres.AddMeasuredContent(noteView(fmt.Sprintf("  note %d", m.notes)), 1)

	case key.Matches(msg, m.keys.Clear):
		err = m.clearNotes()

	case key.Matches(msg, m.keys.Up):
		m.rows.CursorUp()

	case key.Matches(msg, m.keys.Down):
		m.rows.CursorDown()
	}
	if err != nil {
		m.log.WithError(err).Warn("sheet action failed")
	}
	return m, nil
}

// handleMouse feeds the gesture handler and forwards drags and taps to the sheet.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	a := m.mouse.HandleMouse(msg)
	switch a.Type { //nolint:exhaustive // Hover is not used.
	case gesture.ActionDrag:
		if a.Phase == gesture.Began {
			m.pres.BeginDrag()
		}
		m.pres.UpdateDrag(float64(a.DragDY))

	case gesture.ActionDragEnd:
		m.pres.EndDrag()

	case gesture.ActionClick:
		switch a.Region.ID {
		case regionHeader:
			m.pres.TapHeader()
		case regionBackdrop:
			m.pres.TapBackdrop()
		case regionRows:
			if i := msg.Y - a.Region.Rect.Y; i >= 0 && i < len(m.rows.Items()) {
				m.rows.Select(i)
			}
		}

	case gesture.ActionScrollUp:
		if a.Region != nil && a.Region.ID == regionSheet {
			m.rows.CursorUp()
		}

	case gesture.ActionScrollDown:
		if a.Region != nil && a.Region.ID == regionSheet {
			m.rows.CursorDown()
		}
	}
}

// layout recomputes the usable host height and widths after a resize or a
// footer change, configuring the presentation on first use.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.help.Width = m.width
	m.progress.Width = max(m.width/3, 1)
	m.rows.SetWidth(max(m.width-sheetFrameCols-listInset, 1))
	m.host.usable = float64(max(m.height-lipgloss.Height(m.renderFooter()), minUsableRows))

	if !m.configured {
		if err := m.pres.Configure(m.host); err != nil {
			m.log.WithError(err).Warn("configure sheet")
			return
		}
		m.configured = true
		if m.autoPresent {
			m.present()
		}
		return
	}
	if err := m.pres.Resize(); err != nil {
		m.log.WithError(err).Warn("resize sheet")
	}
}

// clearNotes drops the notes added at runtime by clearing the sheet and
// stacking the row list again. The sheet is reset, so it is presented anew.
func (m *Model) clearNotes() error {
	if err := m.pres.ClearContent(); err != nil {
		return err
	}
	m.notes = 0
	if err := m.addRows(); err != nil {
		return err
	}
	m.events.add("content cleared")
	m.present()
	return nil
}

func (m *Model) present() {
	events := m.events
	err := m.pres.Present(func(finished bool) {
		events.add(fmt.Sprintf("present finished=%t", finished))
	})
	if err != nil {
		m.log.WithError(err).Warn("present sheet")
	}
}

// updateHitMap rebuilds the mouse regions from the current frame.
func (m Model) updateHitMap() {
	hm := m.mouse.HitMap
	hm.Clear()
	f := m.pres.Frame()
	usable := int(m.host.usable)
	if f.Backdrop {
		hm.AddRect(regionBackdrop, 0, 0, m.width, usable, nil)
	}
	if !f.Mounted {
		return
	}
	top := int(math.Round(f.SheetOffset))
	if top >= usable {
		return
	}
	hm.AddRect(regionSheet, 0, top, m.width, usable-top, nil)
	for _, c := range m.pres.Container().Contents() {
		if _, ok := c.View.(listView); !ok {
			continue
		}
		y := top + int(math.Round(c.Origin))
		hm.AddRect(regionRows, 0, y, m.width, min(int(math.Round(c.Height)), usable-y), nil)
	}
	header := int(m.pres.Container().Header().Height())
	hm.AddRect(regionHeader, 0, top, m.width, min(header, usable-top), nil)
}
