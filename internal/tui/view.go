package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ensigniasec/sheetkit/internal/sheet"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	stateStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	usable := int(m.host.usable)
	f := m.pres.Frame()
	page := renderPage(m, usable)
	body := composite(page, m.sheetLines(f, usable), f, m.width)
	return body + "\n" + m.renderFooter()
}

// renderPage draws the host content behind the sheet: a banner and the
// observer event log.
func renderPage(m Model, rows int) []string {
	lines := []string{
		titleStyle.Render("sheetkit"),
		mutedStyle.Render(fmt.Sprintf("variant %s • session %s", m.pres.Config().Variant, m.pres.ID())),
		"",
		"Drag the sheet by its header or body. Click the arrow to toggle it,",
		"click the dimmed backdrop to close an open sheet.",
		"",
		"Events:",
	}
	for _, e := range m.events.entries {
		lines = append(lines, "  "+e)
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return lines
}

// sheetLines returns the visible rows of the sheet, from its top edge to the
// bottom of the host, padded with empty bordered rows.
func (m Model) sheetLines(f sheet.Frame, usable int) []string {
	if !f.Mounted {
		return nil
	}
	top := int(math.Round(f.SheetOffset))
	visible := usable - top
	if visible <= 0 {
		return nil
	}
	lines := strings.Split(m.pres.View(m.width), "\n")
	if top < 0 {
		if -top >= len(lines) {
			lines = nil
		} else {
			lines = lines[-top:]
		}
		visible = usable
	}
	pad := borderStyle.Render("│") + strings.Repeat(" ", max(m.width-sheetFrameCols, 0)) + borderStyle.Render("│")
	for len(lines) < visible {
		lines = append(lines, pad)
	}
	return lines[:visible]
}

// composite lays the sheet over the page. Rows above the sheet are dimmed
// by the backdrop alpha while a backdrop is attached.
func composite(page, sheetRows []string, f sheet.Frame, width int) string {
	start := len(page) - len(sheetRows)
	out := make([]string, 0, len(page))
	for y, line := range page {
		if y >= start {
			out = append(out, ansi.Truncate(sheetRows[y-start], width, ""))
			continue
		}
		if f.Backdrop {
			line = dimLine(line, f.BackdropAlpha)
		}
		out = append(out, ansi.Truncate(line, width, ""))
	}
	return strings.Join(out, "\n")
}

// dimLine strips ANSI codes and renders s in the page colour blended towards
// the backdrop colour.
func dimLine(s string, alpha float64) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(dimColor(alpha))).Render(ansi.Strip(s))
}

func dimColor(alpha float64) string {
	base, _ := colorful.Hex(pageForeground)
	dark, _ := colorful.Hex(backdropColor)
	alpha = math.Max(0, math.Min(1, alpha))
	return base.BlendRgb(dark, alpha*backdropStrength).Hex()
}

func (m Model) renderFooter() string {
	f := m.pres.Frame()
	frac := math.Max(0, math.Min(1, f.VisibleFraction))
	status := fmt.Sprintf("%s %s %3.0f%%  offset %.1f",
		stateStyle.Render(strings.ToUpper(f.State.String())),
		m.progress.ViewAs(frac),
		frac*100,
		f.SheetOffset,
	)
	if m.mouse.IsDragging() {
		status += "  dragging " + m.mouse.DragRegion()
	}
	return status + "\n" + m.help.View(m.keys)
}
