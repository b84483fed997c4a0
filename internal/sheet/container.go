package sheet

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Measurer reports the laid-out height of a view in host units.
type Measurer interface {
	Measure(v View) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(v View) float64

// Measure implements Measurer.
func (f MeasureFunc) Measure(v View) float64 { return f(v) }

// RowMeasurer measures rendered text in terminal rows.
type RowMeasurer struct{}

// Measure implements Measurer.
func (RowMeasurer) Measure(v View) float64 {
	return float64(lipgloss.Height(v.View()))
}

// Content is one stacked piece of the sheet.
type Content struct {
	View   View
	Origin float64 // distance from the sheet top
	Height float64
}

// Container stacks content under the header and accounts for the expanded
// height. The header is fixed at the top and never counts as content.
type Container struct {
	header    *Header
	collapsed float64
	expanded  float64
	items     []Content
}

func newContainer(header *Header, collapsed float64) *Container {
	return &Container{header: header, collapsed: collapsed, expanded: collapsed}
}

// Header returns the fixed header region.
func (c *Container) Header() *Header { return c.header }

// CollapsedHeight is the height shown while collapsed.
func (c *Container) CollapsedHeight() float64 { return c.collapsed }

// ExpandedHeight is the collapsed height plus every content height added so far.
func (c *Container) ExpandedHeight() float64 { return c.expanded }

// Contents returns a copy of the stacked content.
func (c *Container) Contents() []Content {
	return append([]Content(nil), c.items...)
}

// addContent stacks v below the previous piece and returns the new expanded
// height. Presentation keeps the machine in step with it.
func (c *Container) addContent(v View, measuredHeight float64) (float64, error) {
	if v == nil {
		return c.expanded, fmt.Errorf("%w: nil view", ErrInvalidContent)
	}
	if measuredHeight < 0 || math.IsNaN(measuredHeight) || math.IsInf(measuredHeight, 0) {
		return c.expanded, fmt.Errorf("%w: height %v", ErrInvalidContent, measuredHeight)
	}
	origin := c.header.Height()
	if n := len(c.items); n > 0 {
		last := c.items[n-1]
		origin = last.Origin + last.Height
	}
	c.items = append(c.items, Content{View: v, Origin: origin, Height: measuredHeight})
	c.expanded += measuredHeight
	return c.expanded, nil
}

// clear drops all content, shrinking the expanded height back to collapsed.
func (c *Container) clear() {
	c.items = nil
	c.expanded = c.collapsed
}

var sheetStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder(), true, true, false, true).
	BorderForeground(lipgloss.Color("63"))

// View renders the header and every content piece, each clipped or padded to
// its measured height in rows, inside a border open at the bottom.
func (c *Container) View(width int) string {
	inner := max(width-sheetStyle.GetHorizontalFrameSize(), 1)
	parts := []string{c.header.View(inner)}
	for _, it := range c.items {
		rows := int(math.Round(it.Height))
		if rows == 0 {
			continue
		}
		parts = append(parts, fitRows(it.View.View(), rows))
	}
	return sheetStyle.Width(inner).Render(strings.Join(parts, "\n"))
}

func fitRows(s string, rows int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
