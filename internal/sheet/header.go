package sheet

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ensigniasec/sheetkit/internal/motion"
)

// HeaderMetrics sizes the parts of the header in host units.
type HeaderMetrics struct {
	MinHeight     float64 `validate:"gte=0"`
	ArrowHeight   float64 `validate:"gte=0"`
	HandleHeight  float64 `validate:"gte=0"`
	HandleMargin  float64 `validate:"gte=0"`
	TitleGap      float64 `validate:"gte=0"`
	TitleHeight   float64 `validate:"gte=0"`
	DividerHeight float64 `validate:"gte=0"`
}

//nolint:gochecknoglobals // Read-only presets.
var (
	// PointMetrics mirrors a touch layout measured in points.
	PointMetrics = HeaderMetrics{
		MinHeight:     17,
		ArrowHeight:   50,
		HandleHeight:  6,
		HandleMargin:  16,
		TitleGap:      1,
		TitleHeight:   19,
		DividerHeight: 5,
	}
	// CellMetrics lays the header out in terminal rows, one row per part.
	// MinHeight covers the top border row drawn by the container.
	CellMetrics = HeaderMetrics{
		MinHeight:     1,
		ArrowHeight:   1,
		HandleHeight:  1,
		TitleHeight:   1,
		DividerHeight: 1,
	}
)

const (
	arrowClosed = "⌃"
	arrowTurn   = "›"
	arrowOpen   = "⌄"
	handleGlyph = "▬▬▬▬"
)

// Header is the fixed top region of the sheet: a toggle arrow (Embedded) or a
// grab handle (Overlay), an optional title and an optional divider. Besides its
// layout height it only tracks the arrow orientation.
type Header struct {
	metrics HeaderMetrics
	arrow   bool
	title   string
	divider bool

	tl     *motion.Timeline
	spring bool
	isUp   bool
	angle  float64 // 0 = resting (closed), 1 = flipped (open)
	flip   *motion.Transition
}

func newHeader(cfg Config, tl *motion.Timeline) *Header {
	h := &Header{
		metrics: cfg.Header,
		tl:      tl,
		spring:  cfg.SpringHeader,
	}
	if cfg.Variant == Embedded {
		h.arrow = true
		h.title = cfg.Title
		h.divider = true
	}
	return h
}

// Height is the layout height contributed by the header.
func (h *Header) Height() float64 {
	height := h.metrics.MinHeight
	if h.arrow {
		height += h.metrics.ArrowHeight
	} else {
		height += h.metrics.HandleMargin + h.metrics.HandleHeight
	}
	if h.title != "" {
		height += h.metrics.TitleGap + h.metrics.TitleHeight
	}
	if h.divider {
		height += h.metrics.DividerHeight
	}
	return height
}

// HasArrow reports whether the header shows a tappable toggle arrow.
func (h *Header) HasArrow() bool { return h.arrow }

// Title returns the header title, empty for Overlay sheets.
func (h *Header) Title() string { return h.title }

// IsUp reports the flipped orientation, true while the sheet is (becoming) open.
func (h *Header) IsUp() bool { return h.isUp }

// Angle is the animated orientation in [0,1].
func (h *Header) Angle() float64 {
	if h.flip != nil {
		return h.flip.Value()
	}
	return h.angle
}

// SetUp flips the arrow, animating the rotation.
func (h *Header) SetUp(up bool) {
	if h.isUp == up {
		return
	}
	h.isUp = up
	if h.flip != nil {
		h.flip.Cancel()
	}
	target := 0.0
	if up {
		target = 1
	}
	from := h.Angle()
	var tr *motion.Transition
	opts := []motion.Option{
		motion.OnDone(func(bool) {
			h.angle = tr.Value()
			if h.flip == tr {
				h.flip = nil
			}
		}),
	}
	if h.spring {
		opts = append(opts, motion.WithDefaultSpring())
	}
	tr = h.tl.Start(from, target, DefaultToggleDuration, opts...)
	h.flip = tr
}

// snap sets the orientation without animation.
func (h *Header) snap(up bool) {
	if h.flip != nil {
		h.flip.Cancel()
	}
	h.isUp = up
	h.angle = 0
	if up {
		h.angle = 1
	}
}

var (
	headerArrowStyle   = lipgloss.NewStyle().Bold(true)
	headerHandleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	headerTitleStyle   = lipgloss.NewStyle().Bold(true)
	headerDividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// View renders the header centred in width columns. With CellMetrics it
// produces Height()-MinHeight lines; the container border supplies the rest.
func (h *Header) View(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	lines := make([]string, 0, 3)
	if h.arrow {
		lines = append(lines, center.Render(headerArrowStyle.Render(h.arrowGlyph())))
	} else {
		lines = append(lines, center.Render(headerHandleStyle.Render(handleGlyph)))
	}
	if h.title != "" {
		lines = append(lines, center.Render(headerTitleStyle.Render(h.title)))
	}
	if h.divider {
		lines = append(lines, headerDividerStyle.Render(strings.Repeat("─", max(width, 0))))
	}
	return strings.Join(lines, "\n")
}

func (h *Header) arrowGlyph() string {
	switch {
	case h.angle < 1.0/3:
		return arrowClosed
	case h.angle < 2.0/3:
		return arrowTurn
	default:
		return arrowOpen
	}
}
