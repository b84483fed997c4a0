// Package gesture turns raw terminal mouse events into hits and vertical drag
// gestures in host rows.
//
// A Handler owns a HitMap that the view rebuilds on every render. A press on
// a draggable region followed by motion becomes a drag reported as
// began/changed/ended with per-event row deltas; a press and release without
// motion is a click on the region under the pointer.
package gesture

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a screen rectangle in cells. W and H are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit target.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap resolves screen cells to regions. Regions added later win.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty map.
func NewHitMap() *HitMap { return &HitMap{} }

// AddRect registers a region. Empty rectangles are ignored.
func (m *HitMap) AddRect(id string, x, y, w, h int, data any) {
	if w <= 0 || h <= 0 {
		return
	}
	m.regions = append(m.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h}, Data: data})
}

// Test returns the topmost region containing (x, y), or nil.
func (m *HitMap) Test(x, y int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].Rect.Contains(x, y) {
			r := m.regions[i]
			return &r
		}
	}
	return nil
}

// Regions returns the registered regions in insertion order.
func (m *HitMap) Regions() []Region {
	return append([]Region(nil), m.regions...)
}

// Clear removes every region.
func (m *HitMap) Clear() { m.regions = m.regions[:0] }

// ActionType classifies the outcome of a mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionDrag
	ActionDragEnd
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionHover:
		return "hover"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	case ActionDrag:
		return "drag"
	case ActionDragEnd:
		return "drag-end"
	default:
		return "none"
	}
}

// Phase is the stage of a drag gesture.
type Phase int

const (
	Began Phase = iota
	Changed
	Ended
)

// Action is what a single mouse event amounted to.
type Action struct {
	Type   ActionType
	Region *Region
	// Phase, DragDY and DragTotal are set for ActionDrag and ActionDragEnd.
	// DragDY is the row delta since the previous drag event.
	Phase     Phase
	DragDY    int
	DragTotal int
}

// Handler tracks press, drag and release across mouse events.
type Handler struct {
	HitMap *HitMap

	draggable map[string]bool

	pressed  bool
	pressID  string
	pressY   int
	lastY    int
	dragging bool
}

// NewHandler returns a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap(), draggable: map[string]bool{}}
}

// SetDraggable marks the regions that start drag gestures when pressed.
func (h *Handler) SetDraggable(ids ...string) {
	h.draggable = make(map[string]bool, len(ids))
	for _, id := range ids {
		h.draggable[id] = true
	}
}

// IsDragging reports whether a drag gesture is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion is the region the current press or drag started on.
func (h *Handler) DragRegion() string { return h.pressID }

// EndDrag forgets any press or drag in progress.
func (h *Handler) EndDrag() {
	h.pressed = false
	h.dragging = false
	h.pressID = ""
}

// HandleMouse classifies msg.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	switch msg.Action {
	case tea.MouseActionPress:
		return h.press(msg)
	case tea.MouseActionMotion:
		return h.motion(msg)
	case tea.MouseActionRelease:
		return h.release(msg)
	default:
		return Action{}
	}
}

func (h *Handler) press(msg tea.MouseMsg) Action {
	switch msg.Button { //nolint:exhaustive // Only left button and wheel are meaningful.
	case tea.MouseButtonWheelUp:
		return Action{Type: ActionScrollUp, Region: h.HitMap.Test(msg.X, msg.Y)}
	case tea.MouseButtonWheelDown:
		return Action{Type: ActionScrollDown, Region: h.HitMap.Test(msg.X, msg.Y)}
	case tea.MouseButtonLeft:
	default:
		return Action{}
	}
	h.EndDrag()
	h.pressed = true
	h.pressY = msg.Y
	h.lastY = msg.Y
	if r := h.HitMap.Test(msg.X, msg.Y); r != nil {
		h.pressID = r.ID
	}
	return Action{}
}

func (h *Handler) motion(msg tea.MouseMsg) Action {
	if !h.pressed {
		return Action{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y)}
	}
	if !h.dragging && !h.draggable[h.pressID] {
		return Action{}
	}
	dy := msg.Y - h.lastY
	if dy == 0 {
		return Action{}
	}
	phase := Changed
	if !h.dragging {
		phase = Began
		h.dragging = true
	}
	h.lastY = msg.Y
	return Action{
		Type:      ActionDrag,
		Region:    h.region(h.pressID),
		Phase:     phase,
		DragDY:    dy,
		DragTotal: msg.Y - h.pressY,
	}
}

func (h *Handler) release(msg tea.MouseMsg) Action {
	if !h.pressed {
		return Action{}
	}
	defer h.EndDrag()
	if h.dragging {
		return Action{
			Type:      ActionDragEnd,
			Region:    h.region(h.pressID),
			Phase:     Ended,
			DragTotal: h.lastY - h.pressY,
		}
	}
	r := h.HitMap.Test(msg.X, msg.Y)
	if r == nil || r.ID != h.pressID {
		return Action{}
	}
	return Action{Type: ActionClick, Region: r}
}

func (h *Handler) region(id string) *Region {
	for _, r := range h.HitMap.regions {
		if r.ID == id {
			return &r
		}
	}
	return &Region{ID: id}
}
