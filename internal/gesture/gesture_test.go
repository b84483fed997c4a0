package gesture

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func move(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestRectContains(t *testing.T) {
	t.Parallel()

	r := Rect{X: 10, Y: 10, W: 20, H: 10}
	cases := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{29, 19, true},
		{15, 15, true},
		{9, 10, false},
		{30, 10, false},
		{10, 9, false},
		{10, 20, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, r.Contains(tc.x, tc.y), "(%d,%d)", tc.x, tc.y)
	}
}

func TestHitMap_LaterRegionsWin(t *testing.T) {
	t.Parallel()

	hm := NewHitMap()
	hm.AddRect("backdrop", 0, 0, 80, 24, nil)
	hm.AddRect("sheet", 0, 14, 80, 10, nil)
	hm.AddRect("header", 0, 14, 80, 3, "arrow")
	hm.AddRect("empty", 0, 0, 0, 5, nil)

	require.Len(t, hm.Regions(), 3)
	assert.Equal(t, "header", hm.Test(5, 15).ID)
	assert.Equal(t, "arrow", hm.Test(5, 15).Data)
	assert.Equal(t, "sheet", hm.Test(5, 20).ID)
	assert.Equal(t, "backdrop", hm.Test(5, 2).ID)
	assert.Nil(t, hm.Test(90, 2))

	hm.Clear()
	assert.Empty(t, hm.Regions())
	assert.Nil(t, hm.Test(5, 15))
}

func TestHandler_ClickWithoutMotion(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	h.HitMap.AddRect("backdrop", 0, 0, 80, 24, nil)
	h.SetDraggable("sheet")

	assert.Equal(t, ActionNone, h.HandleMouse(press(3, 3)).Type)
	a := h.HandleMouse(release(3, 3))
	assert.Equal(t, ActionClick, a.Type)
	require.NotNil(t, a.Region)
	assert.Equal(t, "backdrop", a.Region.ID)

	// Motion on a non-draggable region is swallowed and the release stays a click.
	h.HandleMouse(press(3, 3))
	assert.Equal(t, ActionNone, h.HandleMouse(move(3, 5)).Type)
	assert.Equal(t, ActionClick, h.HandleMouse(release(3, 3)).Type)

	// Releasing somewhere else cancels the click.
	h.HandleMouse(press(3, 3))
	h.HitMap.AddRect("sheet", 0, 10, 80, 14, nil)
	assert.Equal(t, ActionNone, h.HandleMouse(release(3, 12)).Type)
}

func TestHandler_DragPhases(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	h.HitMap.AddRect("sheet", 0, 10, 80, 14, nil)
	h.SetDraggable("sheet")

	h.HandleMouse(press(5, 12))
	assert.False(t, h.IsDragging())
	assert.Equal(t, "sheet", h.DragRegion())

	a := h.HandleMouse(move(5, 9))
	assert.Equal(t, ActionDrag, a.Type)
	assert.Equal(t, Began, a.Phase)
	assert.Equal(t, -3, a.DragDY)
	assert.True(t, h.IsDragging())

	assert.Equal(t, ActionNone, h.HandleMouse(move(6, 9)).Type)

	a = h.HandleMouse(move(5, 4))
	assert.Equal(t, Changed, a.Phase)
	assert.Equal(t, -5, a.DragDY)
	assert.Equal(t, -8, a.DragTotal)

	// Releasing outside the region still ends the drag.
	a = h.HandleMouse(release(5, 2))
	assert.Equal(t, ActionDragEnd, a.Type)
	assert.Equal(t, Ended, a.Phase)
	assert.Equal(t, -8, a.DragTotal)
	require.NotNil(t, a.Region)
	assert.Equal(t, "sheet", a.Region.ID)
	assert.False(t, h.IsDragging())
}

func TestHandler_WheelAndHover(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	h.HitMap.AddRect("sheet", 0, 0, 10, 10, nil)

	up := h.HandleMouse(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, ActionScrollUp, up.Type)
	assert.Equal(t, "sheet", up.Region.ID)

	down := h.HandleMouse(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, ActionScrollDown, down.Type)

	hover := h.HandleMouse(tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionMotion})
	assert.Equal(t, ActionHover, hover.Type)
	assert.Equal(t, "hover", hover.Type.String())
}
