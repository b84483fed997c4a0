package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/sheetkit/internal/sheet"
)

func TestSimulate_EmbeddedReferenceScenario(t *testing.T) {
	t.Parallel()

	steps, err := simulate(sheet.DefaultConfig(sheet.Embedded), 800, []float64{94}, []float64{-70, 200}, false)
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, "collapsed", steps[0].State)
	assert.InDelta(t, 720, steps[0].Offset, 1e-6)
	assert.Empty(t, steps[0].Events)
	assert.True(t, steps[0].Mounted)

	assert.Equal(t, "open", steps[1].State)
	assert.InDelta(t, 626, steps[1].Offset, 1e-6)
	assert.Equal(t, []string{"open"}, steps[1].Events)

	// Embedded sheets never dismiss on drag.
	assert.Equal(t, "collapsed", steps[2].State)
	assert.InDelta(t, 720, steps[2].Offset, 1e-6)
}

func TestSimulate_OverlayDragDismisses(t *testing.T) {
	t.Parallel()

	steps, err := simulate(sheet.DefaultConfig(sheet.Overlay), 800, []float64{94}, []float64{100}, false)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, "open", steps[0].State)
	assert.InDelta(t, 626, steps[0].Offset, 1e-6)
	assert.Equal(t, []string{"open"}, steps[0].Events)

	assert.Equal(t, "hidden", steps[1].State)
	assert.Equal(t, []string{"dismiss"}, steps[1].Events)
	assert.False(t, steps[1].Mounted)
}

func TestSimulate_ForceClose(t *testing.T) {
	t.Parallel()

	steps, err := simulate(sheet.DefaultConfig(sheet.Embedded), 800, []float64{94}, nil, true)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "close", steps[1].Action)
	assert.Equal(t, "hidden", steps[1].State)
	assert.Equal(t, []string{"dismiss"}, steps[1].Events)
}

func TestPrintSteps(t *testing.T) {
	t.Parallel()

	steps := []Step{{Action: "present", State: "collapsed", Offset: 720, Visible: 0.46}}

	var text bytes.Buffer
	require.NoError(t, printSteps(&text, steps, false))
	assert.Contains(t, text.String(), "SHEET SIMULATION")
	assert.Contains(t, text.String(), "offset=720.0")
	assert.NotContains(t, text.String(), "events=")

	var js bytes.Buffer
	require.NoError(t, printSteps(&js, steps, true))
	assert.Contains(t, js.String(), `"State": "collapsed"`)
}
