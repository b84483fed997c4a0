package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimeline() (*Timeline, *ManualClock) {
	clock := NewManualClock(time.Unix(1_700_000_000, 0))
	return NewTimeline(clock), clock
}

func TestTimeline_TweenReachesTargetAndReportsFinished(t *testing.T) {
	t.Parallel()

	tl, clock := newTestTimeline()
	var steps []float64
	var finished []bool
	tr := tl.Start(0, 100, 250*time.Millisecond,
		WithEase(Linear),
		OnStep(func(v float64) { steps = append(steps, v) }),
		OnDone(func(ok bool) { finished = append(finished, ok) }),
	)

	tl.Advance(clock.Add(125 * time.Millisecond))
	require.Len(t, steps, 1)
	assert.InDelta(t, 50, steps[0], 0.0001)
	assert.True(t, tr.Running())
	assert.Empty(t, finished)

	tl.Advance(clock.Add(200 * time.Millisecond))
	assert.InDelta(t, 100, tr.Value(), 0.0001)
	assert.Equal(t, []bool{true}, finished)
	assert.False(t, tl.Active())

	// Further ticks must not re-deliver completion.
	tl.Advance(clock.Add(time.Second))
	assert.Equal(t, []bool{true}, finished)
}

func TestTimeline_CancelReportsUnfinishedOnce(t *testing.T) {
	t.Parallel()

	tl, clock := newTestTimeline()
	calls := 0
	var got bool
	tr := tl.Start(10, 20, time.Second, OnDone(func(ok bool) {
		calls++
		got = ok
	}))
	tl.Advance(clock.Add(100 * time.Millisecond))

	tr.Cancel()
	tr.Cancel()
	tl.Advance(clock.Add(2 * time.Second))

	assert.Equal(t, 1, calls)
	assert.False(t, got)
	assert.False(t, tr.Running())
	assert.False(t, tl.Active())
}

func TestTimeline_ZeroDurationCompletesOnNextAdvance(t *testing.T) {
	t.Parallel()

	tl, clock := newTestTimeline()
	done := false
	tr := tl.Start(3, 7, 0, OnDone(func(ok bool) { done = ok }))
	assert.False(t, done)

	tl.Advance(clock.Now())
	assert.True(t, done)
	assert.InDelta(t, 7, tr.Value(), 0.0001)
}

func TestTimeline_CallbackMayStartNewTransition(t *testing.T) {
	t.Parallel()

	tl, clock := newTestTimeline()
	var second *Transition
	tl.Start(0, 1, 10*time.Millisecond, OnDone(func(bool) {
		second = tl.Start(1, 2, 10*time.Millisecond)
	}))

	tl.Advance(clock.Add(20 * time.Millisecond))
	require.NotNil(t, second)
	assert.True(t, second.Running())

	tl.Advance(clock.Add(20 * time.Millisecond))
	assert.False(t, second.Running())
	assert.InDelta(t, 2, second.Value(), 0.0001)
}

func TestTimeline_SpringSettlesWithinBound(t *testing.T) {
	t.Parallel()

	tl, clock := newTestTimeline()
	finished := false
	tr := tl.Start(0, 1, 2*time.Second, WithDefaultSpring(), OnDone(func(ok bool) { finished = ok }))

	tl.Advance(clock.Add(50 * time.Millisecond))
	assert.Greater(t, tr.Value(), 0.0)
	assert.True(t, tr.Running())

	for i := 0; i < 200; i++ {
		if !tr.Running() {
			break
		}
		tl.Advance(clock.Add(16 * time.Millisecond))
	}
	assert.True(t, finished)
	assert.InDelta(t, 1, tr.Value(), 0.0001)
}

func TestEaseInOut_Endpoints(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0, EaseInOut(0), 1e-9)
	assert.InDelta(t, 0.5, EaseInOut(0.5), 1e-9)
	assert.InDelta(t, 1, EaseInOut(1), 1e-9)
}
