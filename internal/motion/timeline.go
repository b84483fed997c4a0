// Package motion runs interruptible, time-based value transitions.
//
// A Timeline never spawns goroutines: the owner calls Advance from its UI
// loop (for Bubble Tea, on every frame tick) and step and completion
// callbacks run synchronously inside that call.
package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Ease maps linear progress in [0,1] to eased progress in [0,1].
type Ease func(t float64) float64

// Linear is the identity curve.
func Linear(t float64) float64 { return t }

// EaseInOut is a cubic ease-in-out curve, close to the default curve used by
// mobile toolkits for sheet transitions.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := 2*t - 2
	return 0.5*f*f*f + 1
}

// Clock abstracts the time source so tests can drive transitions deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock returns a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time { return c.now }

// Add moves the clock forward by d and returns the new time.
func (c *ManualClock) Add(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

const (
	springFPS        = 60
	springEpsilon    = 0.001
	defaultFrequency = 7.0
	defaultDamping   = 0.75
)

// Option configures a Transition at start.
type Option func(*Transition)

// WithEase sets the tween curve. Ignored for spring transitions.
func WithEase(e Ease) Option {
	return func(tr *Transition) { tr.ease = e }
}

// WithSpring drives the transition with a damped harmonica spring instead of a
// fixed curve. The transition duration becomes an upper bound: once it elapses
// the value snaps to the target and the transition completes.
func WithSpring(angularFrequency, damping float64) Option {
	return func(tr *Transition) {
		s := harmonica.NewSpring(harmonica.FPS(springFPS), angularFrequency, damping)
		tr.spring = &s
	}
}

// WithDefaultSpring is WithSpring with a gently under-damped setting.
func WithDefaultSpring() Option {
	return WithSpring(defaultFrequency, defaultDamping)
}

// OnStep registers a callback receiving every intermediate value.
func OnStep(fn func(v float64)) Option {
	return func(tr *Transition) { tr.step = fn }
}

// OnDone registers the completion callback. finished reports whether the
// transition reached its target naturally (true) or was cancelled (false).
// It is invoked exactly once.
func OnDone(fn func(finished bool)) Option {
	return func(tr *Transition) { tr.done = fn }
}

// Transition is a single in-flight value animation.
type Transition struct {
	tl       *Timeline
	from, to float64
	start    time.Time
	lastStep time.Time
	duration time.Duration
	ease     Ease
	spring   *harmonica.Spring
	velocity float64
	value    float64
	step     func(float64)
	done     func(bool)
	settled  bool
}

// Value is the most recently computed value.
func (tr *Transition) Value() float64 { return tr.value }

// Target is the value the transition is heading to.
func (tr *Transition) Target() float64 { return tr.to }

// Running reports whether the transition has neither finished nor been cancelled.
func (tr *Transition) Running() bool { return !tr.settled }

// Cancel stops the transition where it is and reports finished=false.
// Cancelling a settled transition is a no-op.
func (tr *Transition) Cancel() {
	if tr.settled {
		return
	}
	tr.tl.remove(tr)
	tr.settle(false)
}

func (tr *Transition) settle(finished bool) {
	tr.settled = true
	if tr.done != nil {
		done := tr.done
		tr.done = nil
		done(finished)
	}
}

// sample computes the value at now and whether the transition is complete.
func (tr *Transition) sample(now time.Time) (float64, bool) {
	elapsed := now.Sub(tr.start)
	if elapsed >= tr.duration {
		return tr.to, true
	}
	if tr.spring != nil {
		frame := time.Second / springFPS
		for !tr.lastStep.Add(frame).After(now) {
			tr.value, tr.velocity = tr.spring.Update(tr.value, tr.velocity, tr.to)
			tr.lastStep = tr.lastStep.Add(frame)
		}
		if math.Abs(tr.value-tr.to) < springEpsilon && math.Abs(tr.velocity) < springEpsilon {
			return tr.to, true
		}
		return tr.value, false
	}
	p := float64(elapsed) / float64(tr.duration)
	return tr.from + (tr.to-tr.from)*tr.ease(p), false
}

// Timeline owns the set of running transitions.
type Timeline struct {
	clock  Clock
	active []*Transition
}

// NewTimeline creates a timeline reading time from clock. A nil clock means SystemClock.
func NewTimeline(clock Clock) *Timeline {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Timeline{clock: clock}
}

// Clock returns the timeline's time source.
func (t *Timeline) Clock() Clock { return t.clock }

// Start begins a transition from -> to over d. A non-positive duration
// completes on the next Advance.
func (t *Timeline) Start(from, to float64, d time.Duration, opts ...Option) *Transition {
	now := t.clock.Now()
	tr := &Transition{
		tl:       t,
		from:     from,
		to:       to,
		start:    now,
		lastStep: now,
		duration: d,
		ease:     EaseInOut,
		value:    from,
	}
	for _, opt := range opts {
		opt(tr)
	}
	t.active = append(t.active, tr)
	return tr
}

// Active reports whether any transition is running.
func (t *Timeline) Active() bool { return len(t.active) > 0 }

// Advance samples every running transition at now, calling step callbacks and
// completing transitions that reached their target. Callbacks may start or
// cancel transitions; those take effect from the next Advance.
func (t *Timeline) Advance(now time.Time) {
	running := append([]*Transition(nil), t.active...)
	for _, tr := range running {
		if tr.settled {
			continue
		}
		v, complete := tr.sample(now)
		tr.value = v
		if tr.step != nil {
			tr.step(v)
		}
		if complete && !tr.settled {
			t.remove(tr)
			tr.settle(true)
		}
	}
}

// Tick advances the timeline to the clock's current time.
func (t *Timeline) Tick() { t.Advance(t.clock.Now()) }

func (t *Timeline) remove(tr *Transition) {
	for i, a := range t.active {
		if a == tr {
			t.active = append(t.active[:i], t.active[i+1:]...)
			return
		}
	}
}
