package sheet

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/sheetkit/internal/motion"
)

// StateMachine is the single authority over the sheet's vertical offset.
//
// Offsets are measured from the host top to the sheet top. Three resting
// positions exist: open (host - expanded), collapsed (host - collapsed) and
// parked (2 * (host - collapsed)), which keeps a hidden sheet off-screen.
// The logical State is always derived from the offset.
//
// Only one transition runs at a time. A new request cancels the running one
// and starts from the interrupted offset. Pending completion callbacks of the
// cancelled transition receive finished=false; observers are only notified
// about transitions that finish.
type StateMachine struct {
	cfg      Config
	log      *logrus.Entry
	tl       *motion.Timeline
	backdrop *Backdrop
	header   *Header

	host      float64
	collapsed float64
	expanded  float64
	offset    float64

	dragging  bool
	dragAccum float64

	anim    *motion.Transition
	plan    transition
	pending []func(finished bool)

	observers []*subscription
	onOffset  func(offset float64)
	onRest    func(s State)
}

// transition describes the move currently in flight.
type transition struct {
	target   State
	duration time.Duration
	emit     bool
}

type subscription struct {
	o Observer
}

// NewStateMachine validates cfg and returns a machine parked off-screen with
// a zero host height. Call SetHostHeight before presenting.
func NewStateMachine(cfg Config, tl *motion.Timeline, log *logrus.Entry) (*StateMachine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tl == nil {
		tl = motion.NewTimeline(nil)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	m := &StateMachine{
		cfg:       cfg,
		log:       log,
		tl:        tl,
		collapsed: cfg.CollapsedHeight,
		expanded:  cfg.CollapsedHeight,
	}
	m.backdrop = newBackdrop(tl, cfg.FadeDuration, log)
	m.backdrop.onTap = func() { m.Toggle(true) }
	m.header = newHeader(cfg, tl)
	m.offset = m.ParkedOffset()
	return m, nil
}

// Config returns the configuration the machine was built with.
func (m *StateMachine) Config() Config { return m.cfg }

// Backdrop returns the backdrop driven by this machine.
func (m *StateMachine) Backdrop() *Backdrop { return m.backdrop }

// Header returns the header whose arrow this machine flips.
func (m *StateMachine) Header() *Header { return m.header }

// Offset is the current distance from the host top to the sheet top.
func (m *StateMachine) Offset() float64 { return m.offset }

// HostHeight is the usable height of the host surface.
func (m *StateMachine) HostHeight() float64 { return m.host }

// CollapsedHeight is the height shown while collapsed.
func (m *StateMachine) CollapsedHeight() float64 { return m.collapsed }

// ExpandedHeight is the height shown while open.
func (m *StateMachine) ExpandedHeight() float64 { return m.expanded }

// Dragging reports whether a drag gesture is in progress.
func (m *StateMachine) Dragging() bool { return m.dragging }

// DragAccumulator is the total delta applied by the current drag gesture.
func (m *StateMachine) DragAccumulator() float64 { return m.dragAccum }

// Animating reports whether a transition is in flight.
func (m *StateMachine) Animating() bool { return m.anim != nil && m.anim.Running() }

// OpenOffset is the resting offset of a fully open sheet.
func (m *StateMachine) OpenOffset() float64 { return m.host - m.expanded }

// CollapsedOffset is the resting offset of a collapsed sheet.
func (m *StateMachine) CollapsedOffset() float64 { return m.host - m.collapsed }

// ParkedOffset is the off-screen resting offset of a hidden sheet.
func (m *StateMachine) ParkedOffset() float64 { return 2 * (m.host - m.collapsed) }

// VisibleFraction is the visible part of the expanded height. It is negative
// while the sheet is parked.
func (m *StateMachine) VisibleFraction() float64 {
	if m.expanded == 0 {
		return 0
	}
	return (m.host - m.offset) / m.expanded
}

// IsOpen applies the open threshold to the current offset.
func (m *StateMachine) IsOpen() bool {
	return (m.host - m.offset) > m.cfg.OpenThreshold*m.expanded
}

// State derives the logical state from the current offset.
func (m *StateMachine) State() State {
	switch {
	case m.offset >= m.host || m.offset >= m.ParkedOffset():
		return Hidden
	case m.IsOpen():
		return Open
	default:
		return Collapsed
	}
}

// intendedState is the target of the running transition, or State when idle.
func (m *StateMachine) intendedState() State {
	if m.anim != nil {
		return m.plan.target
	}
	return m.State()
}

// Subscribe registers o for state change events and returns a function
// removing it again. A nil observer is ignored.
func (m *StateMachine) Subscribe(o Observer) (unsubscribe func()) {
	if o == nil {
		return func() {}
	}
	sub := &subscription{o: o}
	m.observers = append(m.observers, sub)
	return func() {
		for i, s := range m.observers {
			if s == sub {
				m.observers = append(m.observers[:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// SetHostHeight re-measures the host. A resting sheet snaps to the matching
// resting position for the new geometry; a running transition is retargeted.
func (m *StateMachine) SetHostHeight(h float64) {
	s := m.intendedState()
	m.host = h
	m.refit(s)
}

// setExpandedHeight applies a new content height. A hidden sheet is parked
// again; a visible one snaps instantly to its state's new resting offset.
func (m *StateMachine) setExpandedHeight(e float64) {
	s := m.intendedState()
	m.expanded = max(e, m.collapsed)
	if s == Hidden && m.anim == nil && !m.dragging {
		m.Reset()
		return
	}
	m.refit(s)
}

func (m *StateMachine) refit(s State) {
	switch {
	case m.dragging:
		m.setOffset(m.offset)
	case m.anim != nil:
		m.retarget()
	default:
		m.setOffset(m.restingOffset(s))
	}
}

// Present reveals a hidden sheet: Embedded sheets rise to collapsed, Overlay
// sheets straight to open. onDone receives finished=false when the reveal is
// interrupted. Presenting a sheet that is already revealed completes at once,
// or together with the transition already heading to a visible state.
func (m *StateMachine) Present(onDone func(finished bool)) {
	if m.intendedState() != Hidden {
		switch {
		case onDone == nil:
		case m.anim != nil:
			m.pending = append(m.pending, onDone)
		default:
			onDone(true)
		}
		return
	}
	target := Collapsed
	if m.cfg.Variant == Overlay {
		target = Open
	}
	if m.anim == nil {
		m.setOffset(m.ParkedOffset())
	}
	m.dragging = false
	m.dragAccum = 0
	m.transitionTo(transition{target: target, duration: m.cfg.ToggleDuration, emit: target == Open}, onDone)
}

// BeginDrag starts a gesture. Any running transition is cancelled so the
// sheet follows the finger from where it is.
func (m *StateMachine) BeginDrag() {
	m.interrupt()
	m.dragging = true
	m.dragAccum = 0
}

// UpdateDrag moves the sheet by dy immediately, clamped between the open and
// parked offsets. It begins a drag implicitly.
func (m *StateMachine) UpdateDrag(dy float64) {
	if !m.dragging {
		m.BeginDrag()
	}
	m.dragAccum += dy
	m.setOffset(m.offset + dy)
}

// EndDrag snaps the sheet based on the visible fraction of the expanded
// height: above the open threshold it opens; an Overlay sheet below the
// dismiss threshold is dismissed; anything else collapses.
func (m *StateMachine) EndDrag() {
	if !m.dragging {
		return
	}
	m.dragging = false
	m.dragAccum = 0
	frac := m.VisibleFraction()
	switch {
	case frac > m.cfg.OpenThreshold:
		m.transitionTo(transition{target: Open, duration: m.cfg.ToggleDuration, emit: true}, nil)
	case m.cfg.Variant == Overlay && frac < m.cfg.DismissThreshold:
		m.dismiss()
	default:
		m.transitionTo(transition{target: Collapsed, duration: m.cfg.ToggleDuration, emit: true}, nil)
	}
}

// Toggle flips between open and closed without a gesture. With forceClose
// only closing moves happen: an open sheet collapses (Overlay: dismisses), a
// collapsed Overlay sheet is dismissed and anything else stays put.
func (m *StateMachine) Toggle(forceClose bool) {
	m.dragging = false
	m.dragAccum = 0
	s := m.intendedState()
	switch {
	case s == Open && forceClose && m.cfg.Variant == Overlay:
		m.dismiss()
	case s == Open:
		m.transitionTo(transition{target: Collapsed, duration: m.cfg.ToggleDuration, emit: true}, nil)
	case forceClose && s == Collapsed && m.cfg.Variant == Overlay:
		m.dismiss()
	case forceClose:
		m.log.WithField("state", s).Debug("force close ignored; sheet already closed")
	default:
		m.transitionTo(transition{target: Open, duration: m.cfg.ToggleDuration, emit: true}, nil)
	}
}

// Close closes the sheet. Hidden sheets ignore it. Overlay sheets are always
// dismissed. An open Embedded sheet collapses, or is hidden entirely when
// forceClose is set; a collapsed Embedded sheet only moves with forceClose.
func (m *StateMachine) Close(forceClose bool) {
	s := m.intendedState()
	if s == Hidden {
		return
	}
	m.dragging = false
	m.dragAccum = 0
	switch {
	case m.cfg.Variant == Overlay || forceClose:
		m.dismiss()
	case s == Open:
		m.transitionTo(transition{target: Collapsed, duration: m.cfg.ToggleDuration, emit: true}, nil)
	}
}

// Reset parks the sheet off-screen without animation, removes the backdrop
// and lowers the header arrow. Pending callbacks receive finished=false.
func (m *StateMachine) Reset() {
	m.interrupt()
	m.dragging = false
	m.dragAccum = 0
	m.backdrop.Remove()
	m.header.snap(false)
	m.setOffset(m.ParkedOffset())
}

func (m *StateMachine) dismiss() {
	m.transitionTo(transition{target: Hidden, duration: m.cfg.DismissDuration, emit: true}, nil)
}

func (m *StateMachine) restingOffset(s State) float64 {
	switch s {
	case Open:
		return m.OpenOffset()
	case Collapsed:
		return m.CollapsedOffset()
	default:
		return m.ParkedOffset()
	}
}

func (m *StateMachine) clamp(v float64) float64 {
	lo, hi := m.OpenOffset(), m.ParkedOffset()
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func (m *StateMachine) setOffset(v float64) {
	m.offset = m.clamp(v)
	if m.onOffset != nil {
		m.onOffset(m.offset)
	}
}

// transitionTo replaces any running transition with one heading to p.target.
func (m *StateMachine) transitionTo(p transition, onDone func(bool)) {
	m.interrupt()
	m.applySideEffects(p.target)
	if p.emit {
		m.notifyStart(p.target)
	}
	m.start(p)
	if onDone != nil {
		m.pending = append(m.pending, onDone)
	}
}

func (m *StateMachine) start(p transition) {
	from, to := m.offset, m.restingOffset(p.target)
	m.log.WithFields(logrus.Fields{
		"from":   from,
		"to":     to,
		"target": p.target,
	}).Debug("sheet transition")

	m.plan = p
	var tr *motion.Transition
	tr = m.tl.Start(from, to, p.duration,
		motion.OnStep(m.setOffset),
		motion.OnDone(func(finished bool) {
			if m.anim == tr {
				m.anim = nil
			}
			pending := m.pending
			m.pending = nil
			if finished && p.emit {
				m.notify(eventFor(p.target))
			}
			for _, fn := range pending {
				fn(finished)
			}
			if finished && m.onRest != nil {
				m.onRest(p.target)
			}
		}),
	)
	m.anim = tr
}

// retarget restarts the running transition from the current offset towards
// its target's resting offset for the current geometry, keeping callbacks.
func (m *StateMachine) retarget() {
	p := m.plan
	pending := m.pending
	m.pending = nil
	m.interrupt()
	m.start(p)
	m.pending = pending
}

func (m *StateMachine) interrupt() {
	if m.anim == nil {
		return
	}
	a := m.anim
	m.anim = nil
	a.Cancel()
}

func (m *StateMachine) applySideEffects(target State) {
	m.header.SetUp(target == Open)
	switch {
	case target == Hidden:
		m.backdrop.Hide()
	case m.cfg.Backdrop:
		m.backdrop.Show()
	}
}

func (m *StateMachine) notifyStart(target State) {
	for _, sub := range append([]*subscription(nil), m.observers...) {
		to, ok := sub.o.(TransitionObserver)
		if !ok {
			continue
		}
		if target == Open {
			to.OnOpening()
		} else {
			to.OnClosing()
		}
	}
}

func (m *StateMachine) notify(e Event) {
	for _, sub := range append([]*subscription(nil), m.observers...) {
		sub.o.OnStateChange(e)
	}
}

func eventFor(s State) Event {
	if s == Open {
		return EventOpen
	}
	return EventDismiss
}
