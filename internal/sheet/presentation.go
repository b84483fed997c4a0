package sheet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/sheetkit/internal/motion"
)

// Host is the surface a sheet is presented on.
type Host interface {
	// UsableHeight is the height available to the sheet, with any chrome
	// (status bars, footers) already subtracted.
	UsableHeight() float64
	// Mount inserts the sheet's wrapper into the host.
	Mount(p *Presentation)
	// Unmount removes it again.
	Unmount(p *Presentation)
}

// Frame is a snapshot of everything a host needs to draw a presentation.
//
// Embedded sheets use two offsets: the wrapper, which receives hits, and the
// sheet inside it. The wrapper follows the sheet top while no backdrop is
// attached and covers the whole host while one is. Overlay sheets keep the
// wrapper at zero.
type Frame struct {
	Variant       Variant
	Mounted       bool
	HostHeight    float64
	WrapperOffset float64
	// SheetOffset is measured from the host top, not from the wrapper.
	SheetOffset     float64
	State           State
	VisibleFraction float64
	Backdrop        bool
	BackdropAlpha   float64
	HeaderUp        bool
	HeaderAngle     float64
}

// InnerOffset is the sheet offset relative to its wrapper.
func (f Frame) InnerOffset() float64 { return f.SheetOffset - f.WrapperOffset }

type options struct {
	tl       *motion.Timeline
	measurer Measurer
	log      *logrus.Entry
}

// Option configures a Presentation.
type Option func(*options)

// WithTimeline shares an existing timeline, typically one driven by a test clock.
func WithTimeline(tl *motion.Timeline) Option {
	return func(o *options) { o.tl = tl }
}

// WithMeasurer replaces the default RowMeasurer used by AddContent.
func WithMeasurer(m Measurer) Option {
	return func(o *options) { o.measurer = m }
}

// WithLogger sets the parent log entry; session fields are added to it.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// Presentation binds a StateMachine, its Container and Backdrop to a Host.
// It is one sheet session: once detached it cannot be used again.
type Presentation struct {
	id        uuid.UUID
	cfg       Config
	log       *logrus.Entry
	tl        *motion.Timeline
	measurer  Measurer
	machine   *StateMachine
	container *Container

	host     Host
	mounted  bool
	detached bool
	wrapper  float64
}

// New validates cfg and creates a detached-from-host session.
func New(cfg Config, opts ...Option) (*Presentation, error) {
	o := options{measurer: RowMeasurer{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tl == nil {
		o.tl = motion.NewTimeline(nil)
	}
	if o.log == nil {
		o.log = logrus.NewEntry(logrus.StandardLogger())
	}

	id := uuid.New()
	log := o.log.WithFields(logrus.Fields{
		"session": id.String(),
		"variant": cfg.Variant.String(),
	})
	m, err := NewStateMachine(cfg, o.tl, log)
	if err != nil {
		return nil, err
	}

	p := &Presentation{
		id:        id,
		cfg:       cfg,
		log:       log,
		tl:        o.tl,
		measurer:  o.measurer,
		machine:   m,
		container: newContainer(m.Header(), cfg.CollapsedHeight),
	}
	m.onOffset = func(float64) { p.syncWrapper() }
	m.onRest = p.onRest
	m.Backdrop().onAttach = func(bool) { p.syncWrapper() }
	p.syncWrapper()
	log.Debug("sheet session created")
	return p, nil
}

// ID identifies the session in logs.
func (p *Presentation) ID() uuid.UUID { return p.id }

// Config returns the session configuration.
func (p *Presentation) Config() Config { return p.cfg }

// Machine exposes the state machine for read access.
func (p *Presentation) Machine() *StateMachine { return p.machine }

// Container exposes the stacked content.
func (p *Presentation) Container() *Container { return p.container }

// Timeline is the timeline driving this session's animations.
func (p *Presentation) Timeline() *motion.Timeline { return p.tl }

// Mounted reports whether the wrapper is currently inserted into the host.
func (p *Presentation) Mounted() bool { return p.mounted }

// Configure attaches the session to h and measures its usable height.
// Embedded sheets are mounted right away, parked off-screen.
func (p *Presentation) Configure(h Host) error {
	if p.detached {
		return ErrDetached
	}
	if h == nil {
		return fmt.Errorf("%w: nil host", ErrNotConfigured)
	}
	if p.host != nil && p.host != h {
		p.unmount()
	}
	p.host = h
	if err := p.measureHost(); err != nil {
		return err
	}
	if p.cfg.Variant == Embedded {
		p.mount()
	}
	return nil
}

// Resize re-measures the host's usable height.
func (p *Presentation) Resize() error {
	if err := p.usable(); err != nil {
		return err
	}
	return p.measureHost()
}

func (p *Presentation) measureHost() error {
	h := p.host.UsableHeight()
	if h <= 0 {
		return fmt.Errorf("%w: usable height %v", ErrNotConfigured, h)
	}
	p.machine.SetHostHeight(h)
	p.log.WithField("height", h).Debug("host measured")
	return nil
}

// AddContent measures v and stacks it below the existing content.
func (p *Presentation) AddContent(v View) (float64, error) {
	if v == nil {
		return p.container.ExpandedHeight(), fmt.Errorf("%w: nil view", ErrInvalidContent)
	}
	return p.AddMeasuredContent(v, p.measurer.Measure(v))
}

// AddMeasuredContent stacks v with an explicit height and returns the new
// expanded height. A hidden sheet is re-parked; a visible one snaps to the
// resting position of its state for the new height.
func (p *Presentation) AddMeasuredContent(v View, height float64) (float64, error) {
	if p.detached {
		return p.container.ExpandedHeight(), ErrDetached
	}
	expanded, err := p.container.addContent(v, height)
	if err != nil {
		return expanded, err
	}
	p.machine.setExpandedHeight(expanded)
	p.log.WithFields(logrus.Fields{"height": height, "expanded": expanded}).Debug("content added")
	return expanded, nil
}

// Present mounts the sheet if needed and reveals it. onDone is called
// exactly once, with finished=false if the reveal is interrupted.
func (p *Presentation) Present(onDone func(finished bool)) error {
	if err := p.usable(); err != nil {
		return err
	}
	p.mount()
	p.machine.Present(onDone)
	return nil
}

// Close closes the sheet; see StateMachine.Close. Closing a hidden sheet is a no-op.
func (p *Presentation) Close(forceClose bool) error {
	if err := p.usable(); err != nil {
		return err
	}
	p.machine.Close(forceClose)
	return nil
}

// Toggle flips the sheet between open and closed; see StateMachine.Toggle.
// A toggle that may reveal the sheet mounts it first.
func (p *Presentation) Toggle(forceClose bool) error {
	if err := p.usable(); err != nil {
		return err
	}
	p.toggle(forceClose)
	return nil
}

func (p *Presentation) toggle(forceClose bool) {
	if !forceClose {
		p.mount()
	}
	p.machine.Toggle(forceClose)
}

// Reset parks the sheet without animation. Pending completion callbacks
// receive finished=false and an Overlay sheet leaves the display.
func (p *Presentation) Reset() error {
	if err := p.usable(); err != nil {
		return err
	}
	p.reset()
	return nil
}

func (p *Presentation) reset() {
	p.machine.Reset()
	if p.cfg.Variant == Overlay {
		p.unmount()
	}
}

// ClearContent drops every content piece and resets the sheet, since its
// resting positions no longer match what is on screen.
func (p *Presentation) ClearContent() error {
	if err := p.usable(); err != nil {
		return err
	}
	p.container.clear()
	p.machine.setExpandedHeight(p.container.ExpandedHeight())
	p.reset()
	p.log.Debug("content cleared")
	return nil
}

// Subscribe registers an observer for state change events.
func (p *Presentation) Subscribe(o Observer) (unsubscribe func()) {
	return p.machine.Subscribe(o)
}

// BeginDrag starts a drag gesture. Gestures on an unmounted sheet are ignored.
func (p *Presentation) BeginDrag() {
	if p.mounted && !p.detached {
		p.machine.BeginDrag()
	}
}

// UpdateDrag moves the sheet by dy host units.
func (p *Presentation) UpdateDrag(dy float64) {
	if p.mounted && !p.detached {
		p.machine.UpdateDrag(dy)
	}
}

// EndDrag releases the gesture and snaps the sheet.
func (p *Presentation) EndDrag() {
	if p.mounted && !p.detached {
		p.machine.EndDrag()
	}
}

// TapBackdrop forwards a tap on the backdrop. It reports whether the tap was consumed.
func (p *Presentation) TapBackdrop() bool {
	if p.detached {
		return false
	}
	return p.machine.Backdrop().Tap()
}

// TapHeader toggles the sheet when the header carries an arrow. It reports
// whether the tap was consumed.
func (p *Presentation) TapHeader() bool {
	if p.detached || !p.mounted || !p.machine.Header().HasArrow() {
		return false
	}
	p.toggle(false)
	return true
}

// Advance moves every animation of the session to now.
func (p *Presentation) Advance(now time.Time) { p.tl.Advance(now) }

// Animating reports whether any animation of the session is running.
func (p *Presentation) Animating() bool { return p.tl.Active() }

// Detach ends the session: running transitions are cancelled, pending
// completion callbacks receive finished=false and the sheet is unmounted.
func (p *Presentation) Detach() {
	if p.detached {
		return
	}
	p.machine.Reset()
	p.unmount()
	p.detached = true
	p.host = nil
	p.log.Debug("sheet session detached")
}

// Detached reports whether Detach was called.
func (p *Presentation) Detached() bool { return p.detached }

// Frame snapshots the current geometry.
func (p *Presentation) Frame() Frame {
	m := p.machine
	return Frame{
		Variant:         p.cfg.Variant,
		Mounted:         p.mounted,
		HostHeight:      m.HostHeight(),
		WrapperOffset:   p.wrapper,
		SheetOffset:     m.Offset(),
		State:           m.State(),
		VisibleFraction: m.VisibleFraction(),
		Backdrop:        m.Backdrop().Visible(),
		BackdropAlpha:   m.Backdrop().Alpha(),
		HeaderUp:        m.Header().IsUp(),
		HeaderAngle:     m.Header().Angle(),
	}
}

// View renders the sheet body width columns wide.
func (p *Presentation) View(width int) string { return p.container.View(width) }

func (p *Presentation) usable() error {
	if p.detached {
		return ErrDetached
	}
	if p.host == nil {
		return ErrNotConfigured
	}
	return nil
}

func (p *Presentation) mount() {
	if p.mounted || p.host == nil {
		return
	}
	p.mounted = true
	p.host.Mount(p)
	p.log.Debug("sheet mounted")
}

func (p *Presentation) unmount() {
	if !p.mounted {
		return
	}
	p.mounted = false
	p.host.Unmount(p)
	p.log.Debug("sheet unmounted")
}

// onRest runs after a transition finished and its callbacks were delivered.
// A dismissed Overlay sheet leaves the display unless an observer or
// callback already asked for it again.
func (p *Presentation) onRest(s State) {
	if s != Hidden || p.cfg.Variant != Overlay {
		return
	}
	if p.machine.Animating() || p.machine.intendedState() != Hidden {
		return
	}
	p.reset()
}

func (p *Presentation) syncWrapper() {
	switch {
	case p.cfg.Variant == Overlay, p.machine.Backdrop().Visible():
		p.wrapper = 0
	default:
		p.wrapper = min(p.machine.Offset(), p.machine.HostHeight())
	}
}
