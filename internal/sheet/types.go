// Package sheet implements a draggable bottom sheet: a position/state machine,
// its backdrop, header and content container, and the presentation that binds
// them to a host surface.
//
// All methods must be called from the goroutine that owns the UI loop. The
// package never starts goroutines; animations progress only when the owner
// advances the shared motion.Timeline.
package sheet

import (
	"fmt"
	"strings"
)

// Variant selects how the sheet is embedded into its host.
type Variant int

const (
	// Embedded lives inside the host's hierarchy and pushes up from the bottom ("modal").
	Embedded Variant = iota
	// Overlay is presented as a top-level layer covering the whole display ("alert").
	Overlay
)

func (v Variant) String() string {
	switch v {
	case Embedded:
		return "modal"
	case Overlay:
		return "alert"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant accepts "modal"/"embedded" and "alert"/"overlay".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "modal", "embedded":
		return Embedded, nil
	case "alert", "overlay":
		return Overlay, nil
	default:
		return 0, fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, s)
	}
}

// State is the logical position of the sheet. It is always derived from the
// current offset and never stored on its own.
type State int

const (
	Hidden State = iota
	Collapsed
	Open
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Collapsed:
		return "collapsed"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Event is delivered to observers when a transition completes.
type Event int

const (
	EventOpen Event = iota
	EventDismiss
)

func (e Event) String() string {
	if e == EventOpen {
		return "open"
	}
	return "dismiss"
}

// Observer receives state change events after the corresponding animation
// has finished. Interrupted transitions never produce an event.
type Observer interface {
	OnStateChange(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

// OnStateChange implements Observer.
func (f ObserverFunc) OnStateChange(e Event) { f(e) }

// TransitionObserver is an optional extension of Observer notified when an
// animated transition starts, before the matching OnStateChange.
type TransitionObserver interface {
	OnOpening()
	OnClosing()
}

// View is anything that renders itself as text. tea.Model values and bubbles
// components satisfy it.
type View interface {
	View() string
}
