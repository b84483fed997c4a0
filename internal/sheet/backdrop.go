package sheet

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/sheetkit/internal/motion"
)

// Backdrop is the translucent surface dimming the host behind the sheet.
//
// Show and Hide are idempotent. Hide removes the surface once the fade-out
// completes so hit testing falls through to the host again.
type Backdrop struct {
	tl       *motion.Timeline
	duration time.Duration
	log      *logrus.Entry

	attached bool
	alpha    float64
	fade     *motion.Transition

	onTap    func()
	onAttach func(attached bool)
}

func newBackdrop(tl *motion.Timeline, d time.Duration, log *logrus.Entry) *Backdrop {
	return &Backdrop{tl: tl, duration: d, log: log}
}

// Visible reports whether the surface is attached to the host, including
// while it fades in or out.
func (b *Backdrop) Visible() bool { return b.attached }

// Alpha is the current opacity in [0,1].
func (b *Backdrop) Alpha() float64 { return b.alpha }

// Show attaches the surface and fades it in.
func (b *Backdrop) Show() {
	if b.attached && (b.fade == nil || b.fadingIn()) {
		return
	}
	b.cancelFade()
	if !b.attached {
		b.attached = true
		b.alpha = 0
		b.log.Debug("backdrop attached")
		if b.onAttach != nil {
			b.onAttach(true)
		}
	}
	b.fade = b.tl.Start(b.alpha, 1, b.duration,
		motion.WithEase(motion.Linear),
		motion.OnStep(func(v float64) { b.alpha = v }),
		motion.OnDone(func(bool) { b.fade = nil }),
	)
}

// Hide fades the surface out and then detaches it.
func (b *Backdrop) Hide() {
	if !b.attached || (b.fade != nil && !b.fadingIn()) {
		return
	}
	b.cancelFade()
	b.fade = b.tl.Start(b.alpha, 0, b.duration,
		motion.WithEase(motion.Linear),
		motion.OnStep(func(v float64) { b.alpha = v }),
		motion.OnDone(func(finished bool) {
			b.fade = nil
			if finished {
				b.detach()
			}
		}),
	)
}

// Remove detaches the surface immediately, without fading.
func (b *Backdrop) Remove() {
	b.cancelFade()
	b.alpha = 0
	if b.attached {
		b.detach()
	}
}

// Tap handles a tap on the surface. It reports whether the tap was consumed.
func (b *Backdrop) Tap() bool {
	if !b.attached {
		return false
	}
	if b.onTap != nil {
		b.onTap()
	}
	return true
}

func (b *Backdrop) detach() {
	b.attached = false
	b.log.Debug("backdrop detached")
	if b.onAttach != nil {
		b.onAttach(false)
	}
}

func (b *Backdrop) fadingIn() bool {
	return b.fade != nil && b.fade.Target() == 1
}

func (b *Backdrop) cancelFade() {
	if b.fade == nil || !b.fade.Running() {
		b.fade = nil
		return
	}
	f := b.fade
	b.fade = nil
	f.Cancel()
}
