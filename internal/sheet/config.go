package sheet

import (
	"fmt"
	"time"

	"github.com/ensigniasec/sheetkit/internal/validate"
)

// Defaults shared by both variants.
const (
	DefaultCollapsedHeight  = 80
	DefaultOpenThreshold    = 0.6
	DefaultDismissThreshold = 0.5
	DefaultToggleDuration   = 250 * time.Millisecond
	DefaultDismissDuration  = 500 * time.Millisecond
	DefaultFadeDuration     = 500 * time.Millisecond
)

// Config parameterises one sheet session. Use DefaultConfig and adjust.
type Config struct {
	Variant         Variant `validate:"oneof=0 1"`
	CollapsedHeight float64 `validate:"gt=0"`
	// OpenThreshold is the visible fraction of the expanded height above which
	// a released drag snaps open.
	OpenThreshold float64 `validate:"fraction"`
	// DismissThreshold is the visible fraction below which a released drag
	// dismisses an Overlay sheet. Unused by Embedded sheets.
	DismissThreshold float64       `validate:"fraction,ltefield=OpenThreshold"`
	ToggleDuration   time.Duration `validate:"gte=0"`
	DismissDuration  time.Duration `validate:"gte=0"`
	FadeDuration     time.Duration `validate:"gte=0"`
	// Backdrop enables the dimming surface while the sheet is visible.
	Backdrop bool
	Title    string
	Header   HeaderMetrics
	// SpringHeader animates the header arrow with a spring instead of a tween.
	SpringHeader bool
}

// DefaultConfig returns the canonical configuration for a variant. Only the
// Overlay variant shows a backdrop by default.
func DefaultConfig(v Variant) Config {
	return Config{
		Variant:          v,
		CollapsedHeight:  DefaultCollapsedHeight,
		OpenThreshold:    DefaultOpenThreshold,
		DismissThreshold: DefaultDismissThreshold,
		ToggleDuration:   DefaultToggleDuration,
		DismissDuration:  DefaultDismissDuration,
		FadeDuration:     DefaultFadeDuration,
		Backdrop:         v == Overlay,
		Header:           PointMetrics,
		SpringHeader:     true,
	}
}

// Validate reports configuration errors wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
