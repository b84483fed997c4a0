package sheet

import "errors"

// Sentinel errors for structural misuse. Runtime behaviour never fails.
var (
	ErrInvalidConfig  = errors.New("invalid sheet configuration")
	ErrInvalidContent = errors.New("invalid sheet content")
	ErrNotConfigured  = errors.New("sheet is not attached to a host")
	ErrDetached       = errors.New("sheet presentation was detached")
)
