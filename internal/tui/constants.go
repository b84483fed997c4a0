package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	// framesPerSecond drives animation ticks while any transition is running.
	framesPerSecond = 60
	// eventLogMax caps the observer log shown on the host page.
	eventLogMax = 8
	// sheetFrameCols is the horizontal border width of the sheet container.
	sheetFrameCols = 2
	// listInset keeps list rows clear of the sheet border.
	listInset = 2
	// minUsableRows keeps the host surface from collapsing on tiny terminals.
	minUsableRows = 1
	// backdropStrength is the darkest blend reached by the backdrop at alpha 1.
	backdropStrength = 0.5

	pageForeground = "#d0d0d0"
	backdropColor  = "#000000"

	regionBackdrop = "backdrop"
	regionSheet    = "sheet"
	regionHeader   = "header"
	regionRows     = "rows"

	frameInterval = time.Second / framesPerSecond
)
