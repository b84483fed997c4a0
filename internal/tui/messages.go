package tui

import "time"

// Message types for Bubble Tea update loop.

// frameMsg advances sheet animations to the carried time.
type frameMsg time.Time
