package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNotConfirmed is returned when the user declines the final preview.
	ErrNotConfirmed = errors.New("tui: submission not confirmed")
)
