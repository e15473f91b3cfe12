package port

import "time"

// Sink is the terminal the dashboard renders into.
type Sink interface {
	// WriteLive redraws the current line in place, no trailing newline.
	WriteLive(line string) error
	// WriteSnapshot appends a timestamped line and leaves a fresh line for live updates.
	WriteSnapshot(ts time.Time, line string) error
	NewLine() error
}
