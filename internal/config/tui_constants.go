package config

import "time"

// Layout constants.
const (
	// MinTitleWidth is the minimum width for alarm titles.
	MinTitleWidth = 10

	// TargetTitleWidth is the preferred width for alarm titles.
	TargetTitleWidth = 30

	// CompactModeThreshold triggers compact rendering below this width.
	CompactModeThreshold = 60
)

// Display limits.
const (
	// MaxVisibleAlarms limits rows shown per section before scrolling.
	MaxVisibleAlarms = 15

	// TruncationSuffix appended to truncated strings.
	TruncationSuffix = "..."
)

// Input constraints.
const (
	// MaxTitleLength is the maximum alarm display text length.
	MaxTitleLength = 100

	// MaxNoteLength is the maximum note length.
	MaxNoteLength = 500
)

// RefreshInterval is how often the TUI redraws relative times.
const RefreshInterval = 30 * time.Second
