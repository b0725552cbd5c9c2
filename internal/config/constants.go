package config

import "time"

// Application settings.
const (
	AppName    = "nudge"
	DBFileName = "nudge.db"
	LogFile    = "nudge.log"
)

// Timeouts.
const (
	ShutdownTimeout = 5 * time.Second
	PromptTimeout   = 2 * time.Minute
)
