package domain

import "time"

// RecordTTL is the ttl written on every record this tool creates or updates.
const RecordTTL = 3600

const DefaultHTTPTimeout = 15 * time.Second

const (
	DefaultRetryMaxAttempts    = 3
	DefaultRetryInitialDelayMs = 500
	DefaultRetryMaxDelaySec    = 10
	DefaultRetryMultiplier     = 2.0
)

var (
	DefaultRetryInitialDelay = DefaultRetryInitialDelayMs * time.Millisecond
	DefaultRetryMaxDelay     = DefaultRetryMaxDelaySec * time.Second
)
