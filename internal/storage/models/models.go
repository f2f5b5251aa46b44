package models

import "time"

// SearchLogEntry is an append-only record of one completed
// interpretation attempt. Filters is serialized FilterCriteria JSON, or
// nil when the attempt ended in an error. ResultCount is nil when not
// known at log time.
type SearchLogEntry struct {
	ID             string
	Query          string
	Filters        *string
	ResultCount    *int
	Interpretation string
	CreatedAt      time.Time
}

// UsageEvent is a fire-and-forget analytics record.
type UsageEvent struct {
	ID        int
	EventType string
	Detail    string
	CreatedAt time.Time
}

// Passcode is a shared access code for case workers.
type Passcode struct {
	Code   string
	Label  string
	Active bool
}
