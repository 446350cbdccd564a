package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures the delivery log.
//
// Driver values:
//   - "file": dependency-free JSON Lines backend
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", the delivery log is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// AttemptEntry records one delivery attempt.
// Keep it compact and schema-stable.
type AttemptEntry struct {
	At        time.Time
	Recipient string
	Subject   string
	Outcome   string
	Detail    string
	DryRun    bool
	TookMS    int64
}
