package campaign

import (
	"math/rand"
	"time"
)

// DefaultCooldown is the pause taken when the per-window send limit is hit.
const DefaultCooldown = time.Hour

// Pacing bounds the send rate of one campaign run.
//
// MinDelay/MaxDelay bound the jittered wait between two attempts;
// MaxPerWindow is the number of sends before a Cooldown-long pause.
// The window trigger is index based, not wall-clock based, matching the
// behavior operators already rely on.
type Pacing struct {
	MinDelay     time.Duration
	MaxDelay     time.Duration
	MaxPerWindow int
	Cooldown     time.Duration
}

// NextDelay returns the wait before the next attempt: zero after the last
// recipient, otherwise a uniform random draw from [MinDelay, MaxDelay].
// The jitter avoids a fixed cadence the receiving service could flag.
func (p Pacing) NextDelay(index, total int) time.Duration {
	if index >= total-1 {
		return 0
	}
	lo, hi := p.MinDelay, p.MaxDelay
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(hi-lo)+1))
}

// ShouldCooldown reports whether the long pause is due after the attempt at
// index. True exactly every MaxPerWindow processed recipients, never after
// the final one.
func (p Pacing) ShouldCooldown(index, total int) bool {
	if p.MaxPerWindow <= 0 || index >= total-1 {
		return false
	}
	return (index+1)%p.MaxPerWindow == 0
}

func (p Pacing) cooldown() time.Duration {
	if p.Cooldown > 0 {
		return p.Cooldown
	}
	return DefaultCooldown
}
