// Package schedule resolves the optional delayed-start spec of a run.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Next resolves a start spec into the first activation at or after now.
//
// Supported forms:
//   - Cron (crontab.guru-style): "0 9 * * *", "@hourly"
//   - Go duration from now: "45m", "1h30m"
//
// Optional prefixes "cron:" and "in:" force one interpretation.
func Next(raw string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("start spec required")
	}

	low := strings.ToLower(s)
	if strings.HasPrefix(low, "cron:") {
		return nextCron(strings.TrimSpace(s[len("cron:"):]), now)
	}
	if strings.HasPrefix(low, "in:") {
		return nextDuration(strings.TrimSpace(s[len("in:"):]), now)
	}

	// Bare duration first ("45m"); anything else goes to the cron parser.
	if t, err := nextDuration(s, now); err == nil {
		return t, nil
	}
	return nextCron(s, now)
}

func nextDuration(v string, now time.Time) (time.Time, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start duration %q: %w", v, err)
	}
	if d < 0 {
		return time.Time{}, fmt.Errorf("start duration must be >= 0")
	}
	return now.Add(d), nil
}

func nextCron(expr string, now time.Time) (time.Time, error) {
	if expr == "" {
		return time.Time{}, fmt.Errorf("cron spec required")
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start spec %q: %w", expr, err)
	}
	return sched.Next(now), nil
}
