package schedule

import (
	"testing"
	"time"
)

func TestNextDuration(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	got, err := Next("45m", now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := now.Add(45 * time.Minute); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextDurationPrefix(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	got, err := Next("in:30s", now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := now.Add(30 * time.Second); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextCron(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	got, err := Next("0 9 * * *", now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := time.Date(2026, 1, 3, 9, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextCronPrefix(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	got, err := Next("cron:30 10 * * *", now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if want := time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextInvalid(t *testing.T) {
	now := time.Now()
	for _, raw := range []string{"", "  ", "soon", "cron:", "in:-5s", "-1m"} {
		if _, err := Next(raw, now); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
