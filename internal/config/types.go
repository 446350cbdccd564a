package config

import "time"

// Config is the operator-facing campaign configuration.
//
// Formats: JSON (default) or YAML (by file extension). Decoding is strict:
// unknown fields are rejected so a typo in a rate-limit key fails loudly
// instead of silently falling back to defaults.
type Config struct {
	Email        EmailConfig        `json:"email"`
	Template     TemplateConfig     `json:"template"`
	RateLimiting RateLimitingConfig `json:"rate_limiting"`
	Logging      *LoggingConfig     `json:"logging,omitempty"`
	Storage      *StorageConfig     `json:"storage,omitempty"`
}

// EmailConfig identifies the SMTP endpoint and sender identity.
// Server, SenderEmail and SenderPassword are mandatory.
type EmailConfig struct {
	Server         string `json:"smtp_server"`
	Port           int    `json:"smtp_port,omitempty"` // default 587 (STARTTLS submission)
	SenderEmail    string `json:"sender_email"`
	SenderPassword string `json:"sender_password"`
}

// PortOrDefault returns the configured SMTP port, defaulting to 587.
func (e EmailConfig) PortOrDefault() int {
	if e.Port > 0 {
		return e.Port
	}
	return 587
}

// TemplateConfig holds the subject/body templates with {field} placeholders.
type TemplateConfig struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RateLimitingConfig bounds the campaign's send pacing.
//
// The delay fields are pointers so an explicit 0 (no jitter, used for test
// runs) is distinguishable from an omitted field (default 30/60 seconds).
// Cooldown is a Go duration string ("45m", "1h30m"); default one hour.
type RateLimitingConfig struct {
	MinDelaySeconds  *int   `json:"min_delay_seconds,omitempty"`
	MaxDelaySeconds  *int   `json:"max_delay_seconds,omitempty"`
	MaxEmailsPerHour int    `json:"max_emails_per_hour,omitempty"` // default 50
	Cooldown         string `json:"cooldown,omitempty"`
}

func (r RateLimitingConfig) MinDelay() time.Duration {
	if r.MinDelaySeconds == nil {
		return 30 * time.Second
	}
	return time.Duration(*r.MinDelaySeconds) * time.Second
}

func (r RateLimitingConfig) MaxDelay() time.Duration {
	if r.MaxDelaySeconds == nil {
		return 60 * time.Second
	}
	return time.Duration(*r.MaxDelaySeconds) * time.Second
}

func (r RateLimitingConfig) Window() int {
	if r.MaxEmailsPerHour <= 0 {
		return 50
	}
	return r.MaxEmailsPerHour
}

func (r RateLimitingConfig) CooldownOrDefault() time.Duration {
	d, err := ParseDurationOrDefault("rate_limiting.cooldown", r.Cooldown, time.Hour)
	if err != nil {
		return time.Hour
	}
	return d
}

// LoggingConfig mirrors logx.Config. Console is a pointer so "omitted"
// defaults to true while an explicit false turns the console sink off.
type LoggingConfig struct {
	Level   string        `json:"level,omitempty"`
	Console *bool         `json:"console,omitempty"`
	File    LogFileConfig `json:"file,omitempty"`
}

type LogFileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

func (l *LoggingConfig) ConsoleEnabled() bool {
	if l == nil || l.Console == nil {
		return true
	}
	return *l.Console
}

// StorageConfig controls the optional delivery log.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./coldmailer_attempts.jsonl" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}
