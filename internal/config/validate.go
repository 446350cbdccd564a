package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the pre-flight invariants. A failure here is fatal: the
// campaign must not start with a broken endpoint or nonsensical pacing.
//
// Template emptiness is deliberately not checked here; the dispatcher owns
// that check so a programmatic caller gets the same fail-fast behavior.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	var errs []string
	if strings.TrimSpace(c.Email.Server) == "" {
		errs = append(errs, "email.smtp_server is required")
	}
	if strings.TrimSpace(c.Email.SenderEmail) == "" {
		errs = append(errs, "email.sender_email is required")
	}
	if strings.TrimSpace(c.Email.SenderPassword) == "" {
		errs = append(errs, "email.sender_password is required")
	}
	if p := c.Email.Port; p < 0 || p > 65535 {
		errs = append(errs, fmt.Sprintf("email.smtp_port %d out of range", p))
	}

	r := c.RateLimiting
	if r.MinDelaySeconds != nil && *r.MinDelaySeconds < 0 {
		errs = append(errs, "rate_limiting.min_delay_seconds must be >= 0")
	}
	if r.MaxDelaySeconds != nil && *r.MaxDelaySeconds < 0 {
		errs = append(errs, "rate_limiting.max_delay_seconds must be >= 0")
	}
	if r.MinDelay() > r.MaxDelay() {
		errs = append(errs, "rate_limiting.min_delay_seconds must be <= max_delay_seconds")
	}
	if r.MaxEmailsPerHour < 0 {
		errs = append(errs, "rate_limiting.max_emails_per_hour must be >= 0")
	}
	if _, err := ParseDurationField("rate_limiting.cooldown", r.Cooldown); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Storage != nil {
		if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New("invalid config: " + strings.Join(errs, "; "))
	}
	return nil
}
