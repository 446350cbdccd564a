package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

const minimalJSON = `{
  "email": {
    "smtp_server": "smtp.example.com",
    "sender_email": "me@example.com",
    "sender_password": "secret"
  },
  "template": {"subject": "s", "body": "b"}
}`

func TestLoadMinimalDefaults(t *testing.T) {
	m := NewManager(writeTemp(t, "config.json", minimalJSON))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Email.PortOrDefault() != 587 {
		t.Fatalf("port = %d", cfg.Email.PortOrDefault())
	}
	r := cfg.RateLimiting
	if r.MinDelay() != 30*time.Second || r.MaxDelay() != 60*time.Second {
		t.Fatalf("delays = %v/%v", r.MinDelay(), r.MaxDelay())
	}
	if r.Window() != 50 {
		t.Fatalf("window = %d", r.Window())
	}
	if r.CooldownOrDefault() != time.Hour {
		t.Fatalf("cooldown = %v", r.CooldownOrDefault())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadExplicitZeroDelays(t *testing.T) {
	raw := strings.Replace(minimalJSON, `"template"`, `"rate_limiting": {"min_delay_seconds": 0, "max_delay_seconds": 0}, "template"`, 1)
	m := NewManager(writeTemp(t, "config.json", raw))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RateLimiting.MinDelay() != 0 || cfg.RateLimiting.MaxDelay() != 0 {
		t.Fatalf("explicit zero delays not honored: %v/%v",
			cfg.RateLimiting.MinDelay(), cfg.RateLimiting.MaxDelay())
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	raw := strings.Replace(minimalJSON, `"smtp_server"`, `"smpt_server"`, 1)
	m := NewManager(writeTemp(t, "config.json", raw))
	if _, err := m.Load(); err == nil {
		t.Fatalf("expected unknown-field error")
	}
}

func TestLoadRejectsTrailingData(t *testing.T) {
	m := NewManager(writeTemp(t, "config.json", minimalJSON+"\n{}"))
	if _, err := m.Load(); err == nil {
		t.Fatalf("expected trailing-data error")
	}
}

func TestLoadYAML(t *testing.T) {
	yml := `
email:
  smtp_server: smtp.example.com
  smtp_port: 2525
  sender_email: me@example.com
  sender_password: secret
template:
  subject: s
  body: b
rate_limiting:
  min_delay_seconds: 1
  max_delay_seconds: 2
  cooldown: 30m
`
	m := NewManager(writeTemp(t, "config.yaml", yml))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Email.Port != 2525 {
		t.Fatalf("port = %d", cfg.Email.Port)
	}
	if cfg.RateLimiting.CooldownOrDefault() != 30*time.Minute {
		t.Fatalf("cooldown = %v", cfg.RateLimiting.CooldownOrDefault())
	}
}

func TestValidateMissingEndpoint(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"smtp_server", "sender_email", "sender_password"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}

func TestValidateDelayOrder(t *testing.T) {
	lo, hi := 60, 30
	cfg := &Config{
		Email:        EmailConfig{Server: "s", SenderEmail: "e", SenderPassword: "p"},
		RateLimiting: RateLimitingConfig{MinDelaySeconds: &lo, MaxDelaySeconds: &hi},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected min<=max violation")
	}
}

func TestValidateBadCooldown(t *testing.T) {
	cfg := &Config{
		Email:        EmailConfig{Server: "s", SenderEmail: "e", SenderPassword: "p"},
		RateLimiting: RateLimitingConfig{Cooldown: "one hour"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected cooldown parse error")
	}
}

func TestParseDurationField(t *testing.T) {
	if d, err := ParseDurationField("x", " 90s "); err != nil || d != 90*time.Second {
		t.Fatalf("got %v, %v", d, err)
	}
	if d, err := ParseDurationField("x", ""); err != nil || d != 0 {
		t.Fatalf("empty: got %v, %v", d, err)
	}
	if _, err := ParseDurationField("x", "-5s"); err == nil {
		t.Fatalf("expected negative duration error")
	}
	if d, err := ParseDurationOrDefault("x", "", time.Hour); err != nil || d != time.Hour {
		t.Fatalf("default: got %v, %v", d, err)
	}
}

func TestReloadPublishesChangedConfig(t *testing.T) {
	path := writeTemp(t, "config.json", minimalJSON)
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	// Unchanged content must not publish.
	m.reload()
	select {
	case cfg := <-ch:
		t.Fatalf("published unchanged config: %+v", cfg)
	default:
	}

	updated := strings.Replace(minimalJSON, "smtp.example.com", "smtp2.example.com", 1)
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	m.reload()
	select {
	case cfg := <-ch:
		if cfg.Email.Server != "smtp2.example.com" {
			t.Fatalf("published server = %q", cfg.Email.Server)
		}
	default:
		t.Fatalf("no config published after change")
	}
	if m.Get().Email.Server != "smtp2.example.com" {
		t.Fatalf("commit missing after reload")
	}
}

func TestReloadRejectsInvalidConfig(t *testing.T) {
	path := writeTemp(t, "config.json", minimalJSON)
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	// Validation failure keeps the previous config in effect.
	broken := strings.Replace(minimalJSON, `"smtp_server": "smtp.example.com",`, "", 1)
	if err := os.WriteFile(path, []byte(broken), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	m.reload()
	select {
	case cfg := <-ch:
		t.Fatalf("published invalid config: %+v", cfg)
	default:
	}
	if m.Get().Email.Server != "smtp.example.com" {
		t.Fatalf("previous config lost")
	}
}

func TestWriteSampleLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	m := NewManager(path)
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// The sample must pass its own pre-flight so operators only edit values.
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Template.Subject == "" || cfg.Template.Body == "" {
		t.Fatalf("sample template incomplete")
	}
}
