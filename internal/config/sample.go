package config

import (
	"encoding/json"
	"os"
)

// WriteSample writes a starter config the operator edits before a real run.
// Values mirror a typical Gmail STARTTLS setup.
func WriteSample(path string) error {
	cfg := Config{
		Email: EmailConfig{
			Server:         "smtp.gmail.com",
			Port:           587,
			SenderEmail:    "your-email@gmail.com",
			SenderPassword: "your-app-password",
		},
		Template: TemplateConfig{
			Subject: "Hi {first_name}, I'd love to connect about {company}",
			Body: "Hi {first_name},\n\n" +
				"I hope this email finds you well. I came across {company} and was impressed by your work in {industry}.\n\n" +
				"I believe there might be an opportunity for us to collaborate on {potential_project}. " +
				"Would you be interested in a brief 15-minute call to discuss this further?\n\n" +
				"Looking forward to hearing from you.\n\n" +
				"Best regards,\n{your_name}\n{your_title}\n{your_company}\n{your_phone}",
		},
		RateLimiting: RateLimitingConfig{
			MinDelaySeconds:  intPtr(30),
			MaxDelaySeconds:  intPtr(60),
			MaxEmailsPerHour: 50,
			Cooldown:         "1h",
		},
		Logging: &LoggingConfig{
			Level: "info",
			File:  LogFileConfig{Enabled: true, Path: "./coldmailer.log"},
		},
		Storage: &StorageConfig{
			Driver: "file",
			Path:   "./coldmailer_attempts.jsonl",
		},
	}

	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o600)
}

func intPtr(v int) *int { return &v }
