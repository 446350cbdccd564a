// Package mailer is the SMTP implementation of the campaign delivery port.
//
// One SMTP session is established per attempt (STARTTLS + PLAIN auth) and
// every transport failure is classified into the dispatcher's closed outcome
// set; no transport error type crosses the port boundary.
package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
	"golang.org/x/time/rate"

	"coldmailer/internal/campaign"
	logx "coldmailer/pkg/logx"
)

// Config identifies the SMTP endpoint and sender identity.
type Config struct {
	Server         string
	Port           int
	SenderEmail    string
	SenderPassword string

	// RatePerSec is an absolute cap on delivery attempts, independent of the
	// campaign's jitter pacing. Zero means 1/sec.
	RatePerSec int
}

type Mailer struct {
	cfg     Config
	log     logx.Logger
	client  *mail.Client
	limiter *rate.Limiter
}

func New(cfg Config, log logx.Logger) (*Mailer, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}

	client, err := mail.NewClient(cfg.Server,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SenderEmail),
		mail.WithPassword(cfg.SenderPassword),
	)
	if err != nil {
		return nil, err
	}

	return &Mailer{
		cfg:     cfg,
		log:     log,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

// Deliver implements campaign.Deliverer.
func (m *Mailer) Deliver(ctx context.Context, rm campaign.RenderedMessage) campaign.Outcome {
	if err := m.limiter.Wait(ctx); err != nil {
		return campaign.Outcome{Code: campaign.Failed, Detail: err.Error()}
	}

	msg := mail.NewMsg()
	if err := msg.From(rm.From); err != nil {
		return campaign.Outcome{Code: campaign.Failed, Detail: "invalid sender address: " + err.Error()}
	}
	if err := msg.To(rm.To); err != nil {
		return campaign.Outcome{Code: campaign.RecipientRejected, Detail: "invalid recipient address: " + err.Error()}
	}
	msg.Subject(rm.Subject)
	msg.SetBodyString(mail.TypeTextPlain, rm.PlainBody)
	msg.AddAlternativeString(mail.TypeTextHTML, rm.HTMLBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		out := classify(err)
		m.log.Debug("smtp send failed",
			logx.String("to", rm.To),
			logx.String("outcome", out.Code.String()),
			logx.Err(err))
		return out
	}
	return campaign.Outcome{Code: campaign.Delivered}
}
