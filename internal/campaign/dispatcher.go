package campaign

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"coldmailer/internal/storage"
	logx "coldmailer/pkg/logx"
)

// ErrTemplateInvalid aborts a run before any recipient is processed.
var ErrTemplateInvalid = errors.New("template must include a subject and a body")

// Dispatcher drives one campaign: render, deliver, pace, count.
type Dispatcher struct {
	from    string
	deliver Deliverer
	log     logx.Logger
	store   storage.Store

	// mu guards pacing so bounds can be swapped while a run is sleeping
	// between recipients (config hot reload).
	mu     sync.Mutex
	pacing Pacing

	// sleep is a seam for tests; production uses a ctx-aware timer wait.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(from string, deliver Deliverer, log logx.Logger) *Dispatcher {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Dispatcher{
		from:    from,
		deliver: deliver,
		log:     log,
		sleep:   sleepCtx,
	}
}

// SetStore attaches an optional delivery log. Writes are best-effort: a log
// failure never fails the campaign.
func (d *Dispatcher) SetStore(st storage.Store) { d.store = st }

// SetPacing swaps the pacing bounds. Safe during a run; the new bounds take
// effect from the next inter-message wait.
func (d *Dispatcher) SetPacing(p Pacing) {
	d.mu.Lock()
	d.pacing = p
	d.mu.Unlock()
}

func (d *Dispatcher) Pacing() Pacing {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pacing
}

// Run processes the roster strictly in order, one recipient at a time.
//
// A render or delivery failure is counted and logged for that recipient and
// the run continues; each recipient gets at most one delivery attempt. In
// dry-run mode the message is rendered and accounted as sent without ever
// touching the delivery port.
//
// Cancelling ctx stops the run between recipients (or mid-wait) and returns
// the partially accumulated Result together with ctx.Err().
func (d *Dispatcher) Run(ctx context.Context, recipients []Recipient, tpl Template, dryRun bool) (Result, error) {
	var res Result
	if strings.TrimSpace(tpl.Subject) == "" || strings.TrimSpace(tpl.Body) == "" {
		return res, ErrTemplateInvalid
	}

	total := len(recipients)
	d.log.Info("campaign started", logx.Int("recipients", total), logx.Bool("dry_run", dryRun))
	start := time.Now()

	for i, rcpt := range recipients {
		if err := ctx.Err(); err != nil {
			d.log.Warn("campaign interrupted", logx.Int("processed", i), logx.Err(err))
			return res, err
		}

		d.log.Info("processing recipient",
			logx.Int("n", i+1), logx.Int("total", total), logx.String("to", rcpt.Email()))
		d.processOne(ctx, rcpt, tpl, dryRun, &res)

		if i >= total-1 {
			break
		}

		p := d.Pacing()
		if delay := p.NextDelay(i, total); delay > 0 {
			d.log.Info("waiting before next message", logx.Duration("delay", delay))
			if err := d.sleep(ctx, delay); err != nil {
				return res, err
			}
		}
		if p.ShouldCooldown(i, total) {
			d.log.Info("send window reached, cooling down",
				logx.Int("window", p.MaxPerWindow), logx.Duration("cooldown", p.cooldown()))
			if err := d.sleep(ctx, p.cooldown()); err != nil {
				return res, err
			}
		}
	}

	fields := []logx.Field{
		logx.Int("sent", res.Sent),
		logx.Int("failed", res.Failed),
		logx.Duration("dur", time.Since(start)),
	}
	if res.Failed > 0 {
		d.log.Warn("campaign finished with failures", fields...)
	} else {
		d.log.Info("campaign finished", fields...)
	}
	return res, nil
}

func (d *Dispatcher) processOne(ctx context.Context, rcpt Recipient, tpl Template, dryRun bool, res *Result) {
	start := time.Now()

	msg, err := Render(tpl, rcpt, d.from)
	if err != nil {
		res.Failed++
		res.recordFailure(rcpt.Email())
		d.log.Error("render failed", logx.String("to", rcpt.Email()), logx.Err(err))
		d.record(ctx, rcpt.Email(), "", Outcome{Code: Failed, Detail: err.Error()}, dryRun, start)
		return
	}

	if dryRun {
		res.Sent++
		d.log.Info("dry run: would send",
			logx.String("to", msg.To), logx.String("subject", msg.Subject))
		d.record(ctx, msg.To, msg.Subject, Outcome{Code: Delivered}, true, start)
		return
	}

	out := d.deliver.Deliver(ctx, msg)
	if out.OK() {
		res.Sent++
		d.log.Info("delivered", logx.String("to", msg.To))
	} else {
		res.Failed++
		res.recordFailure(msg.To)
		d.log.Error("delivery failed",
			logx.String("to", msg.To),
			logx.String("outcome", out.Code.String()),
			logx.String("detail", out.Detail))
	}
	d.record(ctx, msg.To, msg.Subject, out, false, start)
}

func (d *Dispatcher) record(ctx context.Context, to, subject string, out Outcome, dryRun bool, start time.Time) {
	if d.store == nil {
		return
	}
	err := d.store.AppendAttempt(ctx, storage.AttemptEntry{
		At:        start,
		Recipient: to,
		Subject:   subject,
		Outcome:   out.Code.String(),
		Detail:    out.Detail,
		DryRun:    dryRun,
		TookMS:    time.Since(start).Milliseconds(),
	})
	if err != nil {
		d.log.Warn("delivery log write failed", logx.Err(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	tmr := time.NewTimer(d)
	select {
	case <-ctx.Done():
		if !tmr.Stop() {
			<-tmr.C
		}
		return ctx.Err()
	case <-tmr.C:
		return nil
	}
}
