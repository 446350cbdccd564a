package campaign

import (
	"context"
	"errors"
	"testing"
	"time"

	logx "coldmailer/pkg/logx"
)

type fakeDeliverer struct {
	calls    []RenderedMessage
	outcomes []Outcome
}

func (f *fakeDeliverer) Deliver(_ context.Context, msg RenderedMessage) Outcome {
	f.calls = append(f.calls, msg)
	if n := len(f.calls); n <= len(f.outcomes) {
		return f.outcomes[n-1]
	}
	return Outcome{Code: Delivered}
}

func testRoster() []Recipient {
	return []Recipient{
		{"email": "a@x.com", "first_name": "A", "company": "X"},
		{"email": "b@x.com", "first_name": "B", "company": "Y"},
	}
}

func testTemplate() Template {
	return Template{Subject: "Hi {first_name}", Body: "Hello {first_name} from {company}"}
}

// newTestDispatcher wires a dispatcher with recorded (not slept) waits.
func newTestDispatcher(f *fakeDeliverer) (*Dispatcher, *[]time.Duration) {
	d := New("me@x.com", f, logx.Nop())
	d.SetPacing(Pacing{MaxPerWindow: 50})
	var slept []time.Duration
	d.sleep = func(_ context.Context, dur time.Duration) error {
		slept = append(slept, dur)
		return nil
	}
	return d, &slept
}

func TestRunDeliversInOrder(t *testing.T) {
	f := &fakeDeliverer{}
	d, _ := newTestDispatcher(f)

	res, err := d.Run(context.Background(), testRoster(), testTemplate(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Sent != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(f.calls) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(f.calls))
	}
	if f.calls[0].Subject != "Hi A" || f.calls[1].Subject != "Hi B" {
		t.Fatalf("subjects = %q, %q", f.calls[0].Subject, f.calls[1].Subject)
	}
	if f.calls[0].To != "a@x.com" || f.calls[1].To != "b@x.com" {
		t.Fatalf("order broken: %q, %q", f.calls[0].To, f.calls[1].To)
	}
}

func TestRunDryRunNeverTouchesPort(t *testing.T) {
	f := &fakeDeliverer{}
	d, _ := newTestDispatcher(f)

	res, err := d.Run(context.Background(), testRoster(), testTemplate(), true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Sent != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if len(f.calls) != 0 {
		t.Fatalf("delivery port invoked %d times in dry run", len(f.calls))
	}
}

func TestRunFailureIsolation(t *testing.T) {
	f := &fakeDeliverer{outcomes: []Outcome{
		{Code: Delivered},
		{Code: RecipientRejected, Detail: "550 mailbox unavailable"},
	}}
	d, _ := newTestDispatcher(f)

	res, err := d.Run(context.Background(), testRoster(), testTemplate(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Sent != 1 || res.Failed != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Failures) != 1 || res.Failures[0] != "b@x.com" {
		t.Fatalf("failures = %v", res.Failures)
	}
}

func TestRunRenderFailureContinues(t *testing.T) {
	f := &fakeDeliverer{}
	d, _ := newTestDispatcher(f)
	roster := []Recipient{
		{"email": "a@x.com", "first_name": "A"}, // no company field
		{"email": "b@x.com", "first_name": "B", "company": "Y"},
	}

	res, err := d.Run(context.Background(), roster, testTemplate(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Sent != 1 || res.Failed != 1 {
		t.Fatalf("result = %+v", res)
	}
	// The bad record must not reach the port.
	if len(f.calls) != 1 || f.calls[0].To != "b@x.com" {
		t.Fatalf("deliveries = %+v", f.calls)
	}
}

func TestRunEmptyTemplateFailsFast(t *testing.T) {
	f := &fakeDeliverer{}
	d, _ := newTestDispatcher(f)

	res, err := d.Run(context.Background(), testRoster(), Template{Subject: "s"}, false)
	if !errors.Is(err, ErrTemplateInvalid) {
		t.Fatalf("expected ErrTemplateInvalid, got %v", err)
	}
	if res.Sent != 0 || res.Failed != 0 {
		t.Fatalf("counters advanced: %+v", res)
	}
	if len(f.calls) != 0 {
		t.Fatalf("delivery attempted before validation")
	}
}

func TestRunPacingWaits(t *testing.T) {
	f := &fakeDeliverer{}
	d, slept := newTestDispatcher(f)
	d.SetPacing(Pacing{
		MinDelay:     5 * time.Second,
		MaxDelay:     5 * time.Second,
		MaxPerWindow: 2,
		Cooldown:     time.Hour,
	})
	roster := append(testRoster(), Recipient{"email": "c@x.com", "first_name": "C", "company": "Z"})

	res, err := d.Run(context.Background(), roster, testTemplate(), false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Sent != 3 {
		t.Fatalf("result = %+v", res)
	}
	// delay after #1, delay + window cooldown after #2, nothing after #3.
	want := []time.Duration{5 * time.Second, 5 * time.Second, time.Hour}
	if len(*slept) != len(want) {
		t.Fatalf("waits = %v", *slept)
	}
	for i, w := range want {
		if (*slept)[i] != w {
			t.Fatalf("wait %d = %v, want %v", i, (*slept)[i], w)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := &fakeDeliverer{}
	d, _ := newTestDispatcher(f)
	d.SetPacing(Pacing{MinDelay: time.Second, MaxDelay: time.Second, MaxPerWindow: 50})

	ctx, cancel := context.WithCancel(context.Background())
	d.sleep = func(c context.Context, _ time.Duration) error {
		cancel()
		return c.Err()
	}

	res, err := d.Run(ctx, testRoster(), testTemplate(), false)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Sent != 1 {
		t.Fatalf("partial result = %+v", res)
	}
	if len(f.calls) != 1 {
		t.Fatalf("deliveries after cancel: %d", len(f.calls))
	}
}

func TestSetPacingDuringRun(t *testing.T) {
	f := &fakeDeliverer{}
	d, slept := newTestDispatcher(f)
	d.SetPacing(Pacing{MinDelay: 4 * time.Second, MaxDelay: 4 * time.Second, MaxPerWindow: 50})

	// Swap the bounds from inside the first wait, as the reload path does.
	d.sleep = func(_ context.Context, dur time.Duration) error {
		*slept = append(*slept, dur)
		d.SetPacing(Pacing{MinDelay: time.Second, MaxDelay: time.Second, MaxPerWindow: 50})
		return nil
	}

	roster := append(testRoster(), Recipient{"email": "c@x.com", "first_name": "C", "company": "Z"})
	if _, err := d.Run(context.Background(), roster, testTemplate(), false); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []time.Duration{4 * time.Second, time.Second}
	if len(*slept) != 2 || (*slept)[0] != want[0] || (*slept)[1] != want[1] {
		t.Fatalf("waits = %v, want %v", *slept, want)
	}
}
