package campaign

import "context"

// OutcomeCode classifies the result of one delivery attempt.
//
// The closed set keeps transport-specific fault types (SMTP status codes,
// TLS errors, ...) out of the dispatcher: the transport maps whatever it
// sees onto one of these.
type OutcomeCode int

const (
	Delivered OutcomeCode = iota
	AuthFailed
	RecipientRejected
	Disconnected
	Failed
)

func (c OutcomeCode) String() string {
	switch c {
	case Delivered:
		return "delivered"
	case AuthFailed:
		return "auth_failed"
	case RecipientRejected:
		return "recipient_rejected"
	case Disconnected:
		return "disconnected"
	default:
		return "failed"
	}
}

// Outcome is the report of one delivery attempt. Detail carries the
// transport's own description for anything beyond the code.
type Outcome struct {
	Code   OutcomeCode
	Detail string
}

func (o Outcome) OK() bool { return o.Code == Delivered }

// Deliverer is the delivery port the dispatcher depends on.
//
// Deliver blocks until the outcome of the attempt is known and reports every
// failure mode as an Outcome; it must not panic past this boundary.
type Deliverer interface {
	Deliver(ctx context.Context, msg RenderedMessage) Outcome
}
