package campaign

import "strings"

// Recipient is one row of the roster: field name -> value.
//
// Every field is available to the template as a {placeholder}; the "email"
// field doubles as the delivery address. The dispatcher never mutates a
// Recipient after the roster is loaded.
type Recipient map[string]string

// Email returns the delivery address, or "Unknown" when the record has none.
// The fallback keeps log lines and failure reports usable for malformed rows.
func (r Recipient) Email() string {
	if v, ok := r["email"]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return "Unknown"
}

// Template holds the subject and body with {field} placeholder markers.
// Both must be non-empty before a run starts (see Dispatcher.Run).
type Template struct {
	Subject string
	Body    string
}

// RenderedMessage is the concrete payload for one delivery attempt.
// It is derived per recipient and discarded after the attempt.
type RenderedMessage struct {
	From      string
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Result accumulates per-recipient outcomes over one run.
type Result struct {
	Sent   int
	Failed int
	// Failures lists addresses that failed, capped so a huge roster cannot
	// balloon the result. Counts above are always exact.
	Failures []string
}

const maxRecordedFailures = 200

func (r *Result) recordFailure(addr string) {
	if len(r.Failures) < maxRecordedFailures {
		r.Failures = append(r.Failures, addr)
	}
}
