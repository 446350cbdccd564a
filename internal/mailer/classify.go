package mailer

import (
	"errors"
	"net"
	"strings"

	"github.com/wneessen/go-mail"

	"coldmailer/internal/campaign"
)

// classify maps a transport error onto the dispatcher's closed outcome set.
//
// go-mail reports protocol-stage failures as *mail.SendError with a Reason;
// dial/auth failures surface as wrapped net or textproto errors, so those
// fall through to the net-error and message checks below.
func classify(err error) campaign.Outcome {
	if err == nil {
		return campaign.Outcome{Code: campaign.Delivered}
	}
	detail := err.Error()

	var se *mail.SendError
	if errors.As(err, &se) {
		switch se.Reason {
		case mail.ErrSMTPRcptTo:
			return campaign.Outcome{Code: campaign.RecipientRejected, Detail: detail}
		case mail.ErrConnCheck:
			// Auth is part of the dial in go-mail, so a rejected credential
			// also surfaces here; tell the two apart by the server's wording.
			if strings.Contains(strings.ToLower(detail), "auth") {
				return campaign.Outcome{Code: campaign.AuthFailed, Detail: detail}
			}
			return campaign.Outcome{Code: campaign.Disconnected, Detail: detail}
		}
		// Other protocol stages (MAIL FROM, DATA, ...) stay generic; the
		// detail keeps the server's own wording for the operator.
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return campaign.Outcome{Code: campaign.Disconnected, Detail: detail}
	}

	low := strings.ToLower(detail)
	switch {
	case strings.Contains(low, "auth"):
		return campaign.Outcome{Code: campaign.AuthFailed, Detail: detail}
	case strings.Contains(low, "connection reset"),
		strings.Contains(low, "connection refused"),
		strings.Contains(low, "broken pipe"),
		strings.Contains(low, "unexpected eof"),
		strings.Contains(low, "use of closed network connection"):
		return campaign.Outcome{Code: campaign.Disconnected, Detail: detail}
	}
	return campaign.Outcome{Code: campaign.Failed, Detail: detail}
}
