package notification

import "context"

// Email is one outbound message, body already rendered as HTML.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single email. Implementations must be safe for
// concurrent use; delivery is best effort and callers never retry.
type Sender interface {
	Send(ctx context.Context, email Email) error
}
