package notify

import (
	"log/slog"
)

// Message is one outbound email. ReplyTo names the other party in the
// interaction that triggered the message, never the system's own sender.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Notifier delivers a single message. Implementations may block; callers go
// through the Dispatcher so delivery never sits on a request path.
type Notifier interface {
	Send(msg Message) error
}

// Dispatcher is the fire-and-forget boundary around a Notifier. Dispatch
// returns immediately; delivery failures and panics are logged and never reach
// the triggering operation.
type Dispatcher struct {
	notifier Notifier
	logger   *slog.Logger
}

func NewDispatcher(notifier Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, logger: logger}
}

func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil || d.notifier == nil || msg.To == "" {
		return
	}

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				d.logger.Error("notification dispatch panicked", "recover", rec, "to", msg.To)
			}
		}()

		if err := d.notifier.Send(msg); err != nil {
			d.logger.Error("notification delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
			return
		}
		d.logger.Debug("notification sent", "to", msg.To, "subject", msg.Subject)
	}()
}
