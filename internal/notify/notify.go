// Package notify delivers fire-and-forget notifications to accounts via a
// background queue. Delivery failures never affect the operation that
// triggered them.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// SendArgs is the queued notification job.
type SendArgs struct {
	AccountID uuid.UUID `json:"account_id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

func (SendArgs) Kind() string { return "send_notification" }

// EnqueueFunc enqueues a notification job. Provided by main using
// river.Client.Insert; services hold the func to avoid an init cycle.
type EnqueueFunc func(ctx context.Context, args SendArgs) error

// Notifier is the delivery channel (email, SMS, push). Swappable so the
// platform can change channels without touching callers.
type Notifier interface {
	Notify(ctx context.Context, accountID uuid.UUID, subject, body string) error
}

// LogNotifier writes notifications to the log. The MVP channel.
type LogNotifier struct {
	Log *slog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, accountID uuid.UUID, subject, body string) error {
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("notification", "account_id", accountID, "subject", subject, "body", body)
	return nil
}
