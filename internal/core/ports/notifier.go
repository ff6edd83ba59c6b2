package ports

import (
	"context"
	"time"
)

// TicketNotification carries everything needed to deliver a ticket to its
// holder without further database reads.
type TicketNotification struct {
	TicketID   string
	AccountID  string
	Email      string
	Name       string
	EventTitle string
	EventVenue string
	EventStart time.Time
	Token      string
}

// Notifier delivers a single ticket notification.
type Notifier interface {
	Send(ctx context.Context, n TicketNotification) error
}

// NotificationDispatcher enqueues notifications for asynchronous delivery.
// Enqueue never blocks the issuance result: delivery is best-effort.
type NotificationDispatcher interface {
	Enqueue(n TicketNotification)
}
