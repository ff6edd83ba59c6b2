package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrTicketNotFound = errors.New("ticket not found")
var ErrDuplicateRegistration = errors.New("account already holds a ticket for this event")
var ErrInvalidToken = errors.New("invalid ticket token")

// AlreadyScannedError reports a scan attempt against a ticket that was
// already consumed, carrying the time of the first successful scan so the
// operator can distinguish a reused ticket from a forged one.
type AlreadyScannedError struct {
	TicketID  string
	ScannedAt time.Time
}

func (e *AlreadyScannedError) Error() string {
	return fmt.Sprintf("ticket %s already scanned at %s", e.TicketID, e.ScannedAt.Format(time.RFC3339))
}

// Ticket entitles one account to one admission to one event. A ticket is
// created at most once per (account, event) pair and its Scanned flag
// transitions false→true exactly once, ever.
type Ticket struct {
	ID        string     `json:"id" bson:"_id"`
	AccountID string     `json:"account_id" bson:"account_id"`
	EventID   string     `json:"event_id" bson:"event_id"`
	Token     string     `json:"token" bson:"token"`
	Scanned   bool       `json:"scanned" bson:"scanned"`
	IssuedAt  time.Time  `json:"issued_at" bson:"issued_at"`
	ScannedAt *time.Time `json:"scanned_at,omitempty" bson:"scanned_at,omitempty"`
	ScannedBy string     `json:"scanned_by,omitempty" bson:"scanned_by,omitempty"`
}
