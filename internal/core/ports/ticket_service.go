package ports

import (
	"context"
	"time"

	"github.com/eventhub/registration-system/internal/core/domain"
)

// GetTicketInput carries the parameters for retrieving a single ticket.
// Role and AccountID enforce ownership: attendees only see their own tickets.
type GetTicketInput struct {
	TicketID  string
	Role      string
	AccountID string
}

// TicketDetail bundles a ticket with its owner and event for rendering
// (QR download pages, PDF export, email templates).
type TicketDetail struct {
	Ticket  *domain.Ticket
	Account *domain.Account
	Event   *domain.Event
}

// TicketService defines the issuance use case and read accessors.
type TicketService interface {
	// IssueTicket creates a ticket for the account against the event's
	// capacity. The capacity check, pair-uniqueness check, and counter
	// increment behave as one atomic unit per event.
	IssueTicket(ctx context.Context, accountID, eventID string) (*domain.Ticket, error)
	GetTicket(ctx context.Context, input GetTicketInput) (*domain.Ticket, error)
	GetTicketDetail(ctx context.Context, input GetTicketInput) (*TicketDetail, error)
	ListTickets(ctx context.Context, eventID string) ([]*domain.Ticket, error)
}

// ScanResult is returned when a scan is admitted.
type ScanResult struct {
	TicketID  string
	AccountID string
	EventID   string
	ScannedAt time.Time
}

// ValidationService consumes scanned tokens at the point of entry.
type ValidationService interface {
	// ValidateScan verifies the token, resolves the ticket, and atomically
	// transitions it unscanned→scanned. Rejections are final for the
	// attempt: domain.ErrInvalidToken, domain.ErrTicketNotFound, or
	// *domain.AlreadyScannedError carrying the first scan time.
	ValidateScan(ctx context.Context, token, scannedBy string) (*ScanResult, error)
}
