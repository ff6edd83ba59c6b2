package ports

import (
	"context"
	"time"

	"github.com/eventhub/registration-system/internal/core/domain"
)

// TicketRepository defines persistence operations for the ticket ledger.
type TicketRepository interface {
	// Insert persists a new ticket. A uniqueness violation on
	// (account_id, event_id) yields domain.ErrDuplicateRegistration.
	Insert(ctx context.Context, t *domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	FindByPair(ctx context.Context, accountID, eventID string) (*domain.Ticket, error)
	// List returns tickets, newest first, optionally filtered by event.
	List(ctx context.Context, eventID string) ([]*domain.Ticket, error)

	// ClaimScan atomically flips the ticket from unscanned to scanned and
	// returns the updated ticket. When no unscanned ticket with this id
	// exists (absent or already consumed) it returns
	// domain.ErrTicketNotFound; the caller disambiguates the two cases.
	ClaimScan(ctx context.Context, ticketID string, at time.Time, by string) (*domain.Ticket, error)
}
