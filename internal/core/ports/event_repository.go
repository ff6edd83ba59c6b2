package ports

import (
	"context"

	"github.com/eventhub/registration-system/internal/core/domain"
)

// EventRepository handles event persistence and the capacity counter.
//
// ReserveSlot and ReleaseSlot exist so the issuance flow can treat the
// capacity check and the registration-count increment as one atomic unit:
// the increment only happens when registered < capacity, evaluated by the
// store, never by application-level read-modify-write.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	// ListOpen returns active events ordered by start time ascending.
	ListOpen(ctx context.Context) ([]*domain.Event, error)

	// ReserveSlot atomically increments the registration counter iff a slot
	// remains. Returns domain.ErrEventFull when the event is at capacity and
	// domain.ErrEventNotFound when the event does not exist.
	ReserveSlot(ctx context.Context, eventID string) error
	// ReleaseSlot undoes a reservation whose ticket insert lost the
	// (account, event) uniqueness race.
	ReleaseSlot(ctx context.Context, eventID string) error
}
