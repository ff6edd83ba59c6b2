package ports

import (
	"context"
	"time"

	"github.com/eventhub/registration-system/internal/core/domain"
)

// CreateEventInput carries all data needed to create a new event.
type CreateEventInput struct {
	Title       string
	Description string
	Venue       string
	Capacity    int64
	StartsAt    time.Time
	EndsAt      time.Time
}

// EventService defines use-case operations for events.
type EventService interface {
	CreateEvent(ctx context.Context, input CreateEventInput, createdBy string) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
}
