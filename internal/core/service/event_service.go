package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/registration-system/internal/core/domain"
	"github.com/eventhub/registration-system/internal/core/ports"
)

const maxCapacity = 100_000

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

func (s *eventService) CreateEvent(ctx context.Context, input ports.CreateEventInput, createdBy string) (*domain.Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, fmt.Errorf("event title is required")
	}
	if input.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be a positive integer")
	}
	if input.Capacity > maxCapacity {
		return nil, fmt.Errorf("capacity cannot exceed %d", maxCapacity)
	}
	if input.StartsAt.IsZero() || input.EndsAt.IsZero() {
		return nil, fmt.Errorf("starts_at and ends_at are required")
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, fmt.Errorf("ends_at must be after starts_at")
	}

	event := &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Venue:       input.Venue,
		Capacity:    input.Capacity,
		Registered:  0,
		StartsAt:    input.StartsAt.UTC(),
		EndsAt:      input.EndsAt.UTC(),
		Active:      true,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		s.log.Error().Err(err).Str("title", input.Title).Msg("failed to create event")
		return nil, err
	}

	s.log.Info().Str("event_id", created.ID).Str("title", created.Title).Int64("capacity", created.Capacity).Msg("event created")
	return created, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return s.repo.ListOpen(ctx)
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if id == "" {
		return nil, domain.ErrEventNotFound
	}
	return s.repo.FindByID(ctx, id)
}
