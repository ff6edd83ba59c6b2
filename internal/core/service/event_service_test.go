package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eventhub/registration-system/internal/core/domain"
	"github.com/eventhub/registration-system/internal/core/ports"
)

func validEventInput() ports.CreateEventInput {
	return ports.CreateEventInput{
		Title:       "GopherCon",
		Description: "Three days of Go",
		Venue:       "Hall A",
		Capacity:    500,
		StartsAt:    time.Now().Add(24 * time.Hour),
		EndsAt:      time.Now().Add(72 * time.Hour),
	}
}

func TestCreateEvent_Success(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, discardLogger)

	event, err := svc.CreateEvent(context.Background(), validEventInput(), "acc-org")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if event.ID == "" {
		t.Fatalf("event id not assigned")
	}
	if !event.Active || event.Registered != 0 {
		t.Fatalf("new event state wrong: %+v", event)
	}
	if event.CreatedBy != "acc-org" {
		t.Fatalf("created_by = %q, want acc-org", event.CreatedBy)
	}
}

func TestCreateEvent_Rejections(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, discardLogger)

	cases := map[string]func(*ports.CreateEventInput){
		"empty title":       func(in *ports.CreateEventInput) { in.Title = "   " },
		"zero capacity":     func(in *ports.CreateEventInput) { in.Capacity = 0 },
		"negative capacity": func(in *ports.CreateEventInput) { in.Capacity = -5 },
		"huge capacity":     func(in *ports.CreateEventInput) { in.Capacity = maxCapacity + 1 },
		"missing starts_at": func(in *ports.CreateEventInput) { in.StartsAt = time.Time{} },
		"missing ends_at":   func(in *ports.CreateEventInput) { in.EndsAt = time.Time{} },
		"ends before start": func(in *ports.CreateEventInput) { in.EndsAt = in.StartsAt.Add(-time.Hour) },
		"ends equals start": func(in *ports.CreateEventInput) { in.EndsAt = in.StartsAt },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validEventInput()
			mutate(&input)
			if _, err := svc.CreateEvent(context.Background(), input, "acc-org"); err == nil {
				t.Fatalf("invalid input accepted")
			}
		})
	}
}

func TestListEvents_OnlyActive(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, discardLogger)

	repo.add(&domain.Event{ID: "evt-on", Title: "Live", Capacity: 10, Active: true,
		StartsAt: time.Now().Add(time.Hour), EndsAt: time.Now().Add(2 * time.Hour)})
	repo.add(&domain.Event{ID: "evt-off", Title: "Cancelled", Capacity: 10, Active: false,
		StartsAt: time.Now().Add(time.Hour), EndsAt: time.Now().Add(2 * time.Hour)})

	events, err := svc.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 || events[0].ID != "evt-on" {
		t.Fatalf("list = %+v, want only evt-on", events)
	}
}

func TestGetEvent(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, discardLogger)
	repo.add(&domain.Event{ID: "evt-1", Title: "Live", Capacity: 10, Active: true,
		StartsAt: time.Now().Add(time.Hour), EndsAt: time.Now().Add(2 * time.Hour)})

	got, err := svc.GetEvent(context.Background(), "evt-1")
	if err != nil || got.Title != "Live" {
		t.Fatalf("get: %+v, err %v", got, err)
	}

	if _, err := svc.GetEvent(context.Background(), ""); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("empty id: err = %v, want ErrEventNotFound", err)
	}
	if _, err := svc.GetEvent(context.Background(), "evt-missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("missing id: err = %v, want ErrEventNotFound", err)
	}
}
