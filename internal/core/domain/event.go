package domain

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")
var ErrEventClosed = errors.New("event is not open for registration")
var ErrEventFull = errors.New("event is fully booked")

// Event is a registrable happening with a fixed venue capacity.
// Registered only ever moves upward and never exceeds Capacity; the
// increment is performed by the issuance flow with a conditional update.
type Event struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Venue       string    `json:"venue" bson:"venue"`
	Capacity    int64     `json:"capacity" bson:"capacity"`
	Registered  int64     `json:"registered" bson:"registered"`
	StartsAt    time.Time `json:"starts_at" bson:"starts_at"`
	EndsAt      time.Time `json:"ends_at" bson:"ends_at"`
	Active      bool      `json:"active" bson:"active"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// OpenAt reports whether the event accepts registrations at the given time.
// Registration closes when the event ends, not when it starts, so attendees
// can still register while doors are open.
func (e *Event) OpenAt(now time.Time) bool {
	return e.Active && now.Before(e.EndsAt)
}
