package domain

import (
	"errors"
	"time"
)

const (
	RoleAttendee  = "attendee"
	RoleOrganizer = "organizer"
)

var ErrAccountNotFound = errors.New("account not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")

// Account models a registered actor: an attendee who holds tickets or an
// organizer who creates events and scans tickets at the door.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
