package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type createEventRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"       validate:"required"`
	Capacity    int64     `json:"capacity"    validate:"required,gt=0"`
	StartsAt    time.Time `json:"starts_at"   validate:"required"`
	EndsAt      time.Time `json:"ends_at"     validate:"required"`
}
