package handler

import "time"

type issueTicketRequest struct {
	EventID string `json:"event_id" validate:"required"`
}

type validateScanRequest struct {
	Token     string `json:"token"      validate:"required"`
	ScannedBy string `json:"scanned_by"`
}

// scanResponse covers every validation outcome; Result is one of
// "admitted", "duplicate", "invalid", "unknown".
type scanResponse struct {
	Result    string     `json:"result"`
	TicketID  string     `json:"ticket_id,omitempty"`
	AccountID string     `json:"account_id,omitempty"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
}
