package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/registration-system/internal/core/domain"
	"github.com/eventhub/registration-system/internal/core/ports"
	"github.com/eventhub/registration-system/internal/pkg/token"
)

// ValidationService consumes scanned tokens at the point of entry.
type ValidationService struct {
	tickets ports.TicketRepository
	codec   *token.Codec
	log     zerolog.Logger
	now     func() time.Time
}

func NewValidationService(tickets ports.TicketRepository, codec *token.Codec, log zerolog.Logger) *ValidationService {
	return &ValidationService{tickets: tickets, codec: codec, log: log, now: time.Now}
}

// ValidateScan verifies the token and atomically transitions the ticket
// unscanned→scanned. Exactly one call per ticket ever returns a ScanResult;
// every later attempt gets the original scan time back.
func (s *ValidationService) ValidateScan(ctx context.Context, raw, scannedBy string) (*ports.ScanResult, error) {
	payload, err := s.codec.Verify(raw)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claimed, err := s.tickets.ClaimScan(ctx, payload.TicketID, s.now().UTC(), scannedBy)
	if err == nil {
		s.log.Info().
			Str("ticket_id", claimed.ID).
			Str("event_id", claimed.EventID).
			Str("scanned_by", scannedBy).
			Msg("ticket admitted")
		return &ports.ScanResult{
			TicketID:  claimed.ID,
			AccountID: claimed.AccountID,
			EventID:   claimed.EventID,
			ScannedAt: *claimed.ScannedAt,
		}, nil
	}
	if !errors.Is(err, domain.ErrTicketNotFound) {
		return nil, err
	}

	// The conditional update matched nothing: either the ticket does not
	// exist or it was already consumed. Look it up to tell the two apart.
	ticket, findErr := s.tickets.FindByID(ctx, payload.TicketID)
	if findErr != nil {
		return nil, domain.ErrTicketNotFound
	}
	if ticket.Scanned && ticket.ScannedAt != nil {
		s.log.Warn().
			Str("ticket_id", ticket.ID).
			Time("first_scan", *ticket.ScannedAt).
			Str("scanned_by", scannedBy).
			Msg("duplicate scan rejected")
		return nil, &domain.AlreadyScannedError{TicketID: ticket.ID, ScannedAt: *ticket.ScannedAt}
	}
	return nil, domain.ErrTicketNotFound
}
