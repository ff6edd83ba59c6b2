package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventhub/registration-system/internal/core/domain"
	"github.com/eventhub/registration-system/internal/core/ports"
	"github.com/eventhub/registration-system/internal/pkg/token"
)

// TicketService implements ticket issuance and read accessors.
type TicketService struct {
	accounts   ports.AccountRepository
	events     ports.EventRepository
	tickets    ports.TicketRepository
	codec      *token.Codec
	dispatcher ports.NotificationDispatcher
	log        zerolog.Logger
	now        func() time.Time
}

func NewTicketService(
	accounts ports.AccountRepository,
	events ports.EventRepository,
	tickets ports.TicketRepository,
	codec *token.Codec,
	dispatcher ports.NotificationDispatcher,
	log zerolog.Logger,
) *TicketService {
	return &TicketService{
		accounts:   accounts,
		events:     events,
		tickets:    tickets,
		codec:      codec,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// IssueTicket creates a ticket for the account against the event's capacity.
//
// A capacity slot is reserved first with a store-side conditional increment,
// then the ticket is inserted under the (account, event) unique index. When
// the insert loses the uniqueness race the reservation is released, so the
// counter and the ledger always commit together or not at all. Readers can
// never observe a ticket without its slot; a reserved slot without a ticket
// exists only inside this call.
func (s *TicketService) IssueTicket(ctx context.Context, accountID, eventID string) (*domain.Ticket, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if !event.OpenAt(now) {
		return nil, domain.ErrEventClosed
	}

	// Fast path: reject an obvious duplicate without touching the counter.
	// The unique index below remains the authority under concurrency.
	if existing, err := s.tickets.FindByPair(ctx, accountID, eventID); err == nil && existing != nil {
		return nil, domain.ErrDuplicateRegistration
	}

	if err := s.events.ReserveSlot(ctx, eventID); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:        uuid.NewString(),
		AccountID: accountID,
		EventID:   eventID,
		Scanned:   false,
		IssuedAt:  now,
	}

	signed, err := s.codec.Sign(token.Payload{
		TicketID:  ticket.ID,
		EventID:   eventID,
		AccountID: accountID,
		IssuedAt:  now,
	})
	if err != nil {
		s.releaseSlot(ctx, eventID)
		return nil, err
	}
	ticket.Token = signed

	if err := s.tickets.Insert(ctx, ticket); err != nil {
		s.releaseSlot(ctx, eventID)
		if errors.Is(err, domain.ErrDuplicateRegistration) {
			return nil, domain.ErrDuplicateRegistration
		}
		s.log.Error().Err(err).Str("event_id", eventID).Str("account_id", accountID).Msg("failed to insert ticket")
		return nil, err
	}

	s.log.Info().
		Str("ticket_id", ticket.ID).
		Str("event_id", eventID).
		Str("account_id", accountID).
		Msg("ticket issued")

	// Best-effort notification; never affects the issuance result.
	if s.dispatcher != nil {
		s.dispatcher.Enqueue(ports.TicketNotification{
			TicketID:   ticket.ID,
			AccountID:  accountID,
			Email:      account.Email,
			Name:       account.Name,
			EventTitle: event.Title,
			EventVenue: event.Venue,
			EventStart: event.StartsAt,
			Token:      ticket.Token,
		})
	}

	return ticket, nil
}

func (s *TicketService) releaseSlot(ctx context.Context, eventID string) {
	if err := s.events.ReleaseSlot(ctx, eventID); err != nil {
		s.log.Error().Err(err).Str("event_id", eventID).Msg("failed to release reserved slot")
	}
}

// GetTicket returns a single ticket. Organizers see every ticket; attendees
// only their own.
func (s *TicketService) GetTicket(ctx context.Context, input ports.GetTicketInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, input.TicketID)
	if err != nil {
		return nil, err
	}
	if input.Role != domain.RoleOrganizer && ticket.AccountID != input.AccountID {
		return nil, domain.ErrForbidden
	}
	return ticket, nil
}

// GetTicketDetail resolves the ticket together with its owner and event,
// subject to the same ownership rules as GetTicket.
func (s *TicketService) GetTicketDetail(ctx context.Context, input ports.GetTicketInput) (*ports.TicketDetail, error) {
	ticket, err := s.GetTicket(ctx, input)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, ticket.AccountID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.FindByID(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	return &ports.TicketDetail{Ticket: ticket, Account: account, Event: event}, nil
}

// ListTickets returns tickets, optionally scoped to one event.
func (s *TicketService) ListTickets(ctx context.Context, eventID string) ([]*domain.Ticket, error) {
	return s.tickets.List(ctx, eventID)
}
