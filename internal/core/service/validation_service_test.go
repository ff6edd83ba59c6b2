package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eventhub/registration-system/internal/core/domain"
	"github.com/eventhub/registration-system/internal/pkg/token"
)

// seedTicket inserts an unscanned ticket with a valid signed token directly
// into the stub ledger and returns it.
func seedTicket(t *testing.T, repo *stubTicketRepo) *domain.Ticket {
	t.Helper()
	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:        uuid.NewString(),
		AccountID: "acc-1",
		EventID:   "evt-1",
		IssuedAt:  now,
	}
	signed, err := testCodec.Sign(token.Payload{
		TicketID:  ticket.ID,
		EventID:   ticket.EventID,
		AccountID: ticket.AccountID,
		IssuedAt:  now,
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	ticket.Token = signed
	if err := repo.Insert(context.Background(), ticket); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return ticket
}

func TestValidateScan_Admitted(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewValidationService(repo, testCodec, discardLogger)
	ticket := seedTicket(t, repo)

	result, err := svc.ValidateScan(context.Background(), ticket.Token, "door-3")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if result.TicketID != ticket.ID || result.AccountID != "acc-1" || result.EventID != "evt-1" {
		t.Fatalf("result wrong: %+v", result)
	}
	if result.ScannedAt.IsZero() {
		t.Fatalf("scan time not stamped")
	}

	stored, _ := repo.FindByID(context.Background(), ticket.ID)
	if !stored.Scanned || stored.ScannedBy != "door-3" {
		t.Fatalf("ledger not updated: %+v", stored)
	}
}

func TestValidateScan_SecondScanRejectedWithOriginalTime(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewValidationService(repo, testCodec, discardLogger)
	ticket := seedTicket(t, repo)

	first, err := svc.ValidateScan(context.Background(), ticket.Token, "door-1")
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}

	_, err = svc.ValidateScan(context.Background(), ticket.Token, "door-2")
	var dup *domain.AlreadyScannedError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want AlreadyScannedError", err)
	}
	if !dup.ScannedAt.Equal(first.ScannedAt) {
		t.Fatalf("duplicate reports %v, want original scan time %v", dup.ScannedAt, first.ScannedAt)
	}

	// Still rejected on every further attempt, always with the same time.
	_, err = svc.ValidateScan(context.Background(), ticket.Token, "door-2")
	var again *domain.AlreadyScannedError
	if !errors.As(err, &again) || !again.ScannedAt.Equal(first.ScannedAt) {
		t.Fatalf("third scan: err = %v", err)
	}
}

func TestValidateScan_ConcurrentScansAdmitOnce(t *testing.T) {
	const attempts = 20
	repo := newStubTicketRepo()
	svc := NewValidationService(repo, testCodec, discardLogger)
	ticket := seedTicket(t, repo)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted, duplicates := 0, 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ValidateScan(context.Background(), ticket.Token, "door")
			mu.Lock()
			defer mu.Unlock()
			var dup *domain.AlreadyScannedError
			switch {
			case err == nil:
				admitted++
			case errors.As(err, &dup):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if admitted != 1 {
		t.Fatalf("%d scans admitted, want exactly 1", admitted)
	}
	if duplicates != attempts-1 {
		t.Fatalf("%d duplicates, want %d", duplicates, attempts-1)
	}
}

func TestValidateScan_InvalidToken(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewValidationService(repo, testCodec, discardLogger)
	ticket := seedTicket(t, repo)

	for _, raw := range []string{
		"",
		"garbage",
		ticket.Token + "x",
		ticket.Token[:len(ticket.Token)-2],
	} {
		if _, err := svc.ValidateScan(context.Background(), raw, "door"); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token %q: err = %v, want ErrInvalidToken", raw, err)
		}
	}

	// Rejection must not touch ticket state.
	stored, _ := repo.FindByID(context.Background(), ticket.ID)
	if stored.Scanned {
		t.Fatalf("invalid scans mutated the ticket")
	}
}

func TestValidateScan_ForeignKeyToken(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewValidationService(repo, testCodec, discardLogger)
	ticket := seedTicket(t, repo)

	// Well-formed token signed with a different key: structurally valid,
	// not signed by us.
	forged, err := token.NewCodec("attacker-key").Sign(token.Payload{
		TicketID:  ticket.ID,
		EventID:   ticket.EventID,
		AccountID: ticket.AccountID,
		IssuedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ValidateScan(context.Background(), forged, "door"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
	stored, _ := repo.FindByID(context.Background(), ticket.ID)
	if stored.Scanned {
		t.Fatalf("forged scan mutated the ticket")
	}
}

func TestValidateScan_UnknownTicket(t *testing.T) {
	repo := newStubTicketRepo()
	svc := NewValidationService(repo, testCodec, discardLogger)

	// Valid signature, but no such ticket in the ledger.
	signed, err := testCodec.Sign(token.Payload{
		TicketID:  uuid.NewString(),
		EventID:   "evt-1",
		AccountID: "acc-1",
		IssuedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ValidateScan(context.Background(), signed, "door"); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("err = %v, want ErrTicketNotFound", err)
	}
}
