package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eventhub/registration-system/internal/core/domain"
)

func testPayload() Payload {
	return Payload{
		TicketID:  "tic-123",
		EventID:   "evt-456",
		AccountID: "acc-789",
		IssuedAt:  time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := NewCodec("signing-key")

	signed, err := c.Sign(testPayload())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, err := c.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.TicketID != "tic-123" || got.EventID != "evt-456" || got.AccountID != "acc-789" {
		t.Fatalf("payload mismatch: %+v", got)
	}
	if !got.IssuedAt.Equal(testPayload().IssuedAt) {
		t.Fatalf("issued_at mismatch: %v", got.IssuedAt)
	}
}

func TestCodec_SignIsDeterministic(t *testing.T) {
	c := NewCodec("signing-key")

	a, _ := c.Sign(testPayload())
	b, _ := c.Sign(testPayload())
	if a != b {
		t.Fatalf("same payload produced different tokens")
	}
}

func TestCodec_TamperedTokenRejected(t *testing.T) {
	c := NewCodec("signing-key")
	signed, err := c.Sign(testPayload())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Flip a single character in every position; none may verify.
	for i := 0; i < len(signed); i++ {
		mutated := []byte(signed)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if string(mutated) == signed {
			continue
		}
		if _, err := c.Verify(string(mutated)); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("tampered token at position %d verified", i)
		}
	}
}

func TestCodec_TruncatedTokenRejected(t *testing.T) {
	c := NewCodec("signing-key")
	signed, _ := c.Sign(testPayload())

	for _, tok := range []string{
		signed[:len(signed)-1],
		signed[:strings.Index(signed, ".")],
		strings.Split(signed, ".")[0] + ".",
		"." + strings.Split(signed, ".")[1],
		"",
		".",
		"not-a-token",
	} {
		if _, err := c.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("malformed token %q verified", tok)
		}
	}
}

func TestCodec_WrongKeyRejected(t *testing.T) {
	signed, _ := NewCodec("key-one").Sign(testPayload())

	if _, err := NewCodec("key-two").Verify(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("token signed with a different key verified")
	}
}

func TestCodec_EmptyTicketIDRejected(t *testing.T) {
	c := NewCodec("signing-key")
	signed, _ := c.Sign(Payload{EventID: "evt-1", AccountID: "acc-1", IssuedAt: time.Now()})

	if _, err := c.Verify(signed); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("payload without ticket id verified")
	}
}
