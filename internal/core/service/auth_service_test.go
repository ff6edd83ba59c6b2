package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eventhub/registration-system/internal/core/domain"
	"github.com/eventhub/registration-system/internal/core/ports"
)

const testJWTSecret = "test-jwt-secret"

func newAuthFixture() (*stubAccountRepo, *AuthService) {
	repo := newStubAccountRepo()
	return repo, NewAuthService(repo, testJWTSecret, time.Hour)
}

func TestRegister_DefaultsToAttendee(t *testing.T) {
	_, svc := newAuthFixture()

	account, tok, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ada", Email: "Ada@Example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if account.Role != domain.RoleAttendee {
		t.Fatalf("role = %q, want attendee", account.Role)
	}
	if account.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", account.Email)
	}
	if account.PasswordHash == "hunter22" || account.PasswordHash == "" {
		t.Fatalf("password stored in the clear or missing")
	}
	if tok == "" {
		t.Fatalf("no token issued on registration")
	}
}

func TestRegister_TokenCarriesIdentityClaims(t *testing.T) {
	_, svc := newAuthFixture()

	account, tok, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22", Role: domain.RoleOrganizer,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["account_id"] != account.ID || claims["email"] != "ada@example.com" || claims["role"] != domain.RoleOrganizer {
		t.Fatalf("claims wrong: %+v", claims)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture()

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Imposter", Email: "ADA@example.com", Password: "other-pass",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	_, svc := newAuthFixture()

	for _, input := range []ports.RegisterInput{
		{Email: "a@b.com", Password: "pw"},
		{Name: "Ada", Password: "pw"},
		{Name: "Ada", Email: "a@b.com"},
		{Name: "Ada", Email: "a@b.com", Password: "pw", Role: "superuser"},
	} {
		if _, _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("input %+v: err = %v, want ErrInvalidCredentials", input, err)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	_, svc := newAuthFixture()
	account, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	tok, got, err := svc.Login(context.Background(), "ADA@example.com ", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok == "" || got.ID != account.ID {
		t.Fatalf("login returned token=%q account=%+v", tok, got)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	_, svc := newAuthFixture()
	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "ada@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, svc := newAuthFixture()

	// Unknown email and bad password must be indistinguishable.
	if _, _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestMe(t *testing.T) {
	_, svc := newAuthFixture()
	account, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ada", Email: "ada@example.com", Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.Me(context.Background(), account.ID)
	if err != nil || got.Email != "ada@example.com" {
		t.Fatalf("me: %+v, err %v", got, err)
	}

	if _, err := svc.Me(context.Background(), "acc-missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}
