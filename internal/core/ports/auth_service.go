package ports

import (
	"context"

	"github.com/eventhub/registration-system/internal/core/domain"
)

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // defaults to attendee when empty
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	// Me resolves the authenticated account from its token claims.
	Me(ctx context.Context, accountID string) (*domain.Account, error)
}
