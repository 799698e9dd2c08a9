package driving

import (
	"context"

	"github.com/martinsumner/yokozuna/internal/core/domain"
)

// AuthService handles operator authentication
type AuthService interface {
	// Authenticate validates credentials and issues a token
	Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)

	// ValidateToken validates a JWT token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// EnsureOperator creates an operator if the name is free. Used to seed
	// the initial admin from configuration at startup.
	EnsureOperator(ctx context.Context, name, password string, role domain.Role) error
}
