package driven

import "github.com/martinsumner/yokozuna/internal/core/domain"

// AuthAdapter handles authentication cryptographic operations.
// Operator records themselves live in the exchange database.
type AuthAdapter interface {
	// Password operations
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool

	// Token operations
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
