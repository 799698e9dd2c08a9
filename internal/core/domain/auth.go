package domain

import "time"

// Role determines what an operator may do
type Role string

const (
	RoleAdmin    Role = "admin"    // full control incl. core admin and pool config
	RoleOperator Role = "operator" // search, delete, entropy, exchanges
	RoleReadOnly Role = "readonly" // search and status only
)

// Operator represents an authenticated cluster operator
type Operator struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthContext contains authenticated operator info for request context
type AuthContext struct {
	OperatorID string `json:"operator_id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
}

// IsAdmin checks if the authenticated operator is an admin
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanWrite checks if the operator may mutate the index
func (a *AuthContext) CanWrite() bool {
	return a.Role == RoleAdmin || a.Role == RoleOperator
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful authentication
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
}

// TokenClaims represents the JWT token payload
type TokenClaims struct {
	OperatorID string `json:"operator_id"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	IssuedAt   int64  `json:"iat"`
	ExpiresAt  int64  `json:"exp"`
}
