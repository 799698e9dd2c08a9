package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
	"github.com/martinsumner/yokozuna/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface. Tokens are stateless
// JWTs; there is no session store to invalidate, expiry does the work.
type authService struct {
	operators   driven.OperatorStore
	authAdapter driven.AuthAdapter
	tokenTTL    time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(operators driven.OperatorStore, authAdapter driven.AuthAdapter) driving.AuthService {
	return &authService{
		operators:   operators,
		authAdapter: authAdapter,
		tokenTTL:    24 * time.Hour,
	}
}

// Authenticate validates credentials and issues a token
func (s *authService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	// Validate input
	if req.Name == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	// An unknown name and a wrong password answer the same way
	op, err := s.operators.GetByName(ctx, req.Name)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.authAdapter.VerifyPassword(req.Password, op.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := &domain.TokenClaims{
		OperatorID: op.ID,
		Name:       op.Name,
		Role:       op.Role,
		IssuedAt:   time.Now().Unix(),
		ExpiresAt:  expiresAt.Unix(),
	}

	token, err := s.authAdapter.GenerateToken(claims)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Name:      op.Name,
		Role:      op.Role,
	}, nil
}

// ValidateToken validates a JWT token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return nil, err
	}

	// Check expiration
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}

	return &domain.AuthContext{
		OperatorID: claims.OperatorID,
		Name:       claims.Name,
		Role:       claims.Role,
	}, nil
}

// EnsureOperator creates an operator if the name is free. Used to seed the
// initial admin from configuration at startup; an existing operator is left
// untouched, including its password.
func (s *authService) EnsureOperator(ctx context.Context, name, password string, role domain.Role) error {
	if name == "" || password == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.operators.GetByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := s.authAdapter.HashPassword(password)
	if err != nil {
		return err
	}

	op := &domain.Operator{
		ID:           generateID(),
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	return s.operators.Save(ctx, op)
}

// Helper functions

func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
