package auth

import (
	"context"
	"errors"

	"github.com/KeenIsHere/reactecom/pkg/observability"
)

// tokenInsertAttempts bounds the collision retry: one regeneration after
// a duplicate token value, then fail.
const tokenInsertAttempts = 2

// LoginResult is returned to the caller on successful authentication.
// The token is the only artifact needed for subsequent requests and must
// be treated as a secret.
type LoginResult struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Role   Role   `json:"role"`
}

// LoginService verifies credentials and mints bearer tokens. Every
// successful login issues a fresh token; earlier tokens stay valid.
type LoginService struct {
	store  Store
	hasher Hasher
	tokens *TokenGenerator
	logger *observability.Logger
}

// NewLoginService creates a login service.
func NewLoginService(store Store, hasher Hasher, tokens *TokenGenerator, logger *observability.Logger) *LoginService {
	return &LoginService{store: store, hasher: hasher, tokens: tokens, logger: logger}
}

// Login authenticates email/password and returns a newly issued token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *LoginService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, NewMissingFieldError(missing...)
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.WithError(err).Error("login: user lookup failed")
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	for attempt := 0; attempt < tokenInsertAttempts; attempt++ {
		value, err := s.tokens.Generate()
		if err != nil {
			s.logger.WithError(err).Error("login: token generation failed")
			return nil, err
		}

		err = s.store.CreateToken(ctx, &Token{Value: value, UserID: user.ID})
		if errors.Is(err, ErrDuplicateToken) {
			s.logger.WithField("user_id", user.ID).Warn("login: token collision, regenerating")
			continue
		}
		if err != nil {
			s.logger.WithError(err).WithField("user_id", user.ID).Error("login: token insert failed")
			return nil, err
		}

		s.logger.WithField("user_id", user.ID).Info("user logged in")
		return &LoginResult{Token: value, UserID: user.ID, Role: user.Role}, nil
	}

	return nil, &StorageError{Op: "create token", Err: ErrDuplicateToken}
}
