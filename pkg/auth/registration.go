package auth

import (
	"context"
	"errors"

	"github.com/KeenIsHere/reactecom/pkg/observability"
)

// RegistrationService creates new user accounts. Registration never
// issues a token and never grants the admin role.
type RegistrationService struct {
	store  Store
	hasher Hasher
	logger *observability.Logger
}

// NewRegistrationService creates a registration service.
func NewRegistrationService(store Store, hasher Hasher, logger *observability.Logger) *RegistrationService {
	return &RegistrationService{store: store, hasher: hasher, logger: logger}
}

// Register validates the request, hashes the password and inserts the
// user with role "user". The email lookup gives a friendly duplicate
// answer; the unique constraint on users.email is what actually enforces
// uniqueness under concurrent registrations, so a duplicate surfacing at
// insert time maps to ErrDuplicateEmail as well.
func (s *RegistrationService) Register(ctx context.Context, email, password, fullName string) (int64, error) {
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if fullName == "" {
		missing = append(missing, "full_name")
	}
	if len(missing) > 0 {
		return 0, NewMissingFieldError(missing...)
	}

	_, err := s.store.FindUserByEmail(ctx, email)
	if err == nil {
		return 0, ErrDuplicateEmail
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.WithError(err).WithField("email", email).Error("registration: email lookup failed")
		return 0, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.WithError(err).Error("registration: password hashing unavailable")
		return 0, err
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         RoleUser,
	}

	id, err := s.store.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return 0, ErrDuplicateEmail
		}
		s.logger.WithError(err).WithField("email", email).Error("registration: user insert failed")
		return 0, err
	}

	s.logger.WithField("user_id", id).Info("user registered")
	return id, nil
}
