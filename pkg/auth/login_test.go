package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/KeenIsHere/reactecom/pkg/observability"
)

func newLoginFixture(t *testing.T) (*LoginService, *RegistrationService, *SQLStore) {
	t.Helper()
	store := NewSQLStore(setupTestDB(t), 5*time.Second)
	hasher := NewBcryptHasher(bcrypt.MinCost)
	logger := observability.NewNopLogger()
	login := NewLoginService(store, hasher, NewTokenGenerator(), logger)
	registration := NewRegistrationService(store, hasher, logger)
	return login, registration, store
}

func TestLoginIssuesToken(t *testing.T) {
	login, registration, store := newLoginFixture(t)
	ctx := context.Background()

	userID, err := registration.Register(ctx, "user@example.com", "secret123", "Jane Doe")
	require.NoError(t, err)

	result, err := login.Login(ctx, "user@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, userID, result.UserID)
	assert.Equal(t, RoleUser, result.Role)
	assert.Len(t, result.Token, TokenHexLength)

	token, err := store.FindTokenByValue(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, token.UserID)
}

func TestLoginTwiceKeepsBothTokensValid(t *testing.T) {
	login, registration, store := newLoginFixture(t)
	ctx := context.Background()

	_, err := registration.Register(ctx, "user@example.com", "secret123", "Jane Doe")
	require.NoError(t, err)

	first, err := login.Login(ctx, "user@example.com", "secret123")
	require.NoError(t, err)
	second, err := login.Login(ctx, "user@example.com", "secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	for _, token := range []string{first.Token, second.Token} {
		_, err := store.FindTokenByValue(ctx, token)
		assert.NoError(t, err, "earlier tokens stay valid")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	login, registration, _ := newLoginFixture(t)
	ctx := context.Background()

	_, err := registration.Register(ctx, "user@example.com", "secret123", "Jane Doe")
	require.NoError(t, err)

	_, err = login.Login(ctx, "user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = login.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown email must be indistinguishable from wrong password")
}

func TestLoginMissingFields(t *testing.T) {
	login, _, _ := newLoginFixture(t)
	ctx := context.Background()

	_, err := login.Login(ctx, "", "")
	require.Error(t, err)
	assert.Equal(t, "email and password are required", err.Error())

	_, err = login.Login(ctx, "user@example.com", "")
	require.Error(t, err)
	assert.Equal(t, "password is required", err.Error())
}

// collidingStore wraps a Store and fails token inserts with
// ErrDuplicateToken a fixed number of times.
type collidingStore struct {
	Store
	collisions int
	attempts   int
}

func (s *collidingStore) CreateToken(ctx context.Context, token *Token) error {
	s.attempts++
	if s.attempts <= s.collisions {
		return ErrDuplicateToken
	}
	return s.Store.CreateToken(ctx, token)
}

func TestLoginRetriesOnceOnTokenCollision(t *testing.T) {
	_, registration, store := newLoginFixture(t)
	ctx := context.Background()

	_, err := registration.Register(ctx, "user@example.com", "secret123", "Jane Doe")
	require.NoError(t, err)

	colliding := &collidingStore{Store: store, collisions: 1}
	login := NewLoginService(colliding, NewBcryptHasher(bcrypt.MinCost), NewTokenGenerator(), observability.NewNopLogger())

	result, err := login.Login(ctx, "user@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, 2, colliding.attempts)
}

func TestLoginGivesUpAfterSecondCollision(t *testing.T) {
	_, registration, store := newLoginFixture(t)
	ctx := context.Background()

	_, err := registration.Register(ctx, "user@example.com", "secret123", "Jane Doe")
	require.NoError(t, err)

	colliding := &collidingStore{Store: store, collisions: 2}
	login := NewLoginService(colliding, NewBcryptHasher(bcrypt.MinCost), NewTokenGenerator(), observability.NewNopLogger())

	_, err = login.Login(ctx, "user@example.com", "secret123")
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.Equal(t, 2, colliding.attempts, "exactly one regeneration, then fail")
}
