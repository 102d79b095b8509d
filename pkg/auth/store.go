package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Store is the credential store boundary: user records and issued tokens.
// Implementations must enforce uniqueness of users.email and tokens.token
// at the storage layer; the services rely on those constraints being
// race-free rather than on their own check-then-insert sequences.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, user *User) (int64, error)
	FindTokenByValue(ctx context.Context, value string) (*Token, error)
	CreateToken(ctx context.Context, token *Token) error
}

// SQLStore implements Store on database/sql with parameterized queries.
// It works against PostgreSQL and SQLite.
type SQLStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSQLStore creates a SQL-backed credential store. A non-zero timeout
// bounds every query; expiry surfaces as a StorageError.
func NewSQLStore(db *sql.DB, timeout time.Duration) *SQLStore {
	return &SQLStore{db: db, timeout: timeout}
}

func (s *SQLStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// FindUserByEmail looks up a user by exact email match. Returns
// ErrNotFound when no account exists.
func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	user := &User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, role, created_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "find user by email", Err: err}
	}
	return user, nil
}

// FindUserByID looks up a user by primary key.
func (s *SQLStore) FindUserByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	user := &User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, role, created_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "find user by id", Err: err}
	}
	return user, nil
}

// CreateUser inserts a new user record and returns its assigned id.
// A unique violation on email maps to ErrDuplicateEmail, which makes the
// insert itself the race-free duplicate check.
func (s *SQLStore) CreateUser(ctx context.Context, user *User) (int64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Email, user.PasswordHash, user.FullName, user.Role).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, &StorageError{Op: "create user", Err: err}
	}
	user.ID = id
	return id, nil
}

// FindTokenByValue looks up an issued token by exact value match.
func (s *SQLStore) FindTokenByValue(ctx context.Context, value string) (*Token, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	token := &Token{}
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_id, issued_at
		FROM tokens WHERE token = $1
	`, value).Scan(&token.Value, &token.UserID, &token.IssuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "find token", Err: err}
	}
	return token, nil
}

// CreateToken persists a newly minted token. A unique violation on the
// token value maps to ErrDuplicateToken so the caller can regenerate.
func (s *SQLStore) CreateToken(ctx context.Context, token *Token) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	issuedAt := token.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (token, user_id, issued_at)
		VALUES ($1, $2, $3)
	`, token.Value, token.UserID, issuedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateToken
		}
		return &StorageError{Op: "create token", Err: err}
	}
	token.IssuedAt = issuedAt
	return nil
}

// isUniqueViolation detects unique-constraint errors from both drivers:
// pq error code 23505 and the sqlite UNIQUE constraint message.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
