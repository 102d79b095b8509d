package auth

import "time"

// Role is the coarse-grained authorization tag attached to a user.
// It is set at account creation and never mutated through this API.
type Role string

const (
	// RoleUser is the default role assigned by registration.
	RoleUser Role = "user"
	// RoleAdmin may create categories and products.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Token is an opaque bearer credential. The value carries no decodable
// structure; identity is established only by looking it up in the store.
// Many tokens may reference one user and none are ever revoked or expired
// by this subsystem.
type Token struct {
	Value    string    `json:"token"`
	UserID   int64     `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}
