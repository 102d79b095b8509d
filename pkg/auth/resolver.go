package auth

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Resolver turns a presented token into an identity and gates privileged
// operations on role. It is request-scoped and safe for concurrent use;
// the credential store is the only shared resource.
type Resolver struct {
	store  Store
	format *TokenGenerator
	// cache maps token value to user id. Safe because tokens are
	// immutable and never revoked or expired within this design; a
	// cached hit always matches what the store would return.
	cache *lru.Cache[string, int64]
}

// NewResolver creates a resolver. cacheSize <= 0 disables the resolution
// cache.
func NewResolver(store Store, cacheSize int) *Resolver {
	r := &Resolver{store: store, format: NewTokenGenerator()}
	if cacheSize > 0 {
		// lru.New errors only on non-positive size, guarded above.
		cache, err := lru.New[string, int64](cacheSize)
		if err == nil {
			r.cache = cache
		}
	}
	return r
}

// ResolveUser returns the user id owning the token, or ErrTokenNotFound
// for values that were never issued. Repeated calls with the same valid
// token return the same id until the backing data is externally mutated.
func (r *Resolver) ResolveUser(ctx context.Context, tokenValue string) (int64, error) {
	// A value that could not have been issued is unknown by definition,
	// no store round trip needed.
	if err := r.format.ValidateFormat(tokenValue); err != nil {
		return 0, ErrTokenNotFound
	}

	if r.cache != nil {
		if userID, ok := r.cache.Get(tokenValue); ok {
			return userID, nil
		}
	}

	token, err := r.store.FindTokenByValue(ctx, tokenValue)
	if errors.Is(err, ErrNotFound) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}

	if r.cache != nil {
		r.cache.Add(tokenValue, token.UserID)
	}
	return token.UserID, nil
}

// RequireRole resolves the token and checks the owning user's role.
// A valid token with the wrong role returns ErrUnauthorized together with
// the resolved user id; an unresolvable token propagates ErrTokenNotFound.
func (r *Resolver) RequireRole(ctx context.Context, tokenValue string, role Role) (int64, error) {
	userID, err := r.ResolveUser(ctx, tokenValue)
	if err != nil {
		return 0, err
	}

	user, err := r.store.FindUserByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		// Token references a user that no longer exists. User deletion
		// is out of scope, so treat it the same as an unknown token.
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}

	if user.Role != role {
		return userID, ErrUnauthorized
	}
	return userID, nil
}
