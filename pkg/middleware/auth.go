// Package middleware provides HTTP middleware for token authentication
// and role-based authorization.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/KeenIsHere/reactecom/pkg/audit"
	"github.com/KeenIsHere/reactecom/pkg/auth"
	"github.com/KeenIsHere/reactecom/pkg/contextkeys"
	"github.com/KeenIsHere/reactecom/pkg/httputil"
	"github.com/KeenIsHere/reactecom/pkg/observability"
)

// Authenticator wraps handlers with bearer-token authentication. Tokens
// come from the Authorization header or, for legacy clients, a token
// form/query field.
type Authenticator struct {
	resolver *auth.Resolver
	recorder *audit.Recorder
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewAuthenticator creates an authentication middleware. recorder and
// metrics may be nil.
func NewAuthenticator(resolver *auth.Resolver, recorder *audit.Recorder, logger *observability.Logger, metrics *observability.Metrics) *Authenticator {
	return &Authenticator{resolver: resolver, recorder: recorder, logger: logger, metrics: metrics}
}

// RequireUser requires a resolvable token. The authenticated user id is
// placed on the request context.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := a.extractToken(w, r)
		if !ok {
			return
		}

		userID, err := a.resolver.ResolveUser(r.Context(), token)
		if err != nil {
			a.reject(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

// RequireAdmin requires a resolvable token belonging to an admin.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.requireRole(auth.RoleAdmin, next)
}

func (a *Authenticator) requireRole(role auth.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := a.extractToken(w, r)
		if !ok {
			return
		}

		userID, err := a.resolver.RequireRole(r.Context(), token, role)
		if err != nil {
			a.reject(w, r, err)
			return
		}

		ctx := withUserID(r.Context(), userID)
		ctx = context.WithValue(ctx, contextkeys.RoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) extractToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := httputil.BearerToken(r)
	if token == "" {
		a.deny(r, "missing_token")
		httputil.WriteUnauthorized(w, "Token is required")
		return "", false
	}
	return token, true
}

// reject maps resolution errors to the envelope responses clients
// depend on. Unknown tokens and stale user references both read as an
// invalid token; storage faults stay a 500.
func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrTokenNotFound):
		a.deny(r, "invalid_token")
		httputil.WriteUnauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrUnauthorized):
		a.deny(r, "forbidden")
		httputil.WriteForbidden(w, "Unauthorized user")
	default:
		a.logger.WithError(err).
			WithField("request_id", contextkeys.RequestID(r.Context())).
			Error("Token resolution failed")
		httputil.WriteInternalError(w)
	}
}

// deny counts and audits an authorization denial. The audit event stays
// anonymous for invalid tokens; only the failure reason is recorded.
func (a *Authenticator) deny(r *http.Request, reason string) {
	if a.metrics != nil {
		a.metrics.AuthDenialsTotal.WithLabelValues(reason).Inc()
	}
	a.recorder.Record(r.Context(), audit.Event{
		Action:    audit.ActionAuthDenied,
		RequestID: contextkeys.RequestID(r.Context()),
		RemoteIP:  r.RemoteAddr,
		Outcome:   reason,
	})
}

func withUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}
