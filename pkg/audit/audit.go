// Package audit records security-relevant events (registrations, logins,
// authorization denials, catalog writes) to the database. Recording is
// best effort: a failed audit write is logged and never fails the
// request that triggered it.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/KeenIsHere/reactecom/pkg/observability"
)

// Action identifies what happened.
type Action string

const (
	ActionRegister        Action = "user.register"
	ActionLogin           Action = "user.login"
	ActionAuthDenied      Action = "auth.denied"
	ActionCategoryCreated Action = "catalog.category_created"
	ActionProductCreated  Action = "catalog.product_created"
)

// Event is one audit record. UserID is zero for anonymous events such
// as failed logins.
type Event struct {
	Action    Action
	UserID    int64
	RequestID string
	RemoteIP  string
	Outcome   string
	Detail    map[string]string
	Timestamp time.Time
}

// Recorder writes events to the audit_events table. A nil Recorder is
// valid and records nothing, so callers never need to guard the call.
type Recorder struct {
	db     *sql.DB
	logger *observability.Logger
}

// NewRecorder creates a database-backed audit recorder.
func NewRecorder(db *sql.DB, logger *observability.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Record persists the event. Failures are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if r == nil || r.db == nil {
		return
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	var detail []byte
	if event.Detail != nil {
		detail, _ = json.Marshal(event.Detail)
	}

	var userID interface{}
	if event.UserID != 0 {
		userID = event.UserID
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (action, user_id, request_id, remote_ip, outcome, detail, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, string(event.Action), userID, event.RequestID, event.RemoteIP, event.Outcome, detail, ts)
	if err != nil {
		r.logger.WithError(err).WithField("action", string(event.Action)).Warn("Failed to record audit event")
	}
}
