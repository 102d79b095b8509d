package audit

import (
	"fmt"

	"github.com/KeenIsHere/reactecom/pkg/database"
)

// Migrations returns the audit schema for the given dialect. The version
// continues after the catalog schema.
func Migrations(d database.Dialect) []database.Migration {
	return []database.Migration{
		{
			Version:     5,
			Description: "create audit_events table",
			SQL: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS audit_events (
					id %s,
					action VARCHAR(100) NOT NULL,
					user_id BIGINT,
					request_id VARCHAR(100) NOT NULL DEFAULT '',
					remote_ip VARCHAR(45) NOT NULL DEFAULT '',
					outcome VARCHAR(20) NOT NULL,
					detail TEXT,
					recorded_at TIMESTAMP NOT NULL DEFAULT %s
				);
				CREATE INDEX IF NOT EXISTS idx_audit_events_action ON audit_events(action);
				CREATE INDEX IF NOT EXISTS idx_audit_events_user_id ON audit_events(user_id);
			`, database.SerialPK(d), database.TimestampNow(d)),
		},
	}
}
