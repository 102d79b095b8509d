package auth

import (
	"fmt"

	"github.com/KeenIsHere/reactecom/pkg/database"
)

// Migrations returns the credential schema. Versions 1-2 are reserved for
// this package; catalog and audit continue the sequence.
func Migrations(d database.Dialect) []database.Migration {
	return []database.Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS users (
					id %s,
					email VARCHAR(255) NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					full_name VARCHAR(255) NOT NULL,
					role VARCHAR(32) NOT NULL DEFAULT 'user',
					created_at TIMESTAMP NOT NULL DEFAULT %s
				)
			`, database.SerialPK(d), database.TimestampNow(d)),
		},
		{
			Version:     2,
			Description: "Create tokens table",
			SQL: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS tokens (
					token VARCHAR(64) PRIMARY KEY,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					issued_at TIMESTAMP NOT NULL DEFAULT %s
				);

				CREATE INDEX IF NOT EXISTS idx_tokens_user_id ON tokens(user_id);
			`, database.TimestampNow(d)),
		},
	}
}
