package catalog

import (
	"fmt"

	"github.com/KeenIsHere/reactecom/pkg/database"
)

// Migrations returns the catalog schema for the given dialect. Versions
// continue after the credential schema so both sets share one
// schema_migrations table.
func Migrations(d database.Dialect) []database.Migration {
	return []database.Migration{
		{
			Version:     3,
			Description: "create categories table",
			SQL: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS categories (
					id %s,
					category_name VARCHAR(255) NOT NULL,
					created_at TIMESTAMP NOT NULL DEFAULT %s
				);
			`, database.SerialPK(d), database.TimestampNow(d)),
		},
		{
			Version:     4,
			Description: "create products table",
			SQL: fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS products (
					id %s,
					product_title VARCHAR(255) NOT NULL,
					price NUMERIC(12,2) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					category_id BIGINT NOT NULL REFERENCES categories(id),
					image_url VARCHAR(512) NOT NULL DEFAULT '',
					created_at TIMESTAMP NOT NULL DEFAULT %s
				);
				CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
			`, database.SerialPK(d), database.TimestampNow(d)),
		},
	}
}
