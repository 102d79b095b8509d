// Package catalog provides storage for categories and products: a SQL
// store with parameterized queries for PostgreSQL and SQLite, plus an
// optional Redis wrapper that caches the two list reads and invalidates
// them on writes.
package catalog
