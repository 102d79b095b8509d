package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Store is the catalog storage boundary.
type Store interface {
	CreateCategory(ctx context.Context, category *Category) (int64, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	CreateProduct(ctx context.Context, product *Product) (int64, error)
	ListProducts(ctx context.Context) ([]*Product, error)
}

// SQLStore implements Store on database/sql with parameterized queries.
// It works against PostgreSQL and SQLite.
type SQLStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSQLStore creates a SQL-backed catalog store. A non-zero timeout
// bounds every query.
func NewSQLStore(db *sql.DB, timeout time.Duration) *SQLStore {
	return &SQLStore{db: db, timeout: timeout}
}

func (s *SQLStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// CreateCategory inserts a category and returns its assigned id.
func (s *SQLStore) CreateCategory(ctx context.Context, category *Category) (int64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (category_name)
		VALUES ($1)
		RETURNING id
	`, category.Name).Scan(&id)
	if err != nil {
		return 0, &StorageError{Op: "create category", Err: err}
	}
	category.ID = id
	return id, nil
}

// ListCategories returns all categories ordered by creation.
func (s *SQLStore) ListCategories(ctx context.Context) ([]*Category, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_name, created_at
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, &StorageError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, &StorageError{Op: "scan category", Err: err}
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list categories", Err: err}
	}
	return categories, nil
}

// CreateProduct inserts a product and returns its assigned id. A foreign
// key violation on category_id maps to ErrUnknownCategory.
func (s *SQLStore) CreateProduct(ctx context.Context, product *Product) (int64, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (product_title, price, description, category_id, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, product.Title, product.Price, product.Description, product.CategoryID, product.ImageURL).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrUnknownCategory
		}
		return 0, &StorageError{Op: "create product", Err: err}
	}
	product.ID = id
	return id, nil
}

// ListProducts returns all products joined with their category name.
func (s *SQLStore) ListProducts(ctx context.Context) ([]*Product, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.product_title, p.price, p.description, p.category_id,
		       c.category_name, p.image_url, p.created_at
		FROM products p
		JOIN categories c ON p.category_id = c.id
		ORDER BY p.id
	`)
	if err != nil {
		return nil, &StorageError{Op: "list products", Err: err}
	}
	defer rows.Close()

	products := make([]*Product, 0)
	for rows.Next() {
		p := &Product{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.CategoryID,
			&p.CategoryName, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, &StorageError{Op: "scan product", Err: err}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list products", Err: err}
	}
	return products, nil
}

// isForeignKeyViolation detects FK errors from both drivers: pq error
// code 23503 and the sqlite FOREIGN KEY constraint message.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
