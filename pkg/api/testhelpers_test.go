package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/KeenIsHere/reactecom/pkg/auth"
	"github.com/KeenIsHere/reactecom/pkg/catalog"
	"github.com/KeenIsHere/reactecom/pkg/database"
	"github.com/KeenIsHere/reactecom/pkg/httputil"
	"github.com/KeenIsHere/reactecom/pkg/middleware"
	"github.com/KeenIsHere/reactecom/pkg/observability"
)

// testServer wires the full stack over an in-memory database: real
// services, real middleware chain, no network.
type testServer struct {
	handler http.Handler
	db      *sql.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// A pooled second connection would see its own empty in-memory
	// database, so keep everything on one connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	migrations := append(auth.Migrations(database.DialectSQLite), catalog.Migrations(database.DialectSQLite)...)
	require.NoError(t, database.Migrate(ctx, db, migrations))

	logger := observability.NewNopLogger()
	// Minimum cost keeps the bcrypt work factor out of test runtime.
	hasher := auth.NewBcryptHasher(4)
	authStore := auth.NewSQLStore(db, 5*time.Second)

	registration := auth.NewRegistrationService(authStore, hasher, logger)
	login := auth.NewLoginService(authStore, hasher, auth.NewTokenGenerator(), logger)
	resolver := auth.NewResolver(authStore, 16)
	authn := middleware.NewAuthenticator(resolver, nil, logger, nil)

	catalogStore := catalog.NewSQLStore(db, 5*time.Second)

	authHandlers := NewAuthHandlers(registration, login, nil, logger, nil)
	catalogHandlers := NewCatalogHandlers(catalogStore, authn, nil, logger, nil)

	server := NewServer(ServerConfig{
		Addr:           "127.0.0.1:0",
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"*"},
	}, authHandlers, catalogHandlers, logger, nil)

	return &testServer{handler: server.Handler(), db: db}
}

// do performs a JSON request against the in-process handler.
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, httputil.Envelope) {
	t.Helper()

	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env httputil.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env), "every response must be an envelope")
	return rec, env
}

// registerAndLogin creates an account and returns a fresh token for it.
func (ts *testServer) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()

	rec, _ := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, env.Token)
	return env.Token
}

// promoteToAdmin flips a user's role directly in storage; there is no
// admin-creation endpoint.
func (ts *testServer) promoteToAdmin(t *testing.T, email string) {
	t.Helper()
	_, err := ts.db.Exec(`UPDATE users SET role = 'admin' WHERE email = ?`, email)
	require.NoError(t, err)
}

// adminToken registers an admin account and returns a token for it.
// Login happens after promotion so the resolver cache never holds a
// stale role.
func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	email := "admin@example.com"

	rec, _ := ts.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":     email,
		"password":  "admin-secret",
		"full_name": "Admin",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	ts.promoteToAdmin(t, email)

	rec, env := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "admin-secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return env.Token
}
