package httputil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsJSONRequest(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"application/x-www-form-urlencoded", false},
		{"multipart/form-data; boundary=x", false},
		{"", false},
		{"garbage;;;", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		assert.Equal(t, tt.want, IsJSONRequest(req), "content type %q", tt.contentType)
	}
}

func TestParseJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c"}`))

	var dest struct {
		Email string `json:"email"`
	}
	require.NoError(t, ParseJSON(req, &dest))
	assert.Equal(t, "a@b.c", dest.Email)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	assert.Error(t, ParseJSON(req, &dest))
}

func TestFormValueURLEncoded(t *testing.T) {
	form := url.Values{"email": {"a@b.c"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.Equal(t, "a@b.c", FormValue(req, "email"))
	assert.Equal(t, "secret", FormValue(req, "password"))
	assert.Equal(t, "", FormValue(req, "missing"))
}

func TestBearerTokenFromHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", BearerToken(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc123")
	assert.Equal(t, "abc123", BearerToken(req), "scheme is case-insensitive")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	assert.Equal(t, "", BearerToken(req))
}

func TestBearerTokenFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/categories?token=abc123", nil)
	assert.Equal(t, "abc123", BearerToken(req))
}

func TestBearerTokenFromForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("token=abc123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, "abc123", BearerToken(req))
}

func TestBearerTokenHeaderWinsOverForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/?token=fromquery", strings.NewReader("token=fromform"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer fromheader")
	assert.Equal(t, "fromheader", BearerToken(req))
}
