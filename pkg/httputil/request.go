package httputil

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// ParseJSON decodes JSON from the request body into the destination
func ParseJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// IsJSONRequest reports whether the request declares a JSON body.
func IsJSONRequest(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

// FormValue returns a form or query field, parsing the form on first use.
// The original clients POST url-encoded and multipart forms; both work.
func FormValue(r *http.Request, key string) string {
	if r.Form == nil {
		r.ParseMultipartForm(10 << 20)
	}
	return r.FormValue(key)
}

// BearerToken extracts the bearer credential from a request. The
// Authorization header is preferred; the legacy token form/query field is
// still accepted for the observed clients.
func BearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	return FormValue(r, "token")
}
