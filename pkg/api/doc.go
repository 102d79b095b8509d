// Package api exposes the HTTP surface: registration and login under
// /auth, and the token-gated category and product endpoints. All
// responses use the envelope {success, message, data?, token?}.
package api
