// Package httputil provides the JSON response envelope, request parsing
// helpers and common HTTP middleware.
//
// Every endpoint answers with the same envelope:
//
//	{"success": bool, "message": string, "data": ..., "token": ...}
//
// Failure outcomes additionally carry a meaningful status code
// (400/401/403/409/500); success is always 200 or 201.
package httputil
