// Package auth implements the credential issuance and authorization
// subsystem: registration, login, opaque bearer tokens and role-gated
// authorization.
//
// # Components
//
//   - Hasher: salted one-way password hashing (bcrypt)
//   - TokenGenerator: 256-bit random hex tokens
//   - Store: user and token persistence with storage-enforced uniqueness
//   - RegistrationService / LoginService: the two credential flows
//   - Resolver: token -> identity resolution and role checks
//
// # Failure model
//
// Validation and authorization failures (MissingFieldError,
// ErrDuplicateEmail, ErrInvalidCredentials, ErrTokenNotFound,
// ErrUnauthorized) are part of the normal result path. Backing-store
// failures are wrapped in StorageError: the cause is logged internally and
// never shown to the end user. Nothing retries automatically except the
// single bounded token regeneration after a value collision during login.
package auth
