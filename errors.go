package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeUserExists marks duplicate registrations
	TextCodeUserExists = "user_already_exists"
	// TextCodeInvalidCredentials marks failed password verification
	TextCodeInvalidCredentials = "invalid_credentials"
	// TextCodeUserNotFound marks lookups for unknown (or unowned) records
	TextCodeUserNotFound = "user_not_found"
	// TextCodeTokenExpired marks credentials past their expiry instant
	TextCodeTokenExpired = "token_expired"
	// TextCodeTokenMalformed marks credentials that fail signature or shape checks
	TextCodeTokenMalformed = "token_malformed"
	// TextCodeTokenIssuance marks server-side signing failures
	TextCodeTokenIssuance = "token_issuance_failed"
	// TextCodeMissingCredential marks requests with no extractable token
	TextCodeMissingCredential = "credential_missing"
)

// ErrUserExists is returned when a registration collides with a live email.
var ErrUserExists = errors.New("User already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUserExists).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials covers both unknown-email and wrong-password signins
// so responses never reveal which emails are registered.
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned for lookups of ids that do not exist.
var ErrUserNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrOwnershipRequired is returned when a caller requests a record they do
// not own. It carries the not-found message: a 403 with a distinct body
// would confirm the id exists.
var ErrOwnershipRequired = errors.New("User not found", errors.CategoryAuthz).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeForbidden)

// ErrTokenIssuance is a server fault, not a client error.
var ErrTokenIssuance = errors.New("Failed to generate token", errors.CategoryInternal).
	WithTextCode(TextCodeTokenIssuance).
	WithCode(errors.CodeInternal)

// ErrTokenExpired is returned when a credential is past its expiry.
var ErrTokenExpired = errors.New("Token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tampered, truncated, or unsigned tokens.
var ErrTokenMalformed = errors.New("Invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMissingCredential is returned when a protected route receives no token.
var ErrMissingCredential = errors.New("Missing or malformed credential", errors.CategoryAuth).
	WithTextCode(TextCodeMissingCredential).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects blank passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the internal bcrypt mismatch marker; the
// identity provider folds it into ErrInvalidCredentials before it can leak.
var ErrMismatchedHashAndPassword = errors.New("password hash mismatch", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrMissingCredential) {
		return true
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		if richErr.TextCode == TextCodeTokenMalformed || richErr.TextCode == TextCodeMissingCredential {
			return true
		}
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}

// IsUniqueViolation reports whether err is the store's unique-constraint
// rejection. Neither pgdriver nor the sqlite shim surface a shared typed
// error through bun, so we classify on the driver message the same way we
// classify jwt failures.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "SQLSTATE=23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
