package auth

import (
	"fmt"
	"net/http"
)

// DomainError is a structured, self-describing domain error used across the
// auth module. It carries RFC 7807-friendly metadata so the shared formatter
// can convert any domain error into a problem response without enumerating
// error types.
type DomainError struct {
	// Code is a stable, machine-readable business code (e.g., "ErrInvalidCredentials").
	Code string

	// HTTPStatus is the HTTP status suggested for this error.
	HTTPStatus int

	// Title is a short human summary; defaults to StatusText(HTTPStatus) downstream.
	Title string

	// Message is the client-safe message. Anti-enumeration errors share one
	// message across their causes on purpose.
	Message string

	// TypeURI is an RFC 7807 type URI for documentation.
	TypeURI string

	// cause is the underlying error, kept server-side only.
	cause error
}

// Error satisfies the standard error interface, including the cause for logs.
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying error chain to errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches on the stable Code rather than pointer identity, so copies
// created via WithCause still match their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error wrapping the provided cause.
func (e *DomainError) WithCause(err error) *DomainError {
	if err == nil {
		return e
	}
	cp := *e
	cp.cause = err
	return &cp
}

// --- RFC 7807 mapping accessors (satisfy httpx.DomainProblem) ---

func (e *DomainError) ProblemCode() string { return e.Code }
func (e *DomainError) ProblemStatus() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}
func (e *DomainError) ProblemTitle() string   { return e.Title }
func (e *DomainError) ProblemDetail() string  { return e.Message }
func (e *DomainError) ProblemTypeURI() string { return e.TypeURI }
func (e *DomainError) ProblemContext() any    { return nil }

// --- Pre-defined domain errors ---

var (
	// ErrNotFound is used only by flows that intentionally reveal account
	// existence (OTP verify, password reset, OTP send).
	ErrNotFound = &DomainError{
		Code:       "ErrNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "user not found",
		TypeURI:    "urn:problem:auth/err-not-found",
	}

	// ErrDuplicateUser covers both the pre-creation OR-lookup hit and a
	// uniqueness violation reported by the store during the signup race.
	ErrDuplicateUser = &DomainError{
		Code:       "ErrDuplicateUser",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "user already exists",
		TypeURI:    "urn:problem:auth/err-duplicate-user",
	}

	// ErrInvalidCredentials merges "unknown identifier", "no local password"
	// and "wrong password". All three must stay indistinguishable to callers.
	ErrInvalidCredentials = &DomainError{
		Code:       "ErrInvalidCredentials",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "invalid credentials",
		TypeURI:    "urn:problem:auth/err-invalid-credentials",
	}

	ErrAccountInactive = &DomainError{
		Code:       "ErrAccountInactive",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "account is inactive",
		TypeURI:    "urn:problem:auth/err-account-inactive",
	}

	ErrInvalidOTP = &DomainError{
		Code:       "ErrInvalidOTP",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "invalid or expired OTP",
		TypeURI:    "urn:problem:auth/err-invalid-otp",
	}

	ErrOTPCooldown = &DomainError{
		Code:       "ErrOTPCooldown",
		HTTPStatus: http.StatusTooManyRequests,
		Title:      "Too Many Requests",
		Message:    "please wait before requesting another code",
		TypeURI:    "urn:problem:auth/err-otp-cooldown",
	}

	// ErrInvalidRefreshToken merges signature failure, expiry and
	// session-row mismatch into one outward error.
	ErrInvalidRefreshToken = &DomainError{
		Code:       "ErrInvalidRefreshToken",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "invalid or expired refresh token",
		TypeURI:    "urn:problem:auth/err-invalid-refresh-token",
	}

	ErrMissingToken = &DomainError{
		Code:       "ErrMissingToken",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "no token provided",
		TypeURI:    "urn:problem:auth/err-missing-token",
	}

	ErrUnsupportedProvider = &DomainError{
		Code:       "ErrUnsupportedProvider",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "unsupported oauth provider",
		TypeURI:    "urn:problem:auth/err-unsupported-provider",
	}

	ErrOAuthStateInvalid = &DomainError{
		Code:       "ErrOAuthStateInvalid",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "invalid or expired oauth state",
		TypeURI:    "urn:problem:auth/err-oauth-state-invalid",
	}

	ErrOAuthExchangeFailed = &DomainError{
		Code:       "ErrOAuthExchangeFailed",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "oauth authentication failed",
		TypeURI:    "urn:problem:auth/err-oauth-exchange-failed",
	}

	// ErrStoreUnavailable signals a transient store failure; callers may retry.
	ErrStoreUnavailable = &DomainError{
		Code:       "ErrStoreUnavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Title:      "Service Unavailable",
		Message:    "service temporarily unavailable",
		TypeURI:    "urn:problem:auth/err-store-unavailable",
	}

	ErrInternal = &DomainError{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "internal server error",
		TypeURI:    "urn:problem:auth/err-internal",
	}
)
