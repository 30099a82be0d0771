package services

import "errors"

// Sentinel errors matched across layers; controllers translate them to HTTP
// status codes. User-facing messages stay terse and non-leaking: one
// "invalid email or password" for unknown account and wrong password, one
// "invalid or expired token" for wrong, used and expired tokens.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotApproved        = errors.New("account pending verification")
	ErrAccessDenied       = errors.New("access denied")
	ErrSessionActive      = errors.New("a session is already active for this account")
	ErrNotRegistered      = errors.New("account not registered")
	ErrNotFound           = errors.New("not found")
	ErrNoSession          = errors.New("no active session")
	ErrTokenMismatch      = errors.New("session token mismatch")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	ErrAlreadyDecided     = errors.New("verification already decided")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrMissingFields      = errors.New("missing required fields")
	ErrPersistence        = errors.New("internal persistence error")
)
