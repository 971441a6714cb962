package models

import "errors"

// Sentinel errors for the domain failure taxonomy. Workflows return these
// (optionally wrapped with detail via fmt.Errorf("%w: ...")) and handlers
// translate them to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrTokenExpired       = errors.New("token has expired")
	ErrStorage            = errors.New("storage unavailable")
	ErrNotImplemented     = errors.New("not implemented")
	ErrInternalServer     = errors.New("internal server error")
)
