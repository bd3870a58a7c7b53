package service

import "errors"

var (
	// ErrInvalidCredentials is the single error login can return for a bad
	// email, a bad password or an inactive account. Callers must not be able
	// to tell which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied is returned when a refresh credential is missing,
	// expired, revoked or superseded.
	ErrAccessDenied = errors.New("access denied")

	// ErrForbidden is returned when an authenticated caller lacks the role
	// or ownership an operation requires.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is wrapped around request payload problems.
	ErrValidation = errors.New("validation failed")
)
