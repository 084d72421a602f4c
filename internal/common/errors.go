package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Session errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")

	// Transport errors.
	ErrUnsupportedMethod = errors.New("unsupported method")

	// Credential store errors: remember-me keys found half written.
	ErrInconsistentRecord = errors.New("inconsistent credential record")
)
