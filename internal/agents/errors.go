package agents

import "errors"

var (
	// ErrInvalidInput is returned when an operation is called with
	// malformed or missing fields. It surfaces to the immediate caller
	// and is never published as an event.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned on login failure. Never retried.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
