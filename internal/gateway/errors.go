package gateway

import "errors"

var (
	// ErrTransport covers network failures and unexpected server errors.
	ErrTransport = errors.New("backend unreachable")

	// ErrNoSession is the expected result of CurrentUser for an anonymous
	// visitor. It is not user-visible as an error.
	ErrNoSession = errors.New("no active session")

	ErrAuthentication = errors.New("invalid credentials")
	ErrAuthorization  = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
)
