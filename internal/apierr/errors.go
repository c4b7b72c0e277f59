// Package apierr defines the error taxonomy shared by the gateways and
// controllers. Callers classify failures with errors.Is / errors.As.
package apierr

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means no token is stored; the caller must send
	// the user to authentication instead of issuing the request.
	ErrMissingCredential = errors.New("no credential available")

	// ErrSessionExpired means the backend rejected the stored token
	// mid-session. The session has already been cleared; the current view
	// must not retry.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotAuthenticated means no user identity is available client-side.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrInvalidCredentials means the backend rejected a login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPermissionDenied means the backend enforced an ownership check.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnexpectedResponse means a success status outside the documented
	// contract (the backend guarantees exactly 202 for update/delete).
	ErrUnexpectedResponse = errors.New("unexpected response status")

	// ErrUnreachable means no network path to the backend.
	ErrUnreachable = errors.New("unable to connect to the server")
)

// RemoteError is a generic backend-reported failure carrying the backend
// message when one was present.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (status %d)", e.Status)
}

// ValidationError means the backend rejected the payload shape or content.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return "validation failed: " + e.Message
	}
	return "validation failed"
}
