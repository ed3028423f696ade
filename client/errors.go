package client

import "fmt"

// The failure taxonomy callers discriminate on. Validation failures never
// reach the network; transport, rejection, and not-found failures roll the
// cache back; auth failures bypass the protocol and force a sign-out.

// ValidationError is a client-side check failure, caught before dispatch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError wraps a network failure or server 5xx.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError means the referenced item no longer exists server-side.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "this item was already removed"
	}
	return e.Message
}

// RejectedError is a server-side rejection of the request itself, such as a
// duplicate upcoming charge.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("request rejected (%d): %s", e.Status, e.Message)
}

// AuthError means the token was missing, invalid, or expired. Callers must
// treat it as "force logout", never "retry".
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (%d)", e.Status)
}
