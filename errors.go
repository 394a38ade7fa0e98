package fieldwork

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a session operation is attempted before
// Connect has completed, or after Close.
var ErrNotConnected = errors.New("fieldwork: session not connected")

// ConnectionError indicates the session could not complete the handshake
// with the tool host. It is fatal to the current chat call and is not
// retried automatically.
type ConnectionError struct {
	// Stage is the connection phase that failed: "start", "handshake"
	// or "list-tools".
	Stage string
	Err   error
}

// Error returns a formatted message including the failed stage.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("fieldwork: connection failed during %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// HostUnavailableError indicates the tool host process or endpoint could
// not be reached at all.
type HostUnavailableError struct {
	Err error
}

// Error returns a formatted message describing the unreachable host.
func (e *HostUnavailableError) Error() string {
	return fmt.Sprintf("fieldwork: tool host unavailable: %v", e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *HostUnavailableError) Unwrap() error {
	return e.Err
}

// SessionBrokenError indicates the channel to the tool host died while an
// operation was in flight. The session must be reconnected before reuse;
// in-flight operations fail.
type SessionBrokenError struct {
	Err error
}

// Error returns a formatted message describing the broken channel.
func (e *SessionBrokenError) Error() string {
	return fmt.Sprintf("fieldwork: session broken: %v", e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *SessionBrokenError) Unwrap() error {
	return e.Err
}
