package survey

import "fmt"

// APIError is returned when the survey platform responds with a non-2xx
// status. Body carries the raw response payload when one was readable.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

// Error returns a formatted error message including the HTTP status.
func (e *APIError) Error() string {
	return fmt.Sprintf("survey: API error %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether a repeat of the request can succeed.
// Rate limits and server errors are transient; everything else is not.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
