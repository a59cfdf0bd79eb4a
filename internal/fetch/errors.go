package fetch

import "fmt"

// ErrorKind classifies a fetch failure.
type ErrorKind string

// Fetch failure kinds.
const (
	// KindNetwork covers connection, DNS, and body-read failures.
	KindNetwork ErrorKind = "network"

	// KindTimeout covers deadline and timeout failures.
	KindTimeout ErrorKind = "timeout"

	// KindStatus covers non-2xx HTTP responses.
	KindStatus ErrorKind = "status"
)

// Error is a typed fetch failure. Callers discriminate with errors.As and
// inspect Kind; the policy of skipping a retailer versus aborting the run
// belongs to the caller, never to the fetcher.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// URL is the requested URL.
	URL string

	// StatusCode is the HTTP status code for KindStatus failures, 0 otherwise.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("fetch %s: timeout: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

// Unwrap returns the underlying error for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}
