package strapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a single-entity lookup that returned 404.
	// It is an expected outcome, not a failure.
	ErrNotFound = errors.New("strapi: not found")

	// ErrConflict marks a create that violated a uniqueness constraint (409).
	ErrConflict = errors.New("strapi: already exists")
)

// RemoteError reports a non-success HTTP status from the content backend
// that is not covered by ErrNotFound/ErrConflict.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("strapi: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("strapi: unexpected status %d: %s", e.Status, e.Body)
}

// StatusOf extracts the HTTP status carried by err, or 0 when err is not a RemoteError.
func StatusOf(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
