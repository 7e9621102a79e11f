package fetch

import (
	"errors"
	"fmt"
)

// ErrDisallowed is returned when robots.txt compliance is on and the target
// path is disallowed for our user agent.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// StatusError is returned for a GET that completed with a non-2xx status
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}
