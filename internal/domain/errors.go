package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to HTTP clients. Handlers map them to status codes.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrLLMUnavailable  = errors.New("language model unavailable")
)

// InvalidInputError is an ErrInvalidInput whose Msg is safe to show the client.
type InvalidInputError struct {
	Msg string
}

// NewInvalidInput formats a client-facing input error.
func NewInvalidInput(format string, args ...any) error {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidInputError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Msg
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// UpstreamFetchError reports a non-success response from the repository data
// provider. Any pages already read for the resource are discarded.
type UpstreamFetchError struct {
	Resource string
	URL      string
	Status   int
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: %s returned %d", e.Resource, e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.Resource, e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s failed", e.Resource, e.URL)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// MalformedAIResponseError carries the raw model output that failed to parse.
type MalformedAIResponseError struct {
	Raw string
	Err error
}

func (e *MalformedAIResponseError) Error() string {
	return fmt.Sprintf("malformed AI response: %v", e.Err)
}

func (e *MalformedAIResponseError) Unwrap() error { return e.Err }
