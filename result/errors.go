package result

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a client-side precondition failure. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// TransportError is a connectivity, timeout or protocol fault.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx response.
type RemoteError struct {
	Op         string
	StatusCode int
	Status     string
	// Message is extracted from a JSON error body when the server sent one.
	Message string
	Body    string
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to %s: %d", e.Op, e.StatusCode)
	if e.Status != "" {
		b.WriteString(" - " + e.Status)
	}
	switch {
	case e.Message != "":
		b.WriteString(" - " + e.Message)
	case e.Body != "":
		b.WriteString(" - " + e.Body)
	}
	return b.String()
}

// EmptyBodyError is a 2xx response whose body is absent or cannot be decoded.
type EmptyBodyError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *EmptyBodyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to %s: server returned %d with an unreadable body: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to %s: server returned %d with an empty body", e.Op, e.StatusCode)
}

func (e *EmptyBodyError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of a RemoteError anywhere in err's chain, or 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
