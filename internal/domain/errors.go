package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse is wrapped when a success response cannot be used.
var ErrMalformedResponse = errors.New("malformed response")

// ValidationError is produced locally and never reaches the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrNoDocument    = &ValidationError{Message: "Upload a document first."}
	ErrEmptyQuestion = &ValidationError{Message: "Please type a question."}
)

// ServiceError is returned when a service answered with a non-success status.
type ServiceError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("%s failed: %d %s", e.Op, e.StatusCode, e.Body))
}

// TransportError is returned when a request never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
