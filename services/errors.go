package services

import (
	"errors"
	"fmt"

	"homestay-service-server/models"
)

// Error kinds surfaced to API clients as {kind, message}.
const (
	KindValidation        = "ValidationError"
	KindNotFound          = "NotFoundError"
	KindInvalidTransition = "InvalidTransitionError"
	KindInvalidAssignment = "InvalidAssignmentError"
	KindPersistence       = "PersistenceError"
)

// ValidationError reports a missing or malformed field on create/update
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// Kind returns the error kind for API responses
func (e *ValidationError) Kind() string { return KindValidation }

// NotFoundError reports an unknown request ID
type NotFoundError struct {
	RequestID uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("service request %d not found", e.RequestID)
}

// Kind returns the error kind for API responses
func (e *NotFoundError) Kind() string { return KindNotFound }

// InvalidTransitionError reports a lifecycle precondition violation. It
// always names both the current and the attempted status.
type InvalidTransitionError struct {
	Current models.RequestStatus
	Target  models.RequestStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition request from %s to %s", e.Current, e.Target)
}

// Kind returns the error kind for API responses
func (e *InvalidTransitionError) Kind() string { return KindInvalidTransition }

// InvalidAssignmentError reports an assignee outside the request's hotel
// scope, or an inactive one
type InvalidAssignmentError struct {
	StaffID uint
	Reason  string
}

func (e *InvalidAssignmentError) Error() string {
	return fmt.Sprintf("staff %d cannot be assigned: %s", e.StaffID, e.Reason)
}

// Kind returns the error kind for API responses
func (e *InvalidAssignmentError) Kind() string { return KindInvalidAssignment }

// PersistenceError wraps an underlying store failure. Not retried here;
// the client may retry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Kind returns the error kind for API responses
func (e *PersistenceError) Kind() string { return KindPersistence }

// kinder is satisfied by every domain error above
type kinder interface {
	Kind() string
}

// ErrorKind classifies any error returned by this package. Unknown
// errors are treated as persistence failures.
func ErrorKind(err error) string {
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindPersistence
}
