package errors

import (
	"fmt"
	"strings"
)

// ErrNotFound is returned when a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrValidation is returned for malformed input rejected before pricing
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrConfiguration is returned when static data or settings are inconsistent.
// It points at bad deployment data, never at a bad request.
type ErrConfiguration struct {
	Component string
	Message   string
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("invalid %s configuration: %s", e.Component, e.Message)
}

// ErrCheckoutBlocked is returned when a cart still has blocking validations
type ErrCheckoutBlocked struct {
	Reasons []string
}

func (e *ErrCheckoutBlocked) Error() string {
	return "checkout blocked: " + strings.Join(e.Reasons, "; ")
}
