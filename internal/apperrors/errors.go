package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is known but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidTransition is returned when an expense status change would move backwards
// or skip a state (e.g. submitting an expense that is not a draft).
var ErrInvalidTransition = errors.New("invalid expense status transition")

// ErrExpenseNotPending is returned when a decision is recorded against an expense
// that is still a draft or has already reached a terminal status.
var ErrExpenseNotPending = errors.New("expense is not pending approval")

// ErrApproverNotEligible is returned when the acting user is not currently allowed
// to decide on the expense.
var ErrApproverNotEligible = errors.New("approver is not eligible to act on this expense")

// ErrHierarchyCycleDetected is returned when a manager-chain walk exceeds the configured depth.
var ErrHierarchyCycleDetected = errors.New("manager hierarchy cycle detected")

// ErrWorkflowMisconfigured is returned when a workflow cannot be resolved as configured.
var ErrWorkflowMisconfigured = errors.New("approval workflow is misconfigured")

// ErrConcurrentUpdate is a transient error: the expense kept changing underneath the
// caller for more attempts than allowed. Callers may retry.
var ErrConcurrentUpdate = errors.New("expense was modified concurrently, retry the request")

// AppError carries an HTTP-ish status code alongside a wrapped infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError wraps ErrNotFound with a description of the missing resource.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// NewConflictError wraps ErrDuplicate.
func NewConflictError(message string) error {
	return fmt.Errorf("%w: %s", ErrDuplicate, message)
}

// NewValidationFailedError wraps ErrValidation.
func NewValidationFailedError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}
