package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Resource string    `json:"resource,omitempty"`
	Err      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrInvalidInput
	ErrCapacityExceeded
	ErrUnknownPatient
	ErrUnknownDoctor
	ErrIOFailure
	ErrCorruptData
	ErrInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "not_found"
	case ErrInvalidInput:
		return "invalid_input"
	case ErrCapacityExceeded:
		return "capacity_exceeded"
	case ErrUnknownPatient:
		return "unknown_patient"
	case ErrUnknownDoctor:
		return "unknown_doctor"
	case ErrIOFailure:
		return "io_failure"
	case ErrCorruptData:
		return "corrupt_data"
	default:
		return "internal"
	}
}

// Error constructors
func NewNotFound(resource string, id int) *AppError {
	return &AppError{
		Code:     ErrNotFound,
		Message:  fmt.Sprintf("%s with ID %d not found", resource, id),
		Resource: resource,
	}
}

func NewInvalidInput(message string, err error) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Message: message,
		Err:     err,
	}
}

func NewCapacityExceeded(resource string, max int) *AppError {
	return &AppError{
		Code:     ErrCapacityExceeded,
		Message:  fmt.Sprintf("max %ss reached (%d)", resource, max),
		Resource: resource,
	}
}

func NewUnknownPatient(id int) *AppError {
	return &AppError{
		Code:     ErrUnknownPatient,
		Message:  fmt.Sprintf("no patient with ID %d", id),
		Resource: "patient",
	}
}

func NewUnknownDoctor(id int) *AppError {
	return &AppError{
		Code:     ErrUnknownDoctor,
		Message:  fmt.Sprintf("no doctor with ID %d", id),
		Resource: "doctor",
	}
}

func NewIOFailure(message string, err error) *AppError {
	return &AppError{
		Code:    ErrIOFailure,
		Message: message,
		Err:     err,
	}
}

func NewCorruptData(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCorruptData,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrInternal when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
