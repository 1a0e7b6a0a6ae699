// Package businessflow contains the core business logic and use cases for image upload workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Upload validation errors
	ErrFileRequired     = errors.New("file is required")
	ErrFileSizeRequired = errors.New("file size is required")
	ErrFileTooLarge     = errors.New("file size exceeds the maximum allowed")
	ErrInvalidFormat    = errors.New("file content does not match an accepted image format")

	// Image lookup errors
	ErrImageNotFound    = errors.New("image not found")
	ErrImageUUIDInvalid = errors.New("image UUID is invalid")

	// Filter errors
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}

func IsImageNotFound(err error) bool {
	return errors.Is(err, ErrImageNotFound)
}
