package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("post not found")
	ErrPhotoNotFound = errors.New("Photo not found")
	ErrUploadFailed  = errors.New("Image could not upload")
	ErrUserNotFound  = errors.New("User not found")
)

// ValidationError carries the first failed field check
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// PhotoTooLargeError reports an upload over the configured cap
type PhotoTooLargeError struct {
	MaxBytes int64
}

func (e *PhotoTooLargeError) Error() string {
	return fmt.Sprintf("Image should be less than %dMB in size", e.MaxBytes/1_000_000)
}

// StoreError is a persistence failure with a client-facing message
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
