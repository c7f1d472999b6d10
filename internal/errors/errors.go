package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a stickerpack error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"        // 404
	ErrFolderNotFound ErrorCode = "FOLDER_NOT_FOUND" // 404
	ErrFolderUnset    ErrorCode = "FOLDER_UNSET"     // 412
	ErrInternal       ErrorCode = "INTERNAL"         // 500
)

// StickerError represents a structured error with code, status, and details.
type StickerError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *StickerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *StickerError {
	return &StickerError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a sticker or document that does not exist.
func NewNotFound(kind, identifier string) *StickerError {
	return &StickerError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFolderUnset creates a 412 error for when no sticker folder has been selected.
// Only a settings change resolves it.
func NewFolderUnset() *StickerError {
	return &StickerError{
		Code:    ErrFolderUnset,
		Status:  412,
		Message: "sticker folder is not selected; choose one in settings",
	}
}

// NewFolderNotFound creates a 404 error for a configured folder that does not resolve.
func NewFolderNotFound(folder string) *StickerError {
	return &StickerError{
		Code:    ErrFolderNotFound,
		Status:  404,
		Message: fmt.Sprintf("sticker folder could not be loaded: %s", folder),
		Details: map[string]any{"folder": folder},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StickerError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StickerError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if err (or anything it wraps) is a StickerError with the given code.
func Is(err error, code ErrorCode) bool {
	var sErr *StickerError
	if stderrors.As(err, &sErr) {
		return sErr.Code == code
	}
	return false
}

// As returns err as a StickerError, wrapping unknown errors as INTERNAL.
func As(err error) *StickerError {
	var sErr *StickerError
	if stderrors.As(err, &sErr) {
		return sErr
	}
	return NewInternal(err)
}
