package services

import (
	"errors"
	"fmt"
)

// Code classifies a service failure for transport-level mapping.
// Codes are string-based for debuggability and natural JSON
// serialization.
type Code string

const (
	CodeInvalidInput     Code = "INVALID_INPUT"
	CodeNotFound         Code = "NOT_FOUND"
	CodeForbidden        Code = "FORBIDDEN"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	CodeGenerationFailed Code = "GENERATION_FAILED"
)

// Error is a classified service failure.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the classification of an error, defaulting to
// StoreUnavailable for anything unclassified coming out of a service.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeStoreUnavailable
}

func notFound(entity string) error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

func invalidf(format string, args ...any) error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func forbidden(msg string) error {
	return &Error{Code: CodeForbidden, Message: msg}
}

func storeFailure(err error) error {
	return &Error{Code: CodeStoreUnavailable, Message: err.Error(), cause: err}
}

func generationFailure(err error) error {
	return &Error{Code: CodeGenerationFailed, Message: err.Error(), cause: err}
}
