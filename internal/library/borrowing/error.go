package borrowing

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInvalidArgument     Code = "INVALID_ARGUMENT"
	CodeNotFound            Code = "NOT_FOUND"
	CodeDuplicateActiveLoan Code = "DUPLICATE_ACTIVE_LOAN"
	CodeBookUnavailable     Code = "BOOK_UNAVAILABLE"
	CodeAlreadyReturned     Code = "ALREADY_RETURNED"
	CodeInternal            Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }

func ErrDuplicateActiveLoan() *APIError {
	return &APIError{Code: CodeDuplicateActiveLoan, Message: "book already borrowed by this user"}
}

// ErrBookUnavailable covers both "book does not exist" and "book already on
// loan". The two cases are deliberately not distinguished for callers.
func ErrBookUnavailable() *APIError {
	return &APIError{Code: CodeBookUnavailable, Message: "book not available"}
}

func ErrAlreadyReturned() *APIError {
	return &APIError{Code: CodeAlreadyReturned, Message: "book already returned"}
}

func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument, CodeDuplicateActiveLoan, CodeBookUnavailable, CodeAlreadyReturned:
			return 400
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}
