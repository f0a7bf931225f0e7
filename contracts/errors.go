package contracts

import (
	"fmt"
)

// ApiError is the typed error raised by the synchronous request surface.
// Code carries an HTTP-style status: the server's own status for non-200
// responses, 400 for transport failures, 500 for undecodable bodies and
// 408 when the synchronous wait timed out.
type ApiError struct {
	Code    int
	Message string
}

// NewApiError creates a new ApiError with the given code and message.
func NewApiError(code int, message string) *ApiError {
	return &ApiError{Code: code, Message: message}
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	return fmt.Sprintf("api request failed: %d %s", e.Code, e.Message)
}
