package model

import "fmt"

// ValidationCode classifies a structured validation error.
type ValidationCode string

const (
	CodeRequiredField    ValidationCode = "REQUIRED_FIELD"
	CodeInvalidValue     ValidationCode = "INVALID_VALUE"
	CodeMaxValueExceeded ValidationCode = "MAX_VALUE_EXCEEDED"
	CodeInvalidDate      ValidationCode = "INVALID_DATE"
	CodeInvalidDateRange ValidationCode = "INVALID_DATE_RANGE"
)

// ValidationError describes one user-correctable input problem. Validation
// returns these as data so a caller can aggregate every problem from a
// single pass; they are never raised as Go errors.
type ValidationError struct {
	Field   string         `json:"field"`
	Message string         `json:"message"`
	Code    ValidationCode `json:"code"`
}

// String renders the error for logs and messages.
func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}
