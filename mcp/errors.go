package mcp

import "fmt"

// Code is a stable machine-readable error kind. Callers branch on codes,
// never on message text.
type Code string

const (
	// CodeTransport covers malformed payloads, missing or unknown methods,
	// and a call without a target.
	CodeTransport Code = "TransportError"
	// CodeToolNotFound is returned when a call names an unregistered tool.
	CodeToolNotFound Code = "ToolNotFoundError"
	// CodeValidation is returned when arguments fail schema conformance.
	CodeValidation Code = "ValidationError"
	// CodeExecution is returned when the tool's execution fails.
	CodeExecution Code = "ExecutionError"
	// CodeDuplicateName signals a registration-time name collision.
	// It is fatal at startup and never produced while serving.
	CodeDuplicateName Code = "DuplicateNameError"
)

// Error is the wire-facing failure shape: a stable code, a human-readable
// message, and optional structured details. Stack traces and internal
// paths are never part of the wire contract.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates an Error with a formatted message.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetails attaches structured diagnostics to the error.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}
