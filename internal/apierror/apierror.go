// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Message string `json:"message"`
}

func New(msg string) *APIError {
	return &APIError{Message: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Message: "Error de validacion", Fields: fields}
}

// ConflictError is returned with 409 when an operation is rejected by the
// current state of the data. Detalles itemizes each offending line.
type ConflictError struct {
	Message  string      `json:"message"`
	Code     string      `json:"code"`
	Detalles interface{} `json:"detalles,omitempty"`
}

func NewConflict(code, msg string, detalles interface{}) *ConflictError {
	return &ConflictError{Message: msg, Code: code, Detalles: detalles}
}

// Success is the envelope for state transitions that return no resource.
type Success struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func OK(msg string) *Success {
	return &Success{Success: true, Message: msg}
}
