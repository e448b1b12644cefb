package http

import (
	"fmt"
	"net/http"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
		Params:  make(map[string]interface{}),
	}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError("ERR_INTERNAL", "", message, http.StatusInternalServerError)
}

// Error codes returned by the dashboard API.
const (
	CodeInvalidSymbol   = "ERR_INVALID_SYMBOL"
	CodeFetchFailed     = "ERR_FETCH_FAILED"
	CodeNoHistory       = "ERR_NO_HISTORY"
	CodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
	CodeUnavailable     = "ERR_UNAVAILABLE"
	CodeBadFormat       = "ERR_BAD_FORMAT"
)

// InvalidSymbolError creates a 400 error for an unknown ticker.
func InvalidSymbolError(symbol string) *AppError {
	return NewAppError(CodeInvalidSymbol, "symbol",
		"Invalid stock symbol. Please enter a valid stock symbol.", http.StatusBadRequest).
		WithParam("symbol", symbol)
}

// FetchFailedError creates a 502 error for a failed upstream fetch.
func FetchFailedError() *AppError {
	return NewAppError(CodeFetchFailed, "", "Failed to fetch stock data. Please try again.", http.StatusBadGateway)
}

// NoHistoryError creates a 404 error for a symbol without bars.
func NoHistoryError(symbol string) *AppError {
	return NewAppError(CodeNoHistory, "", "No historical data available for this symbol.", http.StatusNotFound).
		WithParam("symbol", symbol)
}

// TooManyRequestsError creates a 429 error.
func TooManyRequestsError() *AppError {
	return NewAppError(CodeTooManyRequests, "", "Too many requests. Please slow down.", http.StatusTooManyRequests)
}

// UnavailableError creates a 503 error for a disabled feature.
func UnavailableError(message string) *AppError {
	return NewAppError(CodeUnavailable, "", message, http.StatusServiceUnavailable)
}

// BadFormatError creates a 400 error for an export format the server cannot produce.
func BadFormatError() *AppError {
	return NewAppError(CodeBadFormat, "format", "Unsupported export format.", http.StatusBadRequest)
}
