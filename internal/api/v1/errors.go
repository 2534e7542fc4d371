package v1

import (
	"net/http"

	"quarters/internal/http/handlers/common"
)

const (
	CodeInvalidTimezone = "INVALID_TIMEZONE"
	CodeValidation      = "VALIDATION_ERROR"
	CodeRateLimited     = "RATE_LIMITED"
	CodeUnresolvable    = "UNRESOLVABLE_QUARTER"
	CodeInternal        = "INTERNAL"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteError writes the JSON error envelope shared by every /api route.
func WriteError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	common.WriteJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Fields: fields}})
}
