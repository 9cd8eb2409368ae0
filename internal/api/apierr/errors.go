package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/puzzleboard/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidDay        = "INVALID_DAY"
	CodeUnknownGame       = "UNKNOWN_GAME"
	CodeEmptyInput        = "EMPTY_INPUT"
	CodeNoRecords         = "NO_RECORDS"
	CodeImportNotFound    = "IMPORT_NOT_FOUND"
	CodeUploadKeyRequired = "UPLOAD_KEY_REQUIRED"
	CodeInvalidUploadKey  = "INVALID_UPLOAD_KEY"
	CodeUploadTooLarge    = "UPLOAD_TOO_LARGE"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &httpError{http.StatusRequestEntityTooLarge, APIError{CodeUploadTooLarge, "Upload exceeds the size limit"}}
	}

	switch {
	case errors.Is(err, model.ErrInvalidDay):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDay, err.Error()}}
	case errors.Is(err, model.ErrUnknownGame):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownGame, err.Error()}}
	case errors.Is(err, model.ErrEmptyInput):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyInput, "Upload contained no chat lines"}}
	case errors.Is(err, model.ErrNoRecords):
		return &httpError{http.StatusNotFound, APIError{CodeNoRecords, "No game results found"}}
	case errors.Is(err, model.ErrImportNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeImportNotFound, "Import not found"}}
	case errors.Is(err, model.ErrUploadKeyRequired):
		return &httpError{http.StatusUnauthorized, APIError{CodeUploadKeyRequired, "Upload key required"}}
	case errors.Is(err, model.ErrInvalidUploadKey):
		return &httpError{http.StatusForbidden, APIError{CodeInvalidUploadKey, "Invalid upload key"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
