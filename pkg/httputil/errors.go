package httputil

import (
	"net/http"

	"github.com/matzehuels/bubblepack/pkg/errors"
)

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	if errors.IsInvalid(err) {
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeConverging:
		return http.StatusConflict
	case errors.ErrCodeSessionLimit:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a coded error response and returns the status
// used. Uncoded errors are reported as INTERNAL_ERROR without their text.
func WriteError(w http.ResponseWriter, err error) int {
	status := StatusFor(err)
	body := ErrorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
		body.Message = "internal error"
	}
	WriteJSON(w, status, ErrorResponse{Error: body})
	return status
}
