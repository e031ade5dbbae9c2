package handler

import (
	"errors"
	"net/http"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/middleware"
	"github.com/dukerupert/stride/internal/telemetry"
)

// errorBody is the "error" member of every failed response.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	case domain.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse writes err as JSON with the status its code maps to.
// Internal errors are logged with their cause, reported to Sentry and shown
// to the client only as a generic message. Validation errors carry their
// field messages.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
		if code == domain.EINTERNAL {
			telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
				"path":   r.URL.Path,
				"method": r.Method,
			})
		}
	} else {
		logger.Debug("request rejected", attrs...)
	}

	writeJSON(w, r, status, envelope{
		Error: &errorBody{
			Code:    code,
			Message: domain.ErrorMessage(err),
			Fields:  domain.GetValidationFields(err),
		},
	})
}

func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "Not found."))
}

func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Unauthorized("", "Please login to continue"))
}

func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Forbidden("", "You do not have access to this page."))
}

// InternalErrorResponse hides err behind a generic 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("unspecified internal error")
	}
	ErrorResponse(w, r, domain.Internal(err, "", "internal error"))
}
