package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/stride/internal/domain"
)

// errorPayload is the backend's JSON error body. Some routes use "message",
// others "error".
type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// decodeError turns a non-2xx response into a domain error whose code
// follows the status and whose message is the backend's own, when it sent one.
func decodeError(op string, status int, body []byte) error {
	var p errorPayload
	_ = json.Unmarshal(body, &p)

	msg := strings.TrimSpace(p.Message)
	if msg == "" {
		msg = strings.TrimSpace(p.Error)
	}

	return &domain.Error{
		Code:    codeForStatus(status),
		Op:      op,
		Message: msg,
		Err:     &StatusError{Status: status},
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.EINVALID
	case http.StatusUnauthorized:
		return domain.EUNAUTHORIZED
	case http.StatusForbidden:
		return domain.EFORBIDDEN
	case http.StatusNotFound:
		return domain.ENOTFOUND
	case http.StatusConflict:
		return domain.ECONFLICT
	case http.StatusTooManyRequests:
		return domain.ERATELIMIT
	default:
		return domain.EUNAVAILABLE
	}
}

// StatusError records the backend's HTTP status under a domain error.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return "backend status " + http.StatusText(e.Status)
}
