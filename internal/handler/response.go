package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dukerupert/stride/internal/domain"
	"github.com/dukerupert/stride/internal/middleware"
	"github.com/dukerupert/stride/internal/notify"
)

// envelope is the body of every JSON response. Notifications raised while
// handling the request ride along with the data or the error.
type envelope struct {
	Data          any                   `json:"data,omitempty"`
	Error         *errorBody            `json:"error,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// JSON writes data with status inside the response envelope.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, r, status, envelope{Data: data})
}

// OK writes a 200 with data.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusOK, data)
}

// Created writes a 201 with data.
func Created(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusCreated, data)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	if flash := notify.FlashFrom(r.Context()); flash != nil {
		body.Notifications = flash.Drain()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		middleware.GetLogger(r.Context()).Error("failed to encode response", "error", err)
	}
}

// DecodeJSON reads the request body into v. Unknown fields are ignored.
// Malformed or oversized bodies come back as invalid-input errors.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return domain.Invalid("handler.decode", "Request body too large")
		case errors.Is(err, io.EOF):
			return domain.Invalid("handler.decode", "Request body is required")
		default:
			return domain.Invalid("handler.decode", "Request body is not valid JSON")
		}
	}
	return nil
}

// QueryInt reads a non-negative integer query parameter, or def when it is
// absent or malformed.
func QueryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}
