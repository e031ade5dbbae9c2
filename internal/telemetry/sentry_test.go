package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/stride/internal"
)

func TestScrubEvent(t *testing.T) {
	event := &sentry.Event{Request: &sentry.Request{
		Data:    `{"cardNumber":"4111111111111111"}`,
		Cookies: "stride_visitor=abc",
		Headers: map[string]string{
			"authorization": "Bearer secret",
			"Cookie":        "stride_visitor=abc",
			"User-Agent":    "test",
		},
	}}

	scrubEvent(event)

	assert.Empty(t, event.Request.Data)
	assert.Empty(t, event.Request.Cookies)
	assert.Equal(t, "[Filtered]", event.Request.Headers["authorization"])
	assert.Equal(t, "[Filtered]", event.Request.Headers["Cookie"])
	assert.Equal(t, "test", event.Request.Headers["User-Agent"])

	scrubEvent(nil)
	scrubEvent(&sentry.Event{})
}

func TestInitSentry_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cleanup, err := InitSentry(internal.SentryConfig{Enabled: false}, logger)
	require.NoError(t, err)
	cleanup()
	assert.False(t, IsEnabled())

	cleanup, err = InitSentry(internal.SentryConfig{Enabled: true}, logger)
	require.NoError(t, err)
	cleanup()
	assert.False(t, IsEnabled(), "no DSN keeps error tracking off")

	// Helpers are no-ops while disabled.
	CaptureErrorFromContext(context.Background(), errors.New("boom"), nil)
}

func TestHTTPTransport_Disabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &HTTPTransport{}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}
