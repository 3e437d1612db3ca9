package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/choiyuns329/Japan-trip/internal/middleware"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

// TestSlogLogger_logsRequestFields verifies the structured fields of a
// successful request, including the request ID placed in context by chi.
func TestSlogLogger_logsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middleware.NewSlogLogger(logger)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	ctx := context.WithValue(req.Context(), chimiddleware.RequestIDKey, "test-req-id")
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	entry := logLine(t, &buf)
	require.Equal(t, "INFO", entry["level"])
	require.Equal(t, "GET", entry["method"])
	require.Equal(t, "/healthz", entry["path"])
	require.EqualValues(t, http.StatusOK, entry["status"])
	require.EqualValues(t, 2, entry["bytes"])
	require.Equal(t, "test-req-id", entry["request_id"])
	require.NotNil(t, entry["duration_ms"])
}

// TestSlogLogger_levelFollowsStatus verifies that 4xx lines are warnings and
// 5xx lines are errors.
func TestSlogLogger_levelFollowsStatus(t *testing.T) {
	for status, level := range map[int]string{
		http.StatusNotFound:            "WARN",
		http.StatusUnprocessableEntity: "WARN",
		http.StatusInternalServerError: "ERROR",
	} {
		var buf bytes.Buffer
		h := middleware.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}),
		)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trip", nil))

		require.Equal(t, level, logLine(t, &buf)["level"], "status %d", status)
	}
}

// TestSlogLogger_routePattern verifies that the chi route pattern is logged
// rather than only the concrete path.
func TestSlogLogger_routePattern(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(middleware.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	r.Delete("/trip/{kind}/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/trip/flights/abc", nil))

	entry := logLine(t, &buf)
	require.Equal(t, "/trip/{kind}/{id}", entry["route"])
	require.Equal(t, "/trip/flights/abc", entry["path"])
}
