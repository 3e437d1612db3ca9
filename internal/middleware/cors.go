// Package middleware provides the HTTP middleware of the local TripMate API.
package middleware

import (
	"net/http"
	"time"

	"github.com/rs/cors"
)

// preflightMaxAge is how long a browser may cache a preflight answer.
const preflightMaxAge = 10 * time.Minute

// NewCORSHandler lets the configured front-end origins call the API.
// Entries are full origins (scheme + host, no trailing slash); "*" allows any.
// Warning is exposed so the front-end can tell an unsaved change from a saved
// one, and Content-Disposition so exports keep their file name.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Warning", "Content-Disposition", "X-Request-Id"},
		MaxAge:         int(preflightMaxAge.Seconds()),
	})
	return c.Handler
}
