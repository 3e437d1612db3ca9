// Package handler implements the local HTTP API of TripMate.
// All handlers are methods on Server. Methods are split into files by
// resource (health.go, trip.go, entity.go, session.go) but share the same
// Server struct so they can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiyuns329/Japan-trip/internal/budget"
	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/editor"
	"github.com/choiyuns329/Japan-trip/internal/service"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching storage or the planner.
type TripServicer interface {
	Trip() domain.Trip
	Add(ctx context.Context, kind domain.Kind, opts ...editor.AddOption) (domain.Trip, domain.Entity, error)
	Update(ctx context.Context, e domain.Entity) (domain.Trip, error)
	Delete(ctx context.Context, kind domain.Kind, id string) (domain.Trip, error)
	SetInfo(ctx context.Context, p editor.InfoPatch) (domain.Trip, error)
	Reset(ctx context.Context) (domain.Trip, error)
	Import(ctx context.Context, link string) (domain.Trip, error)
	Budget() budget.Summary
	Itinerary() []budget.DayPlan
	Generate(ctx context.Context, prompt string) (domain.Trip, error)
	Share() (string, error)
	Export(f service.Format) ([]byte, error)
}

// SessionServicer defines the mock identity operations.
type SessionServicer interface {
	Login(ctx context.Context, name, email string) (domain.User, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (domain.User, error)
}

// Server holds the dependencies of every handler.
type Server struct {
	trips    TripServicer
	sessions SessionServicer
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, sessions SessionServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, sessions: sessions, log: log}
}

// Handler returns the API routes. Cross-cutting middleware (request id,
// logging, CORS, body limit) is added by the caller.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/trip", func(r chi.Router) {
		r.Get("/", s.getTrip)
		r.Patch("/", s.patchTrip)
		r.Delete("/", s.resetTrip)

		r.Get("/budget", s.getBudget)
		r.Get("/itinerary", s.getItinerary)
		r.Get("/share", s.getShare)
		r.Post("/import", s.postImport)
		r.Get("/export", s.getExport)
		r.Post("/generate", s.postGenerate)

		r.Get("/{kind}", s.listEntities)
		r.Post("/{kind}", s.addEntity)
		r.Get("/{kind}/{id}", s.getEntity)
		r.Put("/{kind}/{id}", s.updateEntity)
		r.Delete("/{kind}/{id}", s.deleteEntity)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.getSession)
		r.Post("/", s.postSession)
		r.Delete("/", s.deleteSession)
	})

	return r
}
