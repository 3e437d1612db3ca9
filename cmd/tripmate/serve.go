package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/choiyuns329/Japan-trip/internal/handler"
	"github.com/choiyuns329/Japan-trip/internal/middleware"
)

// maxBodyBytes caps request bodies. A full trip document is far below this.
const maxBodyBytes = 1 << 20

// newRouter assembles the middleware chain around the API routes.
// Order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(a.log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(a.cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", handler.NewServer(a.trips, a.sessions, a.log).Handler())
	return r
}

func runServe(ctx context.Context, a *app, cmd *cli.Command) error {
	port := a.cfg.Port
	if cmd.IsSet("port") {
		port = cmd.String("port")
	}

	// A generation request may run through every planner retry.
	writeTimeout := a.cfg.PlannerTimeout*time.Duration(a.cfg.PlannerMaxRetries+1) + 10*time.Second

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      newRouter(a),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("server starting", "addr", srv.Addr, "storage", a.cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Graceful shutdown: wait for a signal, then give in-flight requests up
	// to 15 seconds to complete.
	g.Go(func() error {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(stop)

		select {
		case sig := <-stop:
			a.log.Info("shutting down server", "signal", sig.String())
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.log.Info("server stopped")
	return nil
}
