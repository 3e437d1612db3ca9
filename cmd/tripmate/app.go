package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for migrations
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/currency"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/choiyuns329/Japan-trip/internal/config"
	"github.com/choiyuns329/Japan-trip/internal/merge"
	"github.com/choiyuns329/Japan-trip/internal/planner"
	"github.com/choiyuns329/Japan-trip/internal/repo"
	"github.com/choiyuns329/Japan-trip/internal/service"
	"github.com/choiyuns329/Japan-trip/migrations"
)

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	trips    *service.TripService
	sessions *service.SessionService
	out      *renderer
	closers  []func() error
}

// withApp wraps a command action so it runs against a fully wired app.
// server selects JSON logs on stdout; CLI commands log text to stderr so
// their stdout stays clean.
func withApp(server bool, fn func(ctx context.Context, a *app, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		a, err := openApp(ctx, server)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, a, cmd)
	}
}

func openApp(ctx context.Context, server bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var console io.Writer = os.Stderr
	if server {
		console = os.Stdout
	}
	log, logCloser := newLogger(cfg, console, server)
	a := &app{cfg: cfg, log: log}
	if logCloser != nil {
		a.closers = append(a.closers, logCloser.Close)
	}

	slots, err := a.openSlots(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	gen := planner.New(planner.Config{
		APIKey:     cfg.PlannerAPIKey,
		BaseURL:    cfg.PlannerBaseURL,
		Model:      cfg.PlannerModel,
		Timeout:    cfg.PlannerTimeout,
		MaxRetries: cfg.PlannerMaxRetries,
		Currency:   cfg.Currency,
	}, log)

	a.trips = service.NewTripService(slots, gen, log,
		service.WithOmittedLists(merge.ParseOmittedLists(cfg.MergeOmittedLists)),
		service.WithPublicURL(cfg.PublicURL),
	)
	if err := a.trips.Load(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("load trip: %w", err)
	}
	a.sessions = service.NewSessionService(slots, log)

	unit, _ := currency.ParseISO(cfg.Currency) // validated by config.Load
	a.out = newRenderer(os.Stdout, cfg.Locale, unit)
	return a, nil
}

// newLogger builds the process logger. With LOG_FILE set, logs go to a
// size-rotated JSON file and the returned closer must be closed on exit.
func newLogger(cfg config.Config, console io.Writer, jsonOut bool) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		return slog.New(slog.NewJSONHandler(lj, opts)), lj
	}
	if jsonOut {
		return slog.New(slog.NewJSONHandler(console, opts)), nil
	}
	return slog.New(slog.NewTextHandler(console, opts)), nil
}

// openSlots connects the storage driver named in the config. SQL drivers are
// migrated before use.
func (a *app) openSlots(ctx context.Context) (repo.SlotRepo, error) {
	cfg := a.cfg

	switch cfg.StorageDriver {
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if _, err := migrations.Up(ctx, db, goose.DialectSQLite3); err != nil {
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		a.log.Debug("storage ready", "driver", cfg.StorageDriver, "path", cfg.SQLitePath)
		return repo.NewSQLiteSlotRepo(db), nil

	case config.DriverPostgres:
		if err := migratePostgres(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		// pgxpool.New does not open connections; Ping verifies the DB is reachable.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create database pool: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.log.Debug("storage ready", "driver", cfg.StorageDriver)
		return repo.NewPostgresSlotRepo(pool), nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.log.Debug("storage ready", "driver", cfg.StorageDriver, "addr", cfg.RedisAddr)
		return repo.NewRedisSlotRepo(rdb), nil

	case config.DriverMemory:
		a.log.Warn("memory storage: changes are lost on exit")
		return repo.NewMemorySlotRepo(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func migratePostgres(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if _, err := migrations.Up(ctx, db, goose.DialectPostgres); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil && a.log != nil {
		a.log.Warn("shutdown", "error", err)
	}
}
