package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiyuns329/Japan-trip/internal/budget"
	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/editor"
	"github.com/choiyuns329/Japan-trip/internal/handler"
	"github.com/choiyuns329/Japan-trip/internal/middleware"
	"github.com/choiyuns329/Japan-trip/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	trip      func() domain.Trip
	add       func(ctx context.Context, kind domain.Kind, opts ...editor.AddOption) (domain.Trip, domain.Entity, error)
	update    func(ctx context.Context, e domain.Entity) (domain.Trip, error)
	delete    func(ctx context.Context, kind domain.Kind, id string) (domain.Trip, error)
	setInfo   func(ctx context.Context, p editor.InfoPatch) (domain.Trip, error)
	reset     func(ctx context.Context) (domain.Trip, error)
	importFn  func(ctx context.Context, link string) (domain.Trip, error)
	budget    func() budget.Summary
	itinerary func() []budget.DayPlan
	generate  func(ctx context.Context, prompt string) (domain.Trip, error)
	share     func() (string, error)
	export    func(f service.Format) ([]byte, error)
}

func (m *mockTripServicer) Trip() domain.Trip { return m.trip() }
func (m *mockTripServicer) Add(ctx context.Context, kind domain.Kind, opts ...editor.AddOption) (domain.Trip, domain.Entity, error) {
	return m.add(ctx, kind, opts...)
}
func (m *mockTripServicer) Update(ctx context.Context, e domain.Entity) (domain.Trip, error) {
	return m.update(ctx, e)
}
func (m *mockTripServicer) Delete(ctx context.Context, kind domain.Kind, id string) (domain.Trip, error) {
	return m.delete(ctx, kind, id)
}
func (m *mockTripServicer) SetInfo(ctx context.Context, p editor.InfoPatch) (domain.Trip, error) {
	return m.setInfo(ctx, p)
}
func (m *mockTripServicer) Reset(ctx context.Context) (domain.Trip, error) { return m.reset(ctx) }
func (m *mockTripServicer) Import(ctx context.Context, link string) (domain.Trip, error) {
	return m.importFn(ctx, link)
}
func (m *mockTripServicer) Budget() budget.Summary                  { return m.budget() }
func (m *mockTripServicer) Itinerary() []budget.DayPlan             { return m.itinerary() }
func (m *mockTripServicer) Share() (string, error)                  { return m.share() }
func (m *mockTripServicer) Export(f service.Format) ([]byte, error) { return m.export(f) }
func (m *mockTripServicer) Generate(ctx context.Context, prompt string) (domain.Trip, error) {
	return m.generate(ctx, prompt)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// mockSessionServicer is a test double for handler.SessionServicer.
type mockSessionServicer struct {
	login   func(ctx context.Context, name, email string) (domain.User, error)
	logout  func(ctx context.Context) error
	current func(ctx context.Context) (domain.User, error)
}

func (m *mockSessionServicer) Login(ctx context.Context, name, email string) (domain.User, error) {
	return m.login(ctx, name, email)
}
func (m *mockSessionServicer) Logout(ctx context.Context) error { return m.logout(ctx) }
func (m *mockSessionServicer) Current(ctx context.Context) (domain.User, error) {
	return m.current(ctx)
}

// compile-time check: mockSessionServicer must satisfy handler.SessionServicer.
var _ handler.SessionServicer = (*mockSessionServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHTTPHandler(trips handler.TripServicer, sessions handler.SessionServicer) http.Handler {
	return handler.NewServer(trips, sessions, discardLogger()).Handler()
}

func tripFixture() domain.Trip {
	trip := domain.NewTrip(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	trip.Flights = []domain.Flight{{ID: "f1", Direction: domain.Outbound, Price: 350000}}
	trip.Activities = []domain.Activity{{ID: "a1", Day: 1, Time: "09:00", Title: "Castle"}}
	return trip
}

// fixtureTrips returns a mock whose reads serve tripFixture and whose edits
// run the real editor against it.
func fixtureTrips() *mockTripServicer {
	return &mockTripServicer{
		trip: tripFixture,
		add: func(_ context.Context, kind domain.Kind, opts ...editor.AddOption) (domain.Trip, domain.Entity, error) {
			return editor.Add(tripFixture(), kind, opts...)
		},
		update: func(_ context.Context, e domain.Entity) (domain.Trip, error) {
			return editor.Update(tripFixture(), e), nil
		},
		delete: func(_ context.Context, kind domain.Kind, id string) (domain.Trip, error) {
			return editor.Delete(tripFixture(), kind, id), nil
		},
	}
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

// ---- health ----------------------------------------------------------------

func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	rec := do(newHTTPHandler(nil, nil), http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body handler.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestGetOpenAPI(t *testing.T) {
	rec := do(newHTTPHandler(nil, nil), http.MethodGet, "/openapi.yaml", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "/trip/generate:")
}

// ---- trip ------------------------------------------------------------------

func TestGetTrip(t *testing.T) {
	rec := do(newHTTPHandler(fixtureTrips(), nil), http.MethodGet, "/trip", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, tripFixture(), got)
}

func TestPatchTrip(t *testing.T) {
	var got editor.InfoPatch
	svc := &mockTripServicer{setInfo: func(_ context.Context, p editor.InfoPatch) (domain.Trip, error) {
		got = p
		return editor.SetInfo(tripFixture(), p), nil
	}}

	rec := do(newHTTPHandler(svc, nil), http.MethodPatch, "/trip",
		`{"title": "Osaka", "startDate": "2025-11-01", "budget": 1500000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Osaka", *got.Title)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2025-11-01", *got.StartDate)
	require.NotNil(t, got.Budget)
	assert.Equal(t, domain.Amount(1_500_000), *got.Budget)
	assert.Nil(t, got.EndDate, "omitted fields stay nil")
	assert.Nil(t, got.Destination)
}

func TestPatchTrip_BadDate(t *testing.T) {
	svc := &mockTripServicer{setInfo: func(context.Context, editor.InfoPatch) (domain.Trip, error) {
		t.Fatal("SetInfo must not be called")
		return domain.Trip{}, nil
	}}

	rec := do(newHTTPHandler(svc, nil), http.MethodPatch, "/trip", `{"startDate": "11/01/2025"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}

func TestPatchTrip_ValidationError(t *testing.T) {
	svc := &mockTripServicer{setInfo: func(context.Context, editor.InfoPatch) (domain.Trip, error) {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetInfo: %w: budget: must be no less than 0", domain.ErrValidation)
	}}

	rec := do(newHTTPHandler(svc, nil), http.MethodPatch, "/trip", `{"budget": -1}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, "validation_error", detail.Code)
	assert.Equal(t, "budget: must be no less than 0", detail.Message)
}

func TestResetTrip(t *testing.T) {
	svc := &mockTripServicer{reset: func(context.Context) (domain.Trip, error) {
		return domain.NewTrip(time.Now()), nil
	}}

	rec := do(newHTTPHandler(svc, nil), http.MethodDelete, "/trip", "")

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBudget(t *testing.T) {
	svc := &mockTripServicer{budget: func() budget.Summary { return budget.Summarize(tripFixture()) }}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet, "/trip/budget", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Total      int64 `json:"total"`
		OverBudget bool  `json:"overBudget"`
		Categories []struct {
			Category string `json:"category"`
			Amount   int64  `json:"amount"`
		} `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.EqualValues(t, 350000, got.Total)
	assert.False(t, got.OverBudget)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "flights", got.Categories[0].Category)
}

func TestGetItinerary(t *testing.T) {
	svc := &mockTripServicer{itinerary: func() []budget.DayPlan { return budget.Days(tripFixture().Activities) }}

	rec := do(newHTTPHandler(svc, nil), http.MethodGet, "/trip/itinerary", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got handler.ItineraryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Days, 1)
	assert.Equal(t, "a1", got.Days[0].Activities[0].ID)
}

func TestGetShareAndImport(t *testing.T) {
	var imported string
	svc := &mockTripServicer{
		share: func() (string, error) { return "http://localhost:5173#e30=", nil },
		importFn: func(_ context.Context, link string) (domain.Trip, error) {
			imported = link
			return tripFixture(), nil
		},
	}
	h := newHTTPHandler(svc, nil)

	rec := do(h, http.MethodGet, "/trip/share", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var share handler.ShareResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&share))
	assert.Equal(t, "http://localhost:5173#e30=", share.URL)

	rec = do(h, http.MethodPost, "/trip/import", `{"link": "http://localhost:5173#e30="}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173#e30=", imported)

	rec = do(h, http.MethodPost, "/trip/import", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetExport(t *testing.T) {
	svc := &mockTripServicer{export: func(f service.Format) ([]byte, error) {
		return service.ExportTrip(tripFixture(), f, time.UTC)
	}}
	h := newHTTPHandler(svc, nil)

	rec := do(h, http.MethodGet, "/trip/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="trip.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "kind,id,day,time,title,details,location,amount")

	rec = do(h, http.MethodGet, "/trip/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(h, http.MethodGet, "/trip/export?format=pdf", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- generate --------------------------------------------------------------

func TestPostGenerate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"success", `{"prompt": "Osaka"}`, nil, http.StatusOK, ""},
		{"empty prompt", `{"prompt": "  "}`, nil, http.StatusBadRequest, "validation_error"},
		{"missing body", ``, nil, http.StatusBadRequest, "validation_error"},
		{"in flight", `{"prompt": "Osaka"}`, domain.ErrGenerationInFlight, http.StatusConflict, "conflict"},
		{"no plan", `{"prompt": "Osaka"}`, fmt.Errorf("x: %w: %w", domain.ErrNoPlan, errors.New("timeout")), http.StatusUnprocessableEntity, "no_plan"},
		{"unexpected", `{"prompt": "Osaka"}`, errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockTripServicer{generate: func(_ context.Context, prompt string) (domain.Trip, error) {
				assert.Equal(t, "Osaka", prompt)
				return tripFixture(), tc.err
			}}

			rec := do(newHTTPHandler(svc, nil), http.MethodPost, "/trip/generate", tc.body)

			require.Equal(t, tc.wantCode, rec.Code)
			if tc.wantErr != "" {
				detail := decodeError(t, rec)
				assert.Equal(t, tc.wantErr, detail.Code)
				assert.NotContains(t, detail.Message, "timeout", "causes stay in the log")
			}
		})
	}
}

func TestPostGenerate_BodyTooLarge(t *testing.T) {
	svc := &mockTripServicer{generate: func(context.Context, string) (domain.Trip, error) {
		t.Fatal("Generate must not be called")
		return domain.Trip{}, nil
	}}
	h := middleware.NewMaxBodySizeHandler(32)(newHTTPHandler(svc, nil))

	req := httptest.NewRequest(http.MethodPost, "/trip/generate",
		bytes.NewBufferString(`{"prompt": "`+strings.Repeat("x", 100)+`"}`))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "payload_too_large", decodeError(t, rec).Code)
}

// ---- entities --------------------------------------------------------------

func TestAddEntity_FlightDirection(t *testing.T) {
	rec := do(newHTTPHandler(fixtureTrips(), nil), http.MethodPost, "/trip/flights", `{"type": "inbound"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got struct {
		Entity domain.Flight `json:"entity"`
		Trip   domain.Trip   `json:"trip"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, domain.Inbound, got.Entity.Direction)
	require.Len(t, got.Trip.Flights, 2)
	assert.Equal(t, got.Entity.ID, got.Trip.Flights[1].ID, "appended at the end")
}

func TestAddEntity_NoBody(t *testing.T) {
	rec := do(newHTTPHandler(fixtureTrips(), nil), http.MethodPost, "/trip/activity", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	var got struct {
		Entity domain.Activity `json:"entity"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 1, got.Entity.Day)
	assert.Equal(t, "10:00", got.Entity.Time)
}

func TestAddEntity_BadDirection(t *testing.T) {
	rec := do(newHTTPHandler(fixtureTrips(), nil), http.MethodPost, "/trip/flights", `{"type": "sideways"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEntity_UnknownKind(t *testing.T) {
	h := newHTTPHandler(fixtureTrips(), nil)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := do(h, method, "/trip/cruises", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, method)
	}
}

func TestListAndGetEntity(t *testing.T) {
	h := newHTTPHandler(fixtureTrips(), nil)

	rec := do(h, http.MethodGet, "/trip/flights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Flight
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, tripFixture().Flights, list)

	rec = do(h, http.MethodGet, "/trip/flights/f1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/trip/flights/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateEntity_PathIDWins(t *testing.T) {
	var got domain.Entity
	svc := &mockTripServicer{update: func(_ context.Context, e domain.Entity) (domain.Trip, error) {
		got = e
		return editor.Update(tripFixture(), e), nil
	}}

	rec := do(newHTTPHandler(svc, nil), http.MethodPut, "/trip/activities/a1",
		`{"id": "other", "day": 2, "time": "14:00", "title": "Aquarium", "cost": 2700}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.IsType(t, domain.Activity{}, got)
	a := got.(domain.Activity)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, 2, a.Day)
	assert.Equal(t, domain.Amount(2700), a.Cost)
}

func TestUpdateEntity_MalformedBody(t *testing.T) {
	rec := do(newHTTPHandler(fixtureTrips(), nil), http.MethodPut, "/trip/transportation/t1", `{"cost": "lots"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Code)
}

func TestDeleteEntity(t *testing.T) {
	var gotKind domain.Kind
	var gotID string
	svc := &mockTripServicer{delete: func(_ context.Context, kind domain.Kind, id string) (domain.Trip, error) {
		gotKind, gotID = kind, id
		return tripFixture(), nil
	}}

	rec := do(newHTTPHandler(svc, nil), http.MethodDelete, "/trip/accommodations/h9", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, domain.KindAccommodation, gotKind)
	assert.Equal(t, "h9", gotID)
}

func TestMutation_PersistFailureSetsWarning(t *testing.T) {
	svc := fixtureTrips()
	svc.delete = func(context.Context, domain.Kind, string) (domain.Trip, error) {
		return tripFixture(), fmt.Errorf("service.TripService.Delete: %w: disk full", domain.ErrPersist)
	}

	rec := do(newHTTPHandler(svc, nil), http.MethodDelete, "/trip/flights/f1", "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Warning"), "not saved")
}

// ---- session ---------------------------------------------------------------

func TestSession(t *testing.T) {
	user := domain.User{ID: "user-abc123def", Name: "김여행", Email: "traveler@example.com"}
	var loggedIn bool
	sessions := &mockSessionServicer{
		login: func(_ context.Context, name, _ string) (domain.User, error) {
			loggedIn = true
			assert.Equal(t, "김여행", name)
			return user, nil
		},
		logout: func(context.Context) error {
			loggedIn = false
			return nil
		},
		current: func(context.Context) (domain.User, error) {
			if !loggedIn {
				return domain.User{}, fmt.Errorf("service.SessionService.Current: %w", domain.ErrNotFound)
			}
			return user, nil
		},
	}
	h := newHTTPHandler(nil, sessions)

	rec := do(h, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)

	rec = do(h, http.MethodPost, "/session", `{"name": "김여행"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(h, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, user, got)

	rec = do(h, http.MethodDelete, "/session", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, loggedIn)
}
