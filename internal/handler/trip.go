package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/choiyuns329/Japan-trip/internal/budget"
	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/editor"
	"github.com/choiyuns329/Japan-trip/internal/service"
)

// InfoRequest is the body of PATCH /trip. Omitted fields are left unchanged.
// Dates must be YYYY-MM-DD.
type InfoRequest struct {
	Title       *string             `json:"title"`
	Destination *string             `json:"destination"`
	StartDate   *openapi_types.Date `json:"startDate"`
	EndDate     *openapi_types.Date `json:"endDate"`
	Budget      *domain.Amount      `json:"budget"`
}

// BudgetResponse is the body of GET /trip/budget.
type BudgetResponse struct {
	budget.Summary
	Categories []budget.Slice `json:"categories"`
}

// ItineraryResponse is the body of GET /trip/itinerary.
type ItineraryResponse struct {
	Days []budget.DayPlan `json:"days"`
}

// ShareResponse is the body of GET /trip/share.
type ShareResponse struct {
	URL string `json:"url"`
}

// ImportRequest is the body of POST /trip/import.
type ImportRequest struct {
	Link string `json:"link"`
}

// GenerateRequest is the body of POST /trip/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// errBodyTooLarge marks a body cut off by the size limit.
var errBodyTooLarge = errors.New("request body too large")

// decodeBody decodes the JSON request body into v. An empty body is an error
// unless optional is set, in which case v is left untouched.
func decodeBody(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		if optional {
			return nil
		}
		return errors.New("request body is required")
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("malformed request body: %v", err)
	}
	return nil
}

// getTrip handles GET /trip.
func (s *Server) getTrip(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.trips.Trip())
}

// patchTrip handles PATCH /trip.
func (s *Server) patchTrip(w http.ResponseWriter, r *http.Request) {
	var req InfoRequest
	if err := decodeBody(r, &req, false); err != nil {
		bodyError(w, err)
		return
	}

	patch := editor.InfoPatch{
		Title:       req.Title,
		Destination: req.Destination,
		Budget:      req.Budget,
	}
	if req.StartDate != nil {
		d := req.StartDate.Format(domain.DateLayout)
		patch.StartDate = &d
	}
	if req.EndDate != nil {
		d := req.EndDate.Format(domain.DateLayout)
		patch.EndDate = &d
	}

	trip, err := s.trips.SetInfo(r.Context(), patch)
	s.writeResult(w, r, http.StatusOK, trip, err)
}

// resetTrip handles DELETE /trip: the document goes back to the defaults.
func (s *Server) resetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Reset(r.Context())
	s.writeResult(w, r, http.StatusOK, trip, err)
}

// getBudget handles GET /trip/budget.
func (s *Server) getBudget(w http.ResponseWriter, _ *http.Request) {
	sum := s.trips.Budget()
	writeJSON(w, http.StatusOK, BudgetResponse{Summary: sum, Categories: sum.Categories()})
}

// getItinerary handles GET /trip/itinerary.
func (s *Server) getItinerary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ItineraryResponse{Days: s.trips.Itinerary()})
}

// getShare handles GET /trip/share.
func (s *Server) getShare(w http.ResponseWriter, r *http.Request) {
	link, err := s.trips.Share()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ShareResponse{URL: link})
}

// postImport handles POST /trip/import: the document is replaced by the one
// carried in a share link.
func (s *Server) postImport(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := decodeBody(r, &req, false); err != nil {
		bodyError(w, err)
		return
	}
	if strings.TrimSpace(req.Link) == "" {
		requestError(w, "link is required")
		return
	}

	trip, err := s.trips.Import(r.Context(), req.Link)
	s.writeResult(w, r, http.StatusOK, trip, err)
}

// getExport handles GET /trip/export?format=json|yaml|csv|ics.
func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	f, err := service.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := s.trips.Export(f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip.%s"`, f))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// postGenerate handles POST /trip/generate.
// 409 while another generation is pending, 422 with code no_plan when the
// generator produced nothing usable.
func (s *Server) postGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeBody(r, &req, false); err != nil {
		bodyError(w, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		requestError(w, "prompt is required")
		return
	}

	trip, err := s.trips.Generate(r.Context(), req.Prompt)
	s.writeResult(w, r, http.StatusOK, trip, err)
}
