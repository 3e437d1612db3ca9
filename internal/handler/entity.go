package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/editor"
)

// AddRequest is the optional body of POST /trip/{kind}. Type is only read for
// flights, where it picks the direction.
type AddRequest struct {
	Type domain.Direction `json:"type"`
}

// AddResponse is the body of a successful POST /trip/{kind}.
type AddResponse struct {
	Entity domain.Entity `json:"entity"`
	Trip   domain.Trip   `json:"trip"`
}

// kindParam parses the {kind} path segment.
func (s *Server) kindParam(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeErrorBody(w, http.StatusNotFound, "not_found", "unknown entity kind")
		return "", false
	}
	return kind, true
}

// listEntities handles GET /trip/{kind}. Elements are in storage order.
func (s *Server) listEntities(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.trips.Trip().Entities(kind))
}

// getEntity handles GET /trip/{kind}/{id}.
func (s *Server) getEntity(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	e, found := editor.Find(s.trips.Trip(), kind, chi.URLParam(r, "id"))
	if !found {
		writeErrorBody(w, http.StatusNotFound, "not_found", string(kind)+" entry not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// addEntity handles POST /trip/{kind}.
func (s *Server) addEntity(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	var req AddRequest
	if err := decodeBody(r, &req, true); err != nil {
		bodyError(w, err)
		return
	}

	var opts []editor.AddOption
	if kind == domain.KindFlight && req.Type != "" {
		if req.Type != domain.Outbound && req.Type != domain.Inbound {
			writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", "type: must be outbound or inbound")
			return
		}
		opts = append(opts, editor.WithDirection(req.Type))
	}

	trip, e, err := s.trips.Add(r.Context(), kind, opts...)
	s.writeResult(w, r, http.StatusCreated, AddResponse{Entity: e, Trip: trip}, err)
}

// updateEntity handles PUT /trip/{kind}/{id}. The body is the full entity; the
// id in the path wins over any id in the body. An unknown id leaves the
// document unchanged and still answers 200.
func (s *Server) updateEntity(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var e domain.Entity
	switch kind {
	case domain.KindFlight:
		e = decodeEntity[domain.Flight](w, r, func(f *domain.Flight) { f.ID = id })
	case domain.KindAccommodation:
		e = decodeEntity[domain.Accommodation](w, r, func(a *domain.Accommodation) { a.ID = id })
	case domain.KindActivity:
		e = decodeEntity[domain.Activity](w, r, func(a *domain.Activity) { a.ID = id })
	case domain.KindTransportation:
		e = decodeEntity[domain.Transportation](w, r, func(t *domain.Transportation) { t.ID = id })
	}
	if e == nil {
		return
	}

	trip, err := s.trips.Update(r.Context(), e)
	s.writeResult(w, r, http.StatusOK, trip, err)
}

// decodeEntity decodes the body into a T, applies setID and returns it as an
// Entity. On a bad body it writes the error response and returns nil.
func decodeEntity[T domain.Entity](w http.ResponseWriter, r *http.Request, setID func(*T)) domain.Entity {
	var v T
	if err := decodeBody(r, &v, false); err != nil {
		bodyError(w, err)
		return nil
	}
	setID(&v)
	return v
}

// deleteEntity handles DELETE /trip/{kind}/{id}. Deleting a missing id is a
// no-op and still answers 204.
func (s *Server) deleteEntity(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.kindParam(w, r)
	if !ok {
		return
	}
	_, err := s.trips.Delete(r.Context(), kind, chi.URLParam(r, "id"))
	s.writeResult(w, r, http.StatusNoContent, nil, err)
}
