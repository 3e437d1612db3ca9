package handler

import (
	"net/http"
)

// LoginRequest is the optional body of POST /session. Empty fields fall back
// to the default mock identity.
type LoginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// getSession handles GET /session: the logged-in mock user, or 404.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	u, err := s.sessions.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// postSession handles POST /session. Login always succeeds.
func (s *Server) postSession(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req, true); err != nil {
		bodyError(w, err)
		return
	}
	u, err := s.sessions.Login(r.Context(), req.Name, req.Email)
	s.writeResult(w, r, http.StatusCreated, u, err)
}

// deleteSession handles DELETE /session.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	err := s.sessions.Logout(r.Context())
	s.writeResult(w, r, http.StatusNoContent, nil, err)
}
