package server

import (
	"net/http"

	"github.com/HypoDev/MineGlass/pkg/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  auth.Profile `json:"user"`
}

// loginHandler exchanges credentials for a session token.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.provider.Authenticate(req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.issuer.Mint(profile.Identity())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("user logged in", "user", profile.Username, "role", profile.Role)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: profile})
}

// logoutHandler acknowledges a logout. Tokens are stateless, so the client
// discards its copy; nothing is revoked server-side.
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		s.logger.Info("user logged out", "user", id.Username)
	}
	w.WriteHeader(http.StatusNoContent)
}

// meHandler returns the caller's profile.
func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	if profile, ok := s.provider.Lookup(id.Username); ok {
		writeJSON(w, http.StatusOK, profile)
		return
	}
	writeJSON(w, http.StatusOK, auth.Profile{Username: id.Username, Role: id.Role})
}
