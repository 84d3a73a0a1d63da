package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/bloomgen/internal/auth"
	"github.com/dgallion1/bloomgen/internal/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		jsonError(w, "invalid login body", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		jsonError(w, "username and password are required", http.StatusBadRequest)
		return
	}

	role, err := s.deps.Authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrAuthFailure) {
		s.log.Warn("login rejected", "username", req.Username)
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		s.log.Error("authenticate failed", "username", req.Username, "error", err)
		jsonError(w, "authentication unavailable", http.StatusInternalServerError)
		return
	}

	sess := session.New(req.Username, string(role))
	if err := s.deps.Sessions.Put(r.Context(), sess); err != nil {
		s.log.Error("store session failed", "error", err)
		jsonError(w, "session store unavailable", http.StatusServiceUnavailable)
		return
	}
	token, err := s.deps.Tokens.Issue(sess.ID, sess.Username, role)
	if err != nil {
		jsonError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	s.log.Info("login", "username", req.Username, "role", string(role), "session", sess.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"role":       role,
		"expires_in": int(s.deps.Tokens.TTL().Seconds()),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if err := s.deps.Sessions.Delete(r.Context(), sess.ID); err != nil {
		jsonError(w, "failed to end session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
