package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/bloomgen/internal/blooms"
	"github.com/dgallion1/bloomgen/internal/export"
	"github.com/dgallion1/bloomgen/internal/questions"
	"github.com/dgallion1/bloomgen/internal/session"
)

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if sess.Last == nil {
		jsonError(w, "no result yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess.Last)
}

func (s *Server) handleResetResult(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if err := s.deps.Sessions.Update(r.Context(), s.deps.Pipeline.Reset(sess)); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			jsonError(w, "session expired", http.StatusUnauthorized)
			return
		}
		jsonError(w, "session store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport writes the cached result under OUTPUT_DIR and streams it back.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())
	if sess.Last == nil {
		jsonError(w, "no result yet", http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "docx"
	}
	wr, err := export.ForExt(format, s.deps.DOCXTemplate)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	path, err := s.deps.Exporter.Export(r.Context(), wr, export.DefaultSubstitutions(sess.Last, time.Now()), sess.Last)
	if errors.Is(err, export.ErrEmptyResult) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("export failed", "session", sess.ID, "format", format, "error", err)
		jsonError(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.log.Info("exported", "session", sess.ID, "path", path)

	w.Header().Set("Content-Type", wr.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body); err != nil {
		jsonError(w, "invalid body", http.StatusBadRequest)
		return
	}
	q := strings.TrimSpace(body.Question)
	if q == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}
	rules := blooms.DefaultRules
	if s.deps.Pipeline != nil && s.deps.Pipeline.Rules != nil {
		rules = s.deps.Pipeline.Rules
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"question": q,
		"level":    rules.Classify(q),
	})
}

type kindInfo struct {
	Kind    questions.Kind `json:"kind"`
	Heading string         `json:"heading"`
	Marks   int            `json:"marks"`
	Example string         `json:"example"`
}

// handleKinds lists question kinds with their default marks and a sample
// example format for form placeholders.
func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	out := make([]kindInfo, 0, len(questions.Kinds))
	for _, k := range questions.Kinds {
		out = append(out, kindInfo{Kind: k, Heading: k.Heading(), Marks: k.DefaultMarks(), Example: k.DefaultExample()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"kinds":   out,
		"buckets": blooms.Buckets,
	})
}
