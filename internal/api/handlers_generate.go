package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/bloomgen/internal/blooms"
	"github.com/dgallion1/bloomgen/internal/parser"
	"github.com/dgallion1/bloomgen/internal/questions"
	"github.com/dgallion1/bloomgen/internal/session"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFrom(r.Context())

	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	subject := strings.TrimSpace(r.FormValue("subject"))
	if subject == "" {
		jsonError(w, "subject is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	req, err := requestFromForm(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Subject = subject
	req.Syllabus = s.deps.Extractor.ExtractText(data, filename)

	updated, res, err := s.deps.Pipeline.Run(r.Context(), sess, req)
	if err != nil {
		jsonError(w, err.Error(), generateStatus(err))
		return
	}
	if err := s.deps.Sessions.Update(r.Context(), updated); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			s.log.Info("session ended during generation", "session", sess.ID)
			jsonError(w, "session expired", http.StatusUnauthorized)
			return
		}
		s.log.Error("store session failed", "session", sess.ID, "error", err)
		jsonError(w, "session store unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// requestFromForm reads every generation field except subject and file.
func requestFromForm(r *http.Request) (questions.Request, error) {
	var req questions.Request

	kind := questions.KindShort
	if v := r.FormValue("kind"); v != "" {
		k, err := questions.ParseKind(v)
		if err != nil {
			return req, err
		}
		kind = k
	}
	req.Kind = kind

	count, err := strconv.Atoi(strings.TrimSpace(r.FormValue("count")))
	if err != nil {
		return req, fmt.Errorf("count must be a number: %q", r.FormValue("count"))
	}
	req.Count = count

	req.Example = strings.TrimSpace(r.FormValue("example"))
	if req.Example == "" {
		return req, questions.ErrMissingExample
	}

	if v := strings.TrimSpace(r.FormValue("weights")); v != "" {
		weights, err := blooms.ParseWeights(v)
		if err != nil {
			return req, err
		}
		req.Weights = weights
	}

	req.COs = splitList(r.FormValue("cos"))
	req.POs = splitList(r.FormValue("pos"))

	if v := strings.TrimSpace(r.FormValue("marks")); v != "" {
		marks, err := strconv.Atoi(v)
		if err != nil || marks < 0 {
			return req, fmt.Errorf("marks must be a non-negative number: %q", v)
		}
		req.Marks = marks
	}
	return req, nil
}

func generateStatus(err error) int {
	switch {
	case errors.Is(err, questions.ErrMissingSyllabus):
		return http.StatusUnprocessableEntity
	case errors.Is(err, questions.ErrMissingSubject),
		errors.Is(err, questions.ErrMissingExample),
		errors.Is(err, questions.ErrInvalidCount),
		errors.Is(err, questions.ErrInvalidKind),
		errors.Is(err, blooms.ErrUnknownBucket),
		errors.Is(err, blooms.ErrInvalidWeight):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
