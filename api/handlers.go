package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"pseint2js/catalog"
	"pseint2js/history"
	"pseint2js/transpiler"
)

var errHistoryDisabled = errors.New("conversion history is disabled")

type convertRequest struct {
	Source string `json:"source"`
	Strict bool   `json:"strict"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBytes)
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("source is required"))
		return
	}

	res := transpiler.ConvertWithOptions(req.Source, transpiler.Options{Strict: req.Strict || s.cfg.Strict})
	if s.history != nil {
		entry, err := s.history.Record(r.Context(), history.NewEntry(req.Source, res))
		if err != nil {
			s.logger.Warn("api: history not recorded", "error", err)
		} else {
			w.Header().Set("X-History-Id", strconv.FormatInt(entry.ID, 10))
		}
	}
	s.logger.Debug("api: converted", "main", res.MainName, "success", res.Success, "warnings", len(res.Warnings))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	exercises := s.catalog.ByCategory(strings.TrimSpace(r.URL.Query().Get("category")))
	writeJSON(w, http.StatusOK, map[string]any{"exercises": exercises})
}

func (s *Server) exercise(w http.ResponseWriter, r *http.Request) (catalog.Exercise, bool) {
	ex, err := s.catalog.Get(chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrUnknownExercise) {
		s.writeError(w, http.StatusNotFound, err)
		return catalog.Exercise{}, false
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return catalog.Exercise{}, false
	}
	return ex, true
}

func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	if ex, ok := s.exercise(w, r); ok {
		writeJSON(w, http.StatusOK, ex)
	}
}

func (s *Server) handleExerciseConversion(w http.ResponseWriter, r *http.Request) {
	if ex, ok := s.exercise(w, r); ok {
		writeJSON(w, http.StatusOK, transpiler.Convert(ex.Solution))
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, errHistoryDisabled)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversions": entries})
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, errHistoryDisabled)
		return
	}
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid id %q", raw))
		return
	}
	entry, err := s.history.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
