package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"visareq/app"
	"visareq/domain/core"
	"visareq/domain/run"
	"visareq/internal"
	"visareq/internal/errors"
)

// createRunRequest is the POST /api/runs body.
type createRunRequest struct {
	PolicyText   string `json:"policy_text"`
	VisaTypeHint string `json:"visa_type_hint,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateRun executes the full pipeline synchronously and returns the
// terminal run record.
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.InvalidInput("request body must be JSON"))
		return
	}
	if strings.TrimSpace(req.PolicyText) == "" {
		writeError(w, http.StatusBadRequest, errors.InvalidInput("policy_text is required"))
		return
	}

	run, err := s.pipeline.Run(r.Context(), req.PolicyText, req.VisaTypeHint)
	if err != nil {
		internal.DefaultLogger.Error("Run %s failed: %v", run.RunID, err)
		// The run record is still returned; the status carries the failure.
		writeJSON(w, http.StatusUnprocessableEntity, run)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.repo.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(err, "failed to list runs"))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	if run.Report == nil {
		writeError(w, http.StatusNotFound, errors.NotFound("validation report"))
		return
	}
	writeJSON(w, http.StatusOK, run.Report)
}

func (s *Server) handleGetSpec(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	if run.Specification == nil {
		writeError(w, http.StatusNotFound, errors.NotFound("consolidated specification"))
		return
	}
	writeJSON(w, http.StatusOK, run.Specification)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, app.SummarizeRun(run))
}

// handleExportRun writes the run workbook under the configured export
// directory and returns its path.
func (s *Server) handleExportRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	path := filepath.Join(s.export.Dir, fmt.Sprintf("run_%s.xlsx", run.RunID))
	if err := s.exporter.Export(run, path); err != nil {
		internal.DefaultLogger.Error("Export of run %s failed: %v", run.RunID, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	runs, err := s.repo.List(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(err, "failed to list runs"))
		return
	}
	writeJSON(w, http.StatusOK, app.ComputeRunStats(runs))
}

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*run.PipelineRun, bool) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.InvalidInput("invalid run id"))
		return nil, false
	}
	run, err := s.repo.Get(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			writeError(w, http.StatusNotFound, errors.NotFound("run"))
		} else {
			writeError(w, http.StatusInternalServerError, errors.Wrap(err, "failed to load run"))
		}
		return nil, false
	}
	return run, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.DefaultLogger.Error("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
