// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/vizor-ai/vizor/internal/domain/aggregate"
)

// analyzeRequest mirrors the request schema for POST /analyze.
type analyzeRequest struct {
	Subject string `json:"subject"`
	// Force bypasses the result cache for a fresh computation.
	Force bool `json:"force,omitempty"`
}

func (a analyzeRequest) validate() error {
	if strings.TrimSpace(a.Subject) == "" {
		return errors.New("missing subject")
	}
	return nil
}

// AnalyzeHandler handles score computation requests.
type AnalyzeHandler struct {
	scores ScoreService
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(scores ScoreService) *AnalyzeHandler {
	return &AnalyzeHandler{scores: scores}
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	compute := h.scores.ComputeScore
	if req.Force {
		compute = h.scores.Recompute
	}
	rec, err := compute(r.Context(), req.Subject)
	if err != nil {
		switch {
		case errors.Is(err, aggregate.ErrEmptySubject):
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		case errors.Is(err, aggregate.ErrAllSourcesFailed):
			writeError(w, http.StatusServiceUnavailable, "all_sources_failed", WrapKind(op, ErrUnavailable, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
