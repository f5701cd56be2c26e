// Package api exposes the matching engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/altum-analytics/uidmatch/internal/engine"
	"github.com/altum-analytics/uidmatch/internal/engine/lexical"
	"github.com/altum-analytics/uidmatch/internal/model"
)

// Handler serves matching, categorization, and partitioning requests.
type Handler struct {
	engine *engine.Engine
}

// NewHandler creates a Handler over the given engine.
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{engine: eng}
}

// RegisterRoutes mounts every API route on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/api/match", h.Match)
	r.Post("/api/categorize", h.Categorize)
	r.Post("/api/partition", h.Partition)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchRequest struct {
	Questions []model.Question       `json:"questions"`
	Bank      []model.ReferenceEntry `json:"reference_bank"`
}

type matchResponse struct {
	Results    []model.MatchResult `json:"results"`
	MatchRate  float64             `json:"match_rate"`
	TierCounts map[model.Tier]int  `json:"tier_counts"`
	Errors     []string            `json:"errors,omitempty"`
}

// Match scores the posted questions against the posted reference bank.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "questions must not be empty")
		return
	}

	report, err := h.engine.Match(r.Context(), req.Questions, req.Bank)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrEmptyBank), errors.Is(err, lexical.ErrCorpusTooSmall):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.Error("match request failed", "error", err)
			writeError(w, http.StatusInternalServerError, "matching failed")
		}
		return
	}

	resp := matchResponse{
		Results:    report.Results,
		MatchRate:  report.MatchRate,
		TierCounts: report.TierCounts,
	}
	for _, qe := range report.Errors {
		resp.Errors = append(resp.Errors, qe.QuestionID+": "+qe.Err.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

type categorizeRequest struct {
	SurveyTitle string `json:"survey_title"`
}

// Categorize classifies a survey title along the three taxonomies.
func (h *Handler) Categorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Categorize(req.SurveyTitle))
}

type partitionRequest struct {
	Rows []model.MatchRecord `json:"rows"`
}

type partitionResponse struct {
	NonIdentity []model.MatchRecord `json:"non_identity"`
	Identity    []model.MatchRecord `json:"identity"`
}

// Partition splits export rows into identity and non-identity groups.
func (h *Handler) Partition(w http.ResponseWriter, r *http.Request) {
	var req partitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	nonIdentity, identity := h.engine.PartitionForExport(req.Rows)
	writeJSON(w, http.StatusOK, partitionResponse{NonIdentity: nonIdentity, Identity: identity})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
