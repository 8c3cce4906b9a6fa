package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/usecase"
)

// SurveyHandler handles HTTP requests for survey imports and aggregation
type SurveyHandler struct {
	importUseCase    *usecase.SurveyImportUseCase
	aggregateUseCase *usecase.SurveyAggregateUseCase
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(importUseCase *usecase.SurveyImportUseCase, aggregateUseCase *usecase.SurveyAggregateUseCase) *SurveyHandler {
	return &SurveyHandler{
		importUseCase:    importUseCase,
		aggregateUseCase: aggregateUseCase,
	}
}

// RegisterRoutes registers survey routes
func (h *SurveyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/surveys/import", h.Import).Methods("POST")
	router.HandleFunc("/api/v1/surveys/recompute", h.Recompute).Methods("POST")
}

// Import handles a batch survey import. Rejected rows come back in the
// report; the request only fails when the directory itself is unavailable.
func (h *SurveyHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rows []usecase.ImportRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Rows) == 0 {
		http.Error(w, "No rows to import", http.StatusBadRequest)
		return
	}

	report, err := h.importUseCase.Import(r.Context(), req.Rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Recompute handles recomputing the survey partial score of an evaluation
func (h *SurveyHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AuditorID string `json:"auditor_id"`
		Period    string `json:"period"`
		UnitID    string `json:"unit_id"`
		UnitLabel string `json:"unit_label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eval, err := h.aggregateUseCase.Recompute(r.Context(), req.AuditorID, domain.Period(req.Period), req.UnitID, req.UnitLabel)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eval)
}
