package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/usecase"
)

// EvaluationHandler handles HTTP requests for evaluations and rubric saves
type EvaluationHandler struct {
	evaluationUseCase *usecase.EvaluationUseCase
	rubricUseCase     *usecase.RubricUseCase
}

// NewEvaluationHandler creates a new evaluation handler
func NewEvaluationHandler(evaluationUseCase *usecase.EvaluationUseCase, rubricUseCase *usecase.RubricUseCase) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationUseCase: evaluationUseCase,
		rubricUseCase:     rubricUseCase,
	}
}

// RegisterRoutes registers evaluation routes
func (h *EvaluationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/evaluations/recalculate", h.Recalculate).Methods("POST")
	router.HandleFunc("/api/v1/evaluations/rubric", h.SaveRubric).Methods("POST")
	router.HandleFunc("/api/v1/evaluations", h.GetEvaluation).Methods("GET")
	router.HandleFunc("/api/v1/audits/{id}/deliveries/{artifact}/override", h.OverrideDelivery).Methods("POST")
	router.HandleFunc("/api/v1/rubric/criteria", h.GetRubricCatalog).Methods("GET")
}

type evaluationKeyRequest struct {
	AuditorID string `json:"auditor_id"`
	Period    string `json:"period"`
	UnitID    string `json:"unit_id"`
}

// Recalculate handles recomputing the file-delivery partial score. Safe to
// invoke repeatedly: unchanged inputs yield identical scores.
func (h *EvaluationHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	var req evaluationKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eval, err := h.evaluationUseCase.RecalculateDelivery(r.Context(), req.AuditorID, domain.Period(req.Period), req.UnitID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eval)
}

// SaveRubric handles saving a manually-scored rubric
func (h *EvaluationHandler) SaveRubric(w http.ResponseWriter, r *http.Request) {
	var req struct {
		evaluationKeyRequest
		Answers map[string]float64 `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eval, err := h.rubricUseCase.Save(r.Context(), req.AuditorID, domain.Period(req.Period), req.UnitID, req.Answers)
	if err != nil {
		if errors.Is(err, domain.ErrRubricIncomplete) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eval)
}

// GetEvaluation handles retrieving an evaluation by its key triple
func (h *EvaluationHandler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	auditorID := q.Get("auditor_id")
	period := q.Get("period")
	unitID := q.Get("unit_id")
	if auditorID == "" || period == "" || unitID == "" {
		http.Error(w, "auditor_id, period and unit_id are required", http.StatusBadRequest)
		return
	}

	eval, err := h.evaluationUseCase.GetEvaluation(r.Context(), auditorID, domain.Period(period), unitID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eval)
}

// OverrideDelivery handles an administrative delivered-at correction
func (h *EvaluationHandler) OverrideDelivery(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditID := vars["id"]
	artifact := domain.ArtifactType(vars["artifact"])

	var req struct {
		DeliveredAt *time.Time `json:"delivered_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.evaluationUseCase.OverrideDeliveredAt(r.Context(), auditID, artifact, req.DeliveredAt)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// GetRubricCatalog handles listing the fixed rubric criteria
func (h *EvaluationHandler) GetRubricCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.RubricCatalog())
}
