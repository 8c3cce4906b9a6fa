package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/usecase"
	apperror "github.com/auditra/auditra/pkg/error"
)

// AuditHandler handles HTTP requests for audits and their timelines
type AuditHandler struct {
	auditUseCase    *usecase.AuditUseCase
	timelineUseCase *usecase.TimelineUseCase
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditUseCase *usecase.AuditUseCase, timelineUseCase *usecase.TimelineUseCase) *AuditHandler {
	return &AuditHandler{
		auditUseCase:    auditUseCase,
		timelineUseCase: timelineUseCase,
	}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/audits", h.CreateAudit).Methods("POST")
	router.HandleFunc("/api/v1/audits/{id}", h.GetAudit).Methods("GET")
	router.HandleFunc("/api/v1/audits/{id}", h.DeleteAudit).Methods("DELETE")
	router.HandleFunc("/api/v1/audits/{id}/report", h.FillReport).Methods("PUT")
	router.HandleFunc("/api/v1/audits/{id}/validate", h.ValidateReport).Methods("POST")
	router.HandleFunc("/api/v1/audits/{id}/findings", h.SetFindingCounts).Methods("PUT")
	router.HandleFunc("/api/v1/audits/{id}/timeline", h.GetTimeline).Methods("GET")
	router.HandleFunc("/api/v1/audits/{id}/deliveries", h.GetDeliveries).Methods("GET")
}

// CreateAudit handles audit creation
func (h *AuditHandler) CreateAudit(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	audit, err := h.auditUseCase.CreateAudit(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, audit)
}

// GetAudit handles retrieving a single audit
func (h *AuditHandler) GetAudit(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["id"]

	audit, err := h.auditUseCase.GetAudit(r.Context(), auditID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, audit)
}

// DeleteAudit handles audit removal
func (h *AuditHandler) DeleteAudit(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["id"]

	if err := h.auditUseCase.DeleteAudit(r.Context(), auditID); err != nil {
		writeUseCaseError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FillReport handles updating the narrative report fields
func (h *AuditHandler) FillReport(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["id"]

	var req usecase.FillReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	audit, err := h.auditUseCase.FillReport(r.Context(), auditID, req)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, audit)
}

// ValidateReport handles validating the audit report
func (h *AuditHandler) ValidateReport(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["id"]

	audit, err := h.auditUseCase.ValidateReport(r.Context(), auditID)
	if err != nil {
		if errors.Is(err, domain.ErrReportIncomplete) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, audit)
}

// SetFindingCounts handles updating finding counts
func (h *AuditHandler) SetFindingCounts(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["id"]

	var req struct {
		Strengths       int `json:"strengths"`
		Improvements    int `json:"improvements"`
		Nonconformities int `json:"nonconformities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	audit, err := h.auditUseCase.SetFindingCounts(r.Context(), auditID, req.Strengths, req.Improvements, req.Nonconformities)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, audit)
}

// GetTimeline handles retrieving an audit's derived timeline
func (h *AuditHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["id"]

	timeline, err := h.timelineUseCase.GetTimeline(r.Context(), auditID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, timeline)
}

// GetDeliveries handles retrieving an audit's delivery records
func (h *AuditHandler) GetDeliveries(w http.ResponseWriter, r *http.Request) {
	auditID := mux.Vars(r)["id"]

	records, err := h.timelineUseCase.GetDeliveries(r.Context(), auditID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeUseCaseError(w http.ResponseWriter, err error) {
	appErr := apperror.MapError(err)
	writeJSON(w, appErr.Status, appErr)
}
