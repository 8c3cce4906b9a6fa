package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
)

// CreateAuditRequest represents the request to schedule an audit
type CreateAuditRequest struct {
	AuditDate time.Time `json:"audit_date" validate:"required"`
	UnitID    string    `json:"unit_id" validate:"required"`
	UnitName  string    `json:"unit_name" validate:"required"`
	AuditorID string    `json:"auditor_id" validate:"required"`
}

// FillReportRequest represents the four narrative report fields
type FillReportRequest struct {
	Objective       string `json:"objective"`
	Criteria        string `json:"criteria"`
	Conclusions     string `json:"conclusions"`
	Recommendations string `json:"recommendations"`
}

// AuditUseCase handles audit lifecycle operations
type AuditUseCase struct {
	auditRepo ports.AuditRepository
}

// NewAuditUseCase creates a new audit use case
func NewAuditUseCase(auditRepo ports.AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// CreateAudit schedules a new audit
func (uc *AuditUseCase) CreateAudit(ctx context.Context, req CreateAuditRequest) (*domain.Audit, error) {
	if err := uc.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	audit := domain.NewAudit(req.AuditDate, req.UnitID, req.UnitName, req.AuditorID)
	if err := uc.auditRepo.Create(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to create audit: %w", err)
	}
	return audit, nil
}

// GetAudit retrieves an audit by ID
func (uc *AuditUseCase) GetAudit(ctx context.Context, auditID string) (*domain.Audit, error) {
	if auditID == "" {
		return nil, fmt.Errorf("audit ID is required")
	}

	audit, err := uc.auditRepo.FindByID(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}
	return audit, nil
}

// FillReport sets the audit's narrative report fields
func (uc *AuditUseCase) FillReport(ctx context.Context, auditID string, req FillReportRequest) (*domain.Audit, error) {
	audit, err := uc.GetAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	audit.FillReport(req.Objective, req.Criteria, req.Conclusions, req.Recommendations)
	if err := uc.auditRepo.Update(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to update audit: %w", err)
	}
	return audit, nil
}

// ValidateReport marks the audit report as validated
func (uc *AuditUseCase) ValidateReport(ctx context.Context, auditID string) (*domain.Audit, error) {
	audit, err := uc.GetAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	if err := audit.Validate(); err != nil {
		return nil, err
	}
	if err := uc.auditRepo.Update(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to update audit: %w", err)
	}
	return audit, nil
}

// SetFindingCounts records finding counts per category
func (uc *AuditUseCase) SetFindingCounts(ctx context.Context, auditID string, strengths, improvements, nonconformities int) (*domain.Audit, error) {
	if strengths < 0 || improvements < 0 || nonconformities < 0 {
		return nil, fmt.Errorf("finding counts must not be negative")
	}

	audit, err := uc.GetAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}

	audit.SetFindingCounts(strengths, improvements, nonconformities)
	if err := uc.auditRepo.Update(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to update audit: %w", err)
	}
	return audit, nil
}

// DeleteAudit removes an audit; the store cascades to its findings
func (uc *AuditUseCase) DeleteAudit(ctx context.Context, auditID string) error {
	if auditID == "" {
		return fmt.Errorf("audit ID is required")
	}

	if err := uc.auditRepo.Delete(ctx, auditID); err != nil {
		return fmt.Errorf("failed to delete audit: %w", err)
	}
	return nil
}

func (uc *AuditUseCase) validateCreateRequest(req CreateAuditRequest) error {
	if req.AuditDate.IsZero() {
		return fmt.Errorf("audit date is required")
	}
	if req.UnitID == "" {
		return fmt.Errorf("unit ID is required")
	}
	if req.UnitName == "" {
		return fmt.Errorf("unit name is required")
	}
	if req.AuditorID == "" {
		return fmt.Errorf("auditor ID is required")
	}
	return nil
}
