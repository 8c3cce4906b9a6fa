package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit represents one audited engagement, anchored on its scheduled date
type Audit struct {
	ID              string    `json:"id"`
	AuditDate       time.Time `json:"audit_date"`
	UnitID          string    `json:"unit_id"`
	UnitName        string    `json:"unit_name"`
	AuditorID       string    `json:"auditor_id"`
	Objective       string    `json:"objective"`
	Criteria        string    `json:"criteria"`
	Conclusions     string    `json:"conclusions"`
	Recommendations string    `json:"recommendations"`
	Validated       bool      `json:"validated"`
	Strengths       int       `json:"strengths"`
	Improvements    int       `json:"improvements"`
	Nonconformities int       `json:"nonconformities"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewAudit creates a new audit scheduled for the given date
func NewAudit(auditDate time.Time, unitID, unitName, auditorID string) *Audit {
	now := time.Now()
	return &Audit{
		ID:        uuid.NewString(),
		AuditDate: CivilDate(auditDate),
		UnitID:    unitID,
		UnitName:  unitName,
		AuditorID: auditorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Period returns the half-year bucket the audit's anchor date falls in
func (a *Audit) Period() Period {
	return PeriodOf(a.AuditDate)
}

// FillReport sets the four narrative report fields
func (a *Audit) FillReport(objective, criteria, conclusions, recommendations string) {
	a.Objective = objective
	a.Criteria = criteria
	a.Conclusions = conclusions
	a.Recommendations = recommendations
	a.UpdatedAt = time.Now()
}

// ReportComplete reports whether all four narrative fields are non-empty
func (a *Audit) ReportComplete() bool {
	return a.Objective != "" && a.Criteria != "" && a.Conclusions != "" && a.Recommendations != ""
}

// Validate marks the audit report as validated
func (a *Audit) Validate() error {
	if !a.ReportComplete() {
		return ErrReportIncomplete
	}
	a.Validated = true
	a.UpdatedAt = time.Now()
	return nil
}

// SetFindingCounts records the number of findings per category
func (a *Audit) SetFindingCounts(strengths, improvements, nonconformities int) {
	a.Strengths = strengths
	a.Improvements = improvements
	a.Nonconformities = nonconformities
	a.UpdatedAt = time.Now()
}
