package ports

import (
	"context"
	"time"

	"github.com/auditra/auditra/internal/domain"
)

// AuditRepository defines the interface for audit persistence
type AuditRepository interface {
	// Create saves a new audit
	Create(ctx context.Context, audit *domain.Audit) error

	// FindByID retrieves an audit by its ID
	FindByID(ctx context.Context, id string) (*domain.Audit, error)

	// Update updates an existing audit
	Update(ctx context.Context, audit *domain.Audit) error

	// ListByAuditorPeriodUnit retrieves all audits for an auditor whose
	// anchor date falls in the period, scoped to one organizational unit
	ListByAuditorPeriodUnit(ctx context.Context, auditorID string, period domain.Period, unitID string) ([]*domain.Audit, error)

	// Delete removes an audit and cascades to its findings
	Delete(ctx context.Context, id string) error
}

// SurveyRepository defines the interface for survey response persistence
type SurveyRepository interface {
	// Create saves a new survey response
	Create(ctx context.Context, response *domain.SurveyResponse) error

	// Update updates an existing survey response
	Update(ctx context.Context, response *domain.SurveyResponse) error

	// FindByKey retrieves a response by its uniqueness key: auditor name as
	// entered, response timestamp and respondent name
	FindByKey(ctx context.Context, auditorName string, respondedAt time.Time, respondentName string) (*domain.SurveyResponse, error)

	// ListByAuditorPeriod retrieves all responses resolved to an auditor
	// within a period
	ListByAuditorPeriod(ctx context.Context, auditorID string, period domain.Period) ([]*domain.SurveyResponse, error)
}

// EvaluationRepository defines the interface for evaluation persistence
type EvaluationRepository interface {
	// Create saves a new evaluation
	Create(ctx context.Context, eval *domain.Evaluation) error

	// Update updates an existing evaluation
	Update(ctx context.Context, eval *domain.Evaluation) error

	// FindByKey retrieves the evaluation for an (auditor, period, unit)
	// triple
	FindByKey(ctx context.Context, auditorID string, period domain.Period, unitID string) (*domain.Evaluation, error)
}
