package usecase

import (
	"context"
	"fmt"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
)

// TimelineUseCase derives the compliance timeline of a single audit
type TimelineUseCase struct {
	auditRepo ports.AuditRepository
	delivery  *DeliveryUseCase
	clock     ports.Clock
}

// NewTimelineUseCase creates a new timeline use case
func NewTimelineUseCase(auditRepo ports.AuditRepository, delivery *DeliveryUseCase, clock ports.Clock) *TimelineUseCase {
	return &TimelineUseCase{
		auditRepo: auditRepo,
		delivery:  delivery,
		clock:     clock,
	}
}

// GetTimeline loads an audit, checks every expected artifact delivery and
// derives the ordered stage list with the current stage and progress
func (uc *TimelineUseCase) GetTimeline(ctx context.Context, auditID string) (*domain.Timeline, error) {
	if auditID == "" {
		return nil, fmt.Errorf("audit ID is required")
	}

	audit, err := uc.auditRepo.FindByID(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	records := uc.delivery.EvaluateAudit(ctx, audit)
	byType := make(map[domain.ArtifactType]domain.DeliveryRecord, len(records))
	for _, rec := range records {
		byType[rec.Artifact] = rec
	}

	return domain.DeriveTimeline(audit, byType, uc.clock.Now()), nil
}

// GetDeliveries returns the raw delivery records for one audit
func (uc *TimelineUseCase) GetDeliveries(ctx context.Context, auditID string) ([]domain.DeliveryRecord, error) {
	if auditID == "" {
		return nil, fmt.Errorf("audit ID is required")
	}

	audit, err := uc.auditRepo.FindByID(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	return uc.delivery.EvaluateAudit(ctx, audit), nil
}
