package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
	"github.com/auditra/auditra/internal/service/logger"
)

// EvaluationUseCase orchestrates the file-delivery partial score: it runs
// the delivery evaluator over every audit of an (auditor, period, unit)
// triple and persists the consolidated breakdown. Recalculation is
// idempotent: unchanged inputs always produce identical scores.
type EvaluationUseCase struct {
	auditRepo   ports.AuditRepository
	evalRepo    ports.EvaluationRepository
	delivery    *DeliveryUseCase
	recomputer  ports.FinalScoreRecomputer
	log         logger.Logger
	workerLimit int
}

// NewEvaluationUseCase creates a new evaluation orchestrator
func NewEvaluationUseCase(auditRepo ports.AuditRepository, evalRepo ports.EvaluationRepository, delivery *DeliveryUseCase, recomputer ports.FinalScoreRecomputer, log logger.Logger, workerLimit int) *EvaluationUseCase {
	if workerLimit <= 0 {
		workerLimit = 4
	}
	return &EvaluationUseCase{
		auditRepo:   auditRepo,
		evalRepo:    evalRepo,
		delivery:    delivery,
		recomputer:  recomputer,
		log:         log,
		workerLimit: workerLimit,
	}
}

// RecalculateDelivery recomputes the file-delivery partial score for an
// (auditor, period, unit) triple. With zero matching audits a zero score is
// persisted together with the no-audits marker.
func (uc *EvaluationUseCase) RecalculateDelivery(ctx context.Context, auditorID string, period domain.Period, unitID string) (*domain.Evaluation, error) {
	if auditorID == "" || period == "" || unitID == "" {
		return nil, fmt.Errorf("auditor ID, period and unit ID are required")
	}

	audits, err := uc.auditRepo.ListByAuditorPeriodUnit(ctx, auditorID, period, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}

	breakdown := make([]domain.AuditDelivery, len(audits))
	g := new(errgroup.Group)
	g.SetLimit(uc.workerLimit)
	for i, audit := range audits {
		i, audit := i, audit
		g.Go(func() error {
			breakdown[i] = domain.AuditDelivery{
				AuditID:   audit.ID,
				AuditDate: audit.AuditDate,
				Artifacts: uc.delivery.EvaluateAudit(ctx, audit),
			}
			return nil
		})
	}
	_ = g.Wait()

	eval, created, err := getOrCreateEvaluation(ctx, uc.evalRepo, auditorID, period, unitID)
	if err != nil {
		return nil, err
	}
	eval.ApplyDelivery(breakdown)
	if err := persistEvaluation(ctx, uc.evalRepo, eval, created); err != nil {
		return nil, err
	}

	if eval.NoAudits {
		uc.log.Info(ctx, "no audits found for this unit/period", map[string]interface{}{
			"auditor_id": auditorID,
			"period":     period,
			"unit_id":    unitID,
		})
	}

	requestFinalScore(ctx, uc.recomputer, uc.log, eval.ID)
	return eval, nil
}

// OverrideDeliveredAt applies an administrative correction to one
// artifact's delivery timestamp. A nil deliveredAt clears the delivery.
// The correction runs through the exact same scoring branch as the
// automatic path and the stored breakdown is recomputed from it.
func (uc *EvaluationUseCase) OverrideDeliveredAt(ctx context.Context, auditID string, artifact domain.ArtifactType, deliveredAt *time.Time) (*domain.DeliveryRecord, error) {
	audit, err := uc.auditRepo.FindByID(ctx, auditID)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}
	spec, err := domain.ArtifactSpecFor(artifact)
	if err != nil {
		return nil, err
	}

	rec := domain.EvaluateDelivery(spec, audit, deliveredAt)

	eval, err := uc.evalRepo.FindByKey(ctx, audit.AuditorID, audit.Period(), audit.UnitID)
	if err != nil {
		if errors.Is(err, domain.ErrEvaluationNotFound) {
			return &rec, nil
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	replaced := false
	for i := range eval.Breakdown {
		if eval.Breakdown[i].AuditID != audit.ID {
			continue
		}
		for j := range eval.Breakdown[i].Artifacts {
			if eval.Breakdown[i].Artifacts[j].Artifact == artifact {
				eval.Breakdown[i].Artifacts[j] = rec
				replaced = true
			}
		}
	}
	if !replaced {
		return &rec, nil
	}

	eval.ApplyDelivery(eval.Breakdown)
	if err := uc.evalRepo.Update(ctx, eval); err != nil {
		return nil, fmt.Errorf("failed to update evaluation: %w", err)
	}

	requestFinalScore(ctx, uc.recomputer, uc.log, eval.ID)
	return &rec, nil
}

// GetEvaluation retrieves the evaluation for an (auditor, period, unit)
// triple
func (uc *EvaluationUseCase) GetEvaluation(ctx context.Context, auditorID string, period domain.Period, unitID string) (*domain.Evaluation, error) {
	eval, err := uc.evalRepo.FindByKey(ctx, auditorID, period, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return eval, nil
}

// Shared helpers for the three scoring paths

func getOrCreateEvaluation(ctx context.Context, repo ports.EvaluationRepository, auditorID string, period domain.Period, unitID string) (*domain.Evaluation, bool, error) {
	eval, err := repo.FindByKey(ctx, auditorID, period, unitID)
	if err == nil {
		return eval, false, nil
	}
	if !errors.Is(err, domain.ErrEvaluationNotFound) {
		return nil, false, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return domain.NewEvaluation(auditorID, period, unitID), true, nil
}

func persistEvaluation(ctx context.Context, repo ports.EvaluationRepository, eval *domain.Evaluation, created bool) error {
	if created {
		if err := repo.Create(ctx, eval); err != nil {
			return fmt.Errorf("failed to create evaluation: %w", err)
		}
		return nil
	}
	if err := repo.Update(ctx, eval); err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}
	return nil
}

// requestFinalScore asks the external aggregate to refresh the final score.
// The partial score is already persisted; a recomputation failure only
// means the final score may be stale, so it surfaces as a warning.
func requestFinalScore(ctx context.Context, recomputer ports.FinalScoreRecomputer, log logger.Logger, evaluationID string) {
	if recomputer == nil {
		return
	}
	if err := recomputer.RecomputeFinalScore(ctx, evaluationID); err != nil {
		log.Warn(ctx, "final score recomputation failed, stored final score may be stale", map[string]interface{}{
			"evaluation_id": evaluationID,
			"error":         err.Error(),
		})
	}
}
