package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/service/logger"
)

func newTestAudit(id string, auditDate time.Time) *domain.Audit {
	audit := domain.NewAudit(auditDate, "unit-7", "Quality Assurance", "auditor-1")
	audit.ID = id
	return audit
}

func newEvaluationFixture(t *testing.T, audits ...*domain.Audit) (*EvaluationUseCase, *fakeObjectStore, *fakeEvaluationRepo, *MockRecomputer) {
	t.Helper()
	store := newFakeObjectStore()
	evalRepo := newFakeEvaluationRepo()
	recomputer := new(MockRecomputer)
	delivery := NewDeliveryUseCase(store, logger.Noop(), 4, time.Second)
	uc := NewEvaluationUseCase(newFakeAuditRepo(audits...), evalRepo, delivery, recomputer, logger.Noop(), 4)
	return uc, store, evalRepo, recomputer
}

func TestRecalculateDelivery_NoAudits(t *testing.T) {
	uc, _, _, recomputer := newEvaluationFixture(t)
	recomputer.On("RecomputeFinalScore", mock.Anything, mock.Anything).Return(nil)

	eval, err := uc.RecalculateDelivery(context.Background(), "auditor-1", "2025-H1", "unit-7")

	assert.NoError(t, err)
	assert.True(t, eval.NoAudits, "no-audits marker must be set")
	assert.NotNil(t, eval.FileScore)
	assert.Equal(t, 0.0, *eval.FileScore)
	assert.Equal(t, 0, eval.ExpectedCount)
	recomputer.AssertCalled(t, "RecomputeFinalScore", mock.Anything, eval.ID)
}

func TestRecalculateDelivery_AllMissingIsNotNoAudits(t *testing.T) {
	audit := newTestAudit("audit-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	uc, _, _, recomputer := newEvaluationFixture(t, audit)
	recomputer.On("RecomputeFinalScore", mock.Anything, mock.Anything).Return(nil)

	eval, err := uc.RecalculateDelivery(context.Background(), "auditor-1", "2025-H1", "unit-7")

	assert.NoError(t, err)
	assert.False(t, eval.NoAudits, "audits exist, marker must stay clear")
	assert.Equal(t, 6, eval.ExpectedCount)
	assert.Equal(t, 0, eval.DeliveredCount)
	assert.Equal(t, 0.0, *eval.FileScore)
	assert.Equal(t, 0, eval.CompletionPct)
}

func TestRecalculateDelivery_MixedDeliveries(t *testing.T) {
	audit := newTestAudit("audit-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	uc, store, _, recomputer := newEvaluationFixture(t, audit)
	recomputer.On("RecomputeFinalScore", mock.Anything, mock.Anything).Return(nil)

	// plan delivered one day late (due 03-05), minutes on time (due 03-10)
	store.put("audit-plans", "unit-7/PLAN-audit-1.pdf", time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC))
	store.put("audit-minutes", "unit-7/MINUTES-audit-1.pdf", time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))

	eval, err := uc.RecalculateDelivery(context.Background(), "auditor-1", "2025-H1", "unit-7")

	assert.NoError(t, err)
	// points: 1 (late plan) + 5 (minutes) + 0*4 missing = 6 over 6 expected
	assert.Equal(t, 1.0, *eval.FileScore)
	assert.Equal(t, 6, eval.ExpectedCount)
	assert.Equal(t, 2, eval.DeliveredCount)
	assert.Equal(t, 33, eval.CompletionPct)
	assert.Len(t, eval.Breakdown, 1)
	assert.Len(t, eval.Breakdown[0].Artifacts, 6)
}

func TestRecalculateDelivery_Idempotent(t *testing.T) {
	audit := newTestAudit("audit-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	uc, store, _, recomputer := newEvaluationFixture(t, audit)
	recomputer.On("RecomputeFinalScore", mock.Anything, mock.Anything).Return(nil)
	store.put("audit-plans", "unit-7/PLAN-audit-1.pdf", time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC))

	first, err := uc.RecalculateDelivery(context.Background(), "auditor-1", "2025-H1", "unit-7")
	assert.NoError(t, err)
	second, err := uc.RecalculateDelivery(context.Background(), "auditor-1", "2025-H1", "unit-7")
	assert.NoError(t, err)

	assert.Equal(t, *first.FileScore, *second.FileScore)
	assert.Equal(t, first.ExpectedCount, second.ExpectedCount)
	assert.Equal(t, first.DeliveredCount, second.DeliveredCount)
	assert.Equal(t, first.Breakdown, second.Breakdown)
	assert.Equal(t, first.ID, second.ID, "second run must update the same evaluation")
}

func TestRecalculateDelivery_StorageFailureIsLocal(t *testing.T) {
	audit := newTestAudit("audit-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	uc, store, _, recomputer := newEvaluationFixture(t, audit)
	recomputer.On("RecomputeFinalScore", mock.Anything, mock.Anything).Return(nil)

	store.put("audit-minutes", "unit-7/MINUTES-audit-1.pdf", time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	store.errors["audit-plans/unit-7/PLAN-audit-1.pdf"] = errors.New("connection refused")

	eval, err := uc.RecalculateDelivery(context.Background(), "auditor-1", "2025-H1", "unit-7")

	assert.NoError(t, err, "one failed lookup must not fail the run")
	assert.Equal(t, 6, eval.ExpectedCount)
	assert.Equal(t, 1, eval.DeliveredCount)
}

func TestRecalculateDelivery_RecomputationFailureKeepsScore(t *testing.T) {
	audit := newTestAudit("audit-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	uc, _, evalRepo, recomputer := newEvaluationFixture(t, audit)
	recomputer.On("RecomputeFinalScore", mock.Anything, mock.Anything).Return(errors.New("aggregate down"))

	eval, err := uc.RecalculateDelivery(context.Background(), "auditor-1", "2025-H1", "unit-7")

	assert.NoError(t, err, "recomputation failure surfaces as a warning only")
	stored, findErr := evalRepo.FindByKey(context.Background(), "auditor-1", "2025-H1", "unit-7")
	assert.NoError(t, findErr)
	assert.Equal(t, eval.FileScore, stored.FileScore, "partial score must persist")
}

func TestOverrideDeliveredAt_SameBranchAsAutomaticPath(t *testing.T) {
	audit := newTestAudit("audit-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	uc, _, _, recomputer := newEvaluationFixture(t, audit)
	recomputer.On("RecomputeFinalScore", mock.Anything, mock.Anything).Return(nil)

	// establish the stored breakdown first
	_, err := uc.RecalculateDelivery(context.Background(), "auditor-1", "2025-H1", "unit-7")
	assert.NoError(t, err)

	correctedAt := time.Date(2025, 3, 6, 10, 0, 0, 0, time.UTC)
	rec, err := uc.OverrideDeliveredAt(context.Background(), "audit-1", domain.ArtifactPlan, &correctedAt)

	assert.NoError(t, err)
	assert.Equal(t, 1, rec.DaysLate)
	assert.Equal(t, domain.PointsLate, rec.Points)
	assert.Equal(t, "Late by 1 day", rec.Status)

	eval, err := uc.GetEvaluation(context.Background(), "auditor-1", "2025-H1", "unit-7")
	assert.NoError(t, err)
	// 1 point over 6 expected
	assert.Equal(t, 0.17, *eval.FileScore)
	assert.Equal(t, 1, eval.DeliveredCount)
}

func TestRecalculateDelivery_MissingKey(t *testing.T) {
	uc, _, _, _ := newEvaluationFixture(t)

	_, err := uc.RecalculateDelivery(context.Background(), "", "2025-H1", "unit-7")
	assert.Error(t, err)
}
