package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/auditra/auditra/internal/domain"
)

func TestCreateAudit_TruncatesAnchorToCivilDate(t *testing.T) {
	uc := NewAuditUseCase(newFakeAuditRepo())

	audit, err := uc.CreateAudit(context.Background(), CreateAuditRequest{
		AuditDate: time.Date(2025, 3, 10, 17, 45, 0, 0, time.FixedZone("GMT-5", -5*3600)),
		UnitID:    "unit-7",
		UnitName:  "Operaciones",
		AuditorID: "aud-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), audit.AuditDate)
	assert.Equal(t, domain.Period("2025-H1"), audit.Period())
}

func TestCreateAudit_RejectsMissingFields(t *testing.T) {
	uc := NewAuditUseCase(newFakeAuditRepo())

	cases := []CreateAuditRequest{
		{UnitID: "u", UnitName: "U", AuditorID: "a"},
		{AuditDate: time.Now(), UnitName: "U", AuditorID: "a"},
		{AuditDate: time.Now(), UnitID: "u", AuditorID: "a"},
		{AuditDate: time.Now(), UnitID: "u", UnitName: "U"},
	}
	for _, req := range cases {
		_, err := uc.CreateAudit(context.Background(), req)
		assert.Error(t, err)
	}
}

func TestValidateReport_RequiresCompleteReport(t *testing.T) {
	audit := domain.NewAudit(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "unit-7", "Operaciones", "aud-1")
	repo := newFakeAuditRepo(audit)
	uc := NewAuditUseCase(repo)

	_, err := uc.ValidateReport(context.Background(), audit.ID)
	assert.ErrorIs(t, err, domain.ErrReportIncomplete)

	_, err = uc.FillReport(context.Background(), audit.ID, FillReportRequest{
		Objective:       "objective",
		Criteria:        "criteria",
		Conclusions:     "conclusions",
		Recommendations: "recommendations",
	})
	assert.NoError(t, err)

	validated, err := uc.ValidateReport(context.Background(), audit.ID)
	assert.NoError(t, err)
	assert.True(t, validated.Validated)

	stored, err := repo.FindByID(context.Background(), audit.ID)
	assert.NoError(t, err)
	assert.True(t, stored.Validated)
}

func TestSetFindingCounts(t *testing.T) {
	audit := domain.NewAudit(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "unit-7", "Operaciones", "aud-1")
	uc := NewAuditUseCase(newFakeAuditRepo(audit))

	updated, err := uc.SetFindingCounts(context.Background(), audit.ID, 3, 2, 1)
	assert.NoError(t, err)
	assert.Equal(t, 3, updated.Strengths)
	assert.Equal(t, 2, updated.Improvements)
	assert.Equal(t, 1, updated.Nonconformities)

	_, err = uc.SetFindingCounts(context.Background(), audit.ID, -1, 0, 0)
	assert.Error(t, err)
}

func TestDeleteAudit(t *testing.T) {
	audit := domain.NewAudit(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "unit-7", "Operaciones", "aud-1")
	repo := newFakeAuditRepo(audit)
	uc := NewAuditUseCase(repo)

	assert.NoError(t, uc.DeleteAudit(context.Background(), audit.ID))

	_, err := uc.GetAudit(context.Background(), audit.ID)
	assert.ErrorIs(t, err, domain.ErrAuditNotFound)
}
