package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/auditra/auditra/internal/ports"
	"github.com/auditra/auditra/internal/service/logger"
)

func newImportFixture(t *testing.T) (*SurveyImportUseCase, *fakeSurveyRepo, *MockDirectory) {
	t.Helper()
	surveyRepo := newFakeSurveyRepo()
	directory := new(MockDirectory)
	uc := NewSurveyImportUseCase(surveyRepo, directory, logger.Noop())
	return uc, surveyRepo, directory
}

func defaultDirectory(directory *MockDirectory) {
	directory.On("ListAuditors", mock.Anything).Return([]ports.AuditorRecord{
		{ID: "aud-1", FirstName: "María", LastName: "Pérez"},
		{ID: "aud-2", FirstName: "Jorge", LastName: "Castillo"},
	}, nil)
	directory.On("ListUnits", mock.Anything).Return([]ports.UnitRecord{
		{ID: "unit-1", Name: "Gerencia de Operaciones"},
		{ID: "unit-2", Name: "Recursos Humanos"},
	}, nil)
}

func goodAnswers() []string {
	return []string{"Excellent", "Good", "Good", "Acceptable", "Excellent", "Good", "4", "N/A", "N/A", "N/A"}
}

func importRow(auditorName string, respondedAt time.Time) ImportRow {
	return ImportRow{
		AuditorName:    auditorName,
		UnitName:       "operaciones",
		RespondentName: "Carlos Diaz",
		RespondedAt:    &respondedAt,
		Answers:        goodAnswers(),
	}
}

func TestImport_InsertsAndResolvesIdentities(t *testing.T) {
	uc, surveyRepo, directory := newImportFixture(t)
	defaultDirectory(directory)

	respondedAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	report, err := uc.Import(context.Background(), []ImportRow{importRow("maria perez", respondedAt)})

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 0, report.Rejected)
	assert.Equal(t, 0, report.UnmatchedAuditors)

	stored, err := surveyRepo.FindByKey(context.Background(), "maria perez", respondedAt, "Carlos Diaz")
	assert.NoError(t, err)
	assert.NotNil(t, stored.AuditorID)
	assert.Equal(t, "aud-1", *stored.AuditorID)
	assert.NotNil(t, stored.UnitID)
	assert.Equal(t, "unit-1", *stored.UnitID)
	assert.Equal(t, "2025-H1", string(stored.Period))
	// answers 5,4,4,3,5,4,4 scored, three n/a excluded: mean 29/7
	assert.InDelta(t, 29.0/7.0, stored.Score, 1e-9)
}

func TestImport_UpsertUpdatesExistingRow(t *testing.T) {
	uc, surveyRepo, directory := newImportFixture(t)
	defaultDirectory(directory)

	respondedAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	row := importRow("maria perez", respondedAt)

	report, err := uc.Import(context.Background(), []ImportRow{row})
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)

	row.UnitName = "recursos humanos"
	report, err = uc.Import(context.Background(), []ImportRow{row})
	assert.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 1, report.Updated)

	stored, err := surveyRepo.FindByKey(context.Background(), "maria perez", respondedAt, "Carlos Diaz")
	assert.NoError(t, err)
	assert.Equal(t, "unit-2", *stored.UnitID, "unit reference must be re-resolved on update")
	assert.Len(t, surveyRepo.responses, 1)
}

func TestImport_RejectedRowDoesNotAbortBatch(t *testing.T) {
	uc, _, directory := newImportFixture(t)
	defaultDirectory(directory)

	good := importRow("maria perez", time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC))
	bad := importRow("jorge castillo", time.Date(2025, 4, 3, 9, 0, 0, 0, time.UTC))
	bad.Answers = []string{"Excellent", "Good", "Good", "Acceptable", "Excellent", "Good", "N/A", "N/A", "N/A", "N/A"}
	alsoGood := importRow("jorge castillo", time.Date(2025, 4, 4, 9, 0, 0, 0, time.UTC))

	report, err := uc.Import(context.Background(), []ImportRow{good, bad, alsoGood})

	assert.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.Rejected)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Message, "need at least 7")
}

func TestImport_UnmatchedAuditorStillImported(t *testing.T) {
	uc, surveyRepo, directory := newImportFixture(t)
	defaultDirectory(directory)

	respondedAt := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	report, err := uc.Import(context.Background(), []ImportRow{importRow("desconocido total", respondedAt)})

	assert.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.UnmatchedAuditors)

	stored, err := surveyRepo.FindByKey(context.Background(), "desconocido total", respondedAt, "Carlos Diaz")
	assert.NoError(t, err)
	assert.Nil(t, stored.AuditorID)
}

func TestImport_SerialDateTimestamp(t *testing.T) {
	uc, surveyRepo, directory := newImportFixture(t)
	defaultDirectory(directory)

	serial := 45754.5 // 2025-04-07 12:00 UTC
	row := ImportRow{
		AuditorName:    "maria perez",
		UnitName:       "operaciones",
		RespondentName: "Carlos Diaz",
		SerialDate:     &serial,
		Answers:        goodAnswers(),
	}

	report, err := uc.Import(context.Background(), []ImportRow{row})
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)

	expected := time.Date(2025, 4, 7, 12, 0, 0, 0, time.UTC)
	stored, err := surveyRepo.FindByKey(context.Background(), "maria perez", expected, "Carlos Diaz")
	assert.NoError(t, err)
	assert.Equal(t, expected, stored.RespondedAt)
}

func TestImport_RowWithoutTimestampRejected(t *testing.T) {
	uc, _, directory := newImportFixture(t)
	defaultDirectory(directory)

	row := ImportRow{
		AuditorName:    "maria perez",
		UnitName:       "operaciones",
		RespondentName: "Carlos Diaz",
		Answers:        goodAnswers(),
	}

	report, err := uc.Import(context.Background(), []ImportRow{row})
	assert.NoError(t, err)
	assert.Equal(t, 1, report.Rejected)
	assert.Contains(t, report.Errors[0].Message, "timestamp")
}

func TestImport_DirectoryFailureFailsBatch(t *testing.T) {
	uc, _, directory := newImportFixture(t)
	directory.On("ListAuditors", mock.Anything).Return(nil, errors.New("directory down"))

	_, err := uc.Import(context.Background(), []ImportRow{importRow("maria perez", time.Now())})
	assert.Error(t, err)
}

func TestSerialDateToTime(t *testing.T) {
	// serial 1 is 1899-12-31: the epoch sits at 1899-12-30 to absorb the
	// format's 1900 leap-year quirk
	assert.Equal(t, time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC), SerialDateToTime(1))
	assert.Equal(t, time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC), SerialDateToTime(45754))
	assert.Equal(t, time.Date(2025, 4, 7, 6, 0, 0, 0, time.UTC), SerialDateToTime(45754.25))
}
