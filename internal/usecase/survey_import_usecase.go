package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/match"
	"github.com/auditra/auditra/internal/ports"
	"github.com/auditra/auditra/internal/service/logger"
)

// ImportRow is one raw survey row from a tabular export. The timestamp may
// arrive as a real timestamp or as a spreadsheet serial day number.
type ImportRow struct {
	AuditorName    string     `json:"auditor_name"`
	UnitName       string     `json:"unit_name"`
	RespondentName string     `json:"respondent_name"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	SerialDate     *float64   `json:"serial_date,omitempty"`
	Answers        []string   `json:"answers"`
}

// RowError is the literal rejection reason for one row
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarizes one import batch. One bad row never aborts the
// batch; it lands in Rejected and Errors instead.
type ImportReport struct {
	Inserted          int        `json:"inserted"`
	Updated           int        `json:"updated"`
	Rejected          int        `json:"rejected"`
	UnmatchedAuditors int        `json:"unmatched_auditors"`
	UnmatchedUnits    int        `json:"unmatched_units"`
	Errors            []RowError `json:"errors,omitempty"`
}

// SurveyImportUseCase parses survey export rows, resolves free-text auditor
// and unit names against the directory and upserts survey responses
type SurveyImportUseCase struct {
	surveyRepo ports.SurveyRepository
	directory  ports.Directory
	log        logger.Logger
	people     *match.Matcher
	units      *match.Matcher
}

// NewSurveyImportUseCase creates a new survey import use case
func NewSurveyImportUseCase(surveyRepo ports.SurveyRepository, directory ports.Directory, log logger.Logger) *SurveyImportUseCase {
	return &SurveyImportUseCase{
		surveyRepo: surveyRepo,
		directory:  directory,
		log:        log,
		people:     match.NewPersonMatcher(),
		units:      match.NewUnitMatcher(),
	}
}

// Import processes a batch of rows sequentially. Rows sharing an upsert key
// within one batch would race if processed concurrently, so the loop stays
// sequential.
func (uc *SurveyImportUseCase) Import(ctx context.Context, rows []ImportRow) (*ImportReport, error) {
	auditors, err := uc.directory.ListAuditors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list auditors: %w", err)
	}
	units, err := uc.directory.ListUnits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	auditorCands := make([]match.Candidate, len(auditors))
	for i, a := range auditors {
		auditorCands[i] = match.Candidate{ID: a.ID, Name: a.FullName()}
	}
	unitCands := make([]match.Candidate, len(units))
	for i, u := range units {
		unitCands[i] = match.Candidate{ID: u.ID, Name: u.Name}
	}

	report := &ImportReport{}
	for i, row := range rows {
		if err := uc.importRow(ctx, row, auditorCands, unitCands, report); err != nil {
			report.Rejected++
			report.Errors = append(report.Errors, RowError{Row: i + 1, Message: err.Error()})
			uc.log.Warn(ctx, "survey row rejected", map[string]interface{}{
				"row":   i + 1,
				"error": err.Error(),
			})
		}
	}

	uc.log.Info(ctx, "survey import finished", map[string]interface{}{
		"inserted": report.Inserted,
		"updated":  report.Updated,
		"rejected": report.Rejected,
	})
	return report, nil
}

func (uc *SurveyImportUseCase) importRow(ctx context.Context, row ImportRow, auditorCands, unitCands []match.Candidate, report *ImportReport) error {
	respondedAt, err := rowTimestamp(row)
	if err != nil {
		return err
	}
	if len(row.Answers) != domain.SurveyAnswerCount {
		return fmt.Errorf("expected %d answers, got %d", domain.SurveyAnswerCount, len(row.Answers))
	}

	var answers [domain.SurveyAnswerCount]int
	for i, raw := range row.Answers {
		answers[i] = domain.AnswerScore(raw)
	}
	if err := domain.ValidateAnswers(answers); err != nil {
		return err
	}

	existing, err := uc.surveyRepo.FindByKey(ctx, row.AuditorName, respondedAt, row.RespondentName)
	if err != nil && !errors.Is(err, domain.ErrSurveyNotFound) {
		return fmt.Errorf("failed to look up existing response: %w", err)
	}

	resp := existing
	if resp == nil {
		resp = domain.NewSurveyResponse(row.AuditorName, row.UnitName, row.RespondentName, respondedAt)
	} else {
		resp.UnitName = row.UnitName
		resp.Period = domain.PeriodOf(respondedAt)
	}

	resp.AuditorID = nil
	if cand, _ := uc.people.Match(row.AuditorName, auditorCands); cand != nil {
		id := cand.ID
		resp.AuditorID = &id
	} else {
		report.UnmatchedAuditors++
		uc.log.Warn(ctx, "no auditor matched survey row", map[string]interface{}{
			"auditor_name": row.AuditorName,
		})
	}

	resp.UnitID = nil
	if cand, _ := uc.units.Match(row.UnitName, unitCands); cand != nil {
		id := cand.ID
		resp.UnitID = &id
	} else {
		report.UnmatchedUnits++
		uc.log.Warn(ctx, "no unit matched survey row", map[string]interface{}{
			"unit_name": row.UnitName,
		})
	}

	if err := resp.SetAnswers(answers); err != nil {
		return err
	}

	if existing == nil {
		if err := uc.surveyRepo.Create(ctx, resp); err != nil {
			return fmt.Errorf("failed to insert response: %w", err)
		}
		report.Inserted++
	} else {
		if err := uc.surveyRepo.Update(ctx, resp); err != nil {
			return fmt.Errorf("failed to update response: %w", err)
		}
		report.Updated++
	}
	return nil
}

// sheetEpoch is 1899-12-30: two days before 1900-01-01 to absorb the
// source format's historical 1900 leap-year bug
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// SerialDateToTime converts a spreadsheet serial day number to a timestamp.
// The fractional part is the time of day.
func SerialDateToTime(serial float64) time.Time {
	days := math.Floor(serial)
	frac := serial - days
	return sheetEpoch.AddDate(0, 0, int(days)).
		Add(time.Duration(math.Round(frac * 24 * float64(time.Hour))))
}

func rowTimestamp(row ImportRow) (time.Time, error) {
	if row.RespondedAt != nil {
		return *row.RespondedAt, nil
	}
	if row.SerialDate != nil {
		return SerialDateToTime(*row.SerialDate), nil
	}
	return time.Time{}, fmt.Errorf("row has no response timestamp")
}
