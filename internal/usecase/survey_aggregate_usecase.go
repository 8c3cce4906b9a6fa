package usecase

import (
	"context"
	"fmt"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/match"
	"github.com/auditra/auditra/internal/ports"
	"github.com/auditra/auditra/internal/service/logger"
)

// SurveyAggregateUseCase recomputes the survey partial score of an
// evaluation from the stored survey responses
type SurveyAggregateUseCase struct {
	surveyRepo ports.SurveyRepository
	evalRepo   ports.EvaluationRepository
	recomputer ports.FinalScoreRecomputer
	log        logger.Logger
	units      *match.Matcher
}

// NewSurveyAggregateUseCase creates a new survey aggregation use case
func NewSurveyAggregateUseCase(surveyRepo ports.SurveyRepository, evalRepo ports.EvaluationRepository, recomputer ports.FinalScoreRecomputer, log logger.Logger) *SurveyAggregateUseCase {
	return &SurveyAggregateUseCase{
		surveyRepo: surveyRepo,
		evalRepo:   evalRepo,
		recomputer: recomputer,
		log:        log,
		units:      match.NewUnitMatcher(),
	}
}

// Recompute gathers the auditor's survey responses for a period, keeps those
// whose stored unit label fuzzily matches the target label and writes the
// mean as the survey partial score. With zero matching surveys the partial
// score stays nil; "no surveys" is not a zero.
func (uc *SurveyAggregateUseCase) Recompute(ctx context.Context, auditorID string, period domain.Period, unitID, unitLabel string) (*domain.Evaluation, error) {
	if auditorID == "" || period == "" || unitID == "" {
		return nil, fmt.Errorf("auditor ID, period and unit ID are required")
	}

	responses, err := uc.surveyRepo.ListByAuditorPeriod(ctx, auditorID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list survey responses: %w", err)
	}

	var matched []*domain.SurveyResponse
	for _, resp := range responses {
		if uc.units.Matches(unitLabel, resp.UnitName) {
			matched = append(matched, resp)
		}
	}

	var score *float64
	if len(matched) > 0 {
		sum := 0.0
		for _, resp := range matched {
			sum += resp.Score
		}
		mean := domain.Round2(sum / float64(len(matched)))
		score = &mean
	}

	eval, created, err := getOrCreateEvaluation(ctx, uc.evalRepo, auditorID, period, unitID)
	if err != nil {
		return nil, err
	}
	eval.ApplySurvey(score, len(matched))
	if err := persistEvaluation(ctx, uc.evalRepo, eval, created); err != nil {
		return nil, err
	}

	requestFinalScore(ctx, uc.recomputer, uc.log, eval.ID)
	return eval, nil
}
