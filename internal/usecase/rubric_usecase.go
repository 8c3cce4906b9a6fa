package usecase

import (
	"context"
	"fmt"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
	"github.com/auditra/auditra/internal/service/logger"
)

// RubricUseCase stores the manually-scored rubric partial score
type RubricUseCase struct {
	evalRepo   ports.EvaluationRepository
	recomputer ports.FinalScoreRecomputer
	log        logger.Logger
	aggregator domain.RubricAggregator
}

// NewRubricUseCase creates a new rubric use case. A nil aggregator uses the
// flat mean.
func NewRubricUseCase(evalRepo ports.EvaluationRepository, recomputer ports.FinalScoreRecomputer, log logger.Logger, aggregator domain.RubricAggregator) *RubricUseCase {
	if aggregator == nil {
		aggregator = domain.FlatRubricMean
	}
	return &RubricUseCase{
		evalRepo:   evalRepo,
		recomputer: recomputer,
		log:        log,
		aggregator: aggregator,
	}
}

// Save validates a complete rubric, normalizes it to the 0-5 scale and
// writes the rubric partial score. An incomplete rubric is an ordinary
// rejected save, not a panic path.
func (uc *RubricUseCase) Save(ctx context.Context, auditorID string, period domain.Period, unitID string, answers map[string]float64) (*domain.Evaluation, error) {
	if auditorID == "" || period == "" || unitID == "" {
		return nil, fmt.Errorf("auditor ID, period and unit ID are required")
	}

	score, err := domain.NormalizeRubric(answers, uc.aggregator)
	if err != nil {
		return nil, err
	}

	eval, created, err := getOrCreateEvaluation(ctx, uc.evalRepo, auditorID, period, unitID)
	if err != nil {
		return nil, err
	}
	eval.ApplyRubric(domain.Round2(score), answers)
	if err := persistEvaluation(ctx, uc.evalRepo, eval, created); err != nil {
		return nil, err
	}

	requestFinalScore(ctx, uc.recomputer, uc.log, eval.ID)
	return eval, nil
}
