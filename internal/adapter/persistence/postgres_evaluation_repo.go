package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
)

// PostgresEvaluationRepository implements EvaluationRepository using
// PostgreSQL. The per-audit delivery breakdown and the rubric answers are
// stored as JSON payloads; the final score column is written only by the
// external aggregate routine.
type PostgresEvaluationRepository struct {
	db *sql.DB
}

// NewPostgresEvaluationRepository creates a new PostgreSQL evaluation
// repository
func NewPostgresEvaluationRepository(db *sql.DB) ports.EvaluationRepository {
	return &PostgresEvaluationRepository{db: db}
}

const evaluationColumns = `id, auditor_id, period, unit_id, file_score, survey_score, rubric_score, final_score, expected_count, delivered_count, completion_pct, no_audits, breakdown, survey_count, rubric_answers, created_at, updated_at`

// Create saves a new evaluation
func (r *PostgresEvaluationRepository) Create(ctx context.Context, eval *domain.Evaluation) error {
	breakdown, rubricAnswers, err := marshalPayloads(eval)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO evaluations (` + evaluationColumns + `)
		VALUES (` + placeholders(17) + `)
	`

	_, err = r.db.ExecContext(ctx, query,
		eval.ID,
		eval.AuditorID,
		string(eval.Period),
		eval.UnitID,
		eval.FileScore,
		eval.SurveyScore,
		eval.RubricScore,
		eval.FinalScore,
		eval.ExpectedCount,
		eval.DeliveredCount,
		eval.CompletionPct,
		eval.NoAudits,
		breakdown,
		eval.SurveyCount,
		rubricAnswers,
		eval.CreatedAt,
		eval.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

// Update updates an existing evaluation. The final score column is left
// alone; only the external routine writes it.
func (r *PostgresEvaluationRepository) Update(ctx context.Context, eval *domain.Evaluation) error {
	breakdown, rubricAnswers, err := marshalPayloads(eval)
	if err != nil {
		return err
	}

	query := `
		UPDATE evaluations
		SET file_score = $2, survey_score = $3, rubric_score = $4,
		    expected_count = $5, delivered_count = $6, completion_pct = $7,
		    no_audits = $8, breakdown = $9, survey_count = $10,
		    rubric_answers = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		eval.ID,
		eval.FileScore,
		eval.SurveyScore,
		eval.RubricScore,
		eval.ExpectedCount,
		eval.DeliveredCount,
		eval.CompletionPct,
		eval.NoAudits,
		breakdown,
		eval.SurveyCount,
		rubricAnswers,
		eval.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return domain.ErrEvaluationNotFound
	}
	return nil
}

// FindByKey retrieves the evaluation for an (auditor, period, unit) triple
func (r *PostgresEvaluationRepository) FindByKey(ctx context.Context, auditorID string, period domain.Period, unitID string) (*domain.Evaluation, error) {
	query := `
		SELECT ` + evaluationColumns + `
		FROM evaluations
		WHERE auditor_id = $1 AND period = $2 AND unit_id = $3
	`

	var eval domain.Evaluation
	var periodStr string
	var breakdown, rubricAnswers []byte

	err := r.db.QueryRowContext(ctx, query, auditorID, string(period), unitID).Scan(
		&eval.ID,
		&eval.AuditorID,
		&periodStr,
		&eval.UnitID,
		&eval.FileScore,
		&eval.SurveyScore,
		&eval.RubricScore,
		&eval.FinalScore,
		&eval.ExpectedCount,
		&eval.DeliveredCount,
		&eval.CompletionPct,
		&eval.NoAudits,
		&breakdown,
		&eval.SurveyCount,
		&rubricAnswers,
		&eval.CreatedAt,
		&eval.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}

	eval.Period = domain.Period(periodStr)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &eval.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
		}
	}
	if len(rubricAnswers) > 0 {
		if err := json.Unmarshal(rubricAnswers, &eval.RubricAnswers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rubric answers: %w", err)
		}
	}
	return &eval, nil
}

func marshalPayloads(eval *domain.Evaluation) ([]byte, []byte, error) {
	var breakdown, rubricAnswers []byte
	var err error

	if eval.Breakdown != nil {
		breakdown, err = json.Marshal(eval.Breakdown)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal breakdown: %w", err)
		}
	}
	if eval.RubricAnswers != nil {
		rubricAnswers, err = json.Marshal(eval.RubricAnswers)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal rubric answers: %w", err)
		}
	}
	return breakdown, rubricAnswers, nil
}
