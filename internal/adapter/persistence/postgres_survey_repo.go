package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
)

// PostgresSurveyRepository implements SurveyRepository using PostgreSQL
type PostgresSurveyRepository struct {
	db *sql.DB
}

// NewPostgresSurveyRepository creates a new PostgreSQL survey repository
func NewPostgresSurveyRepository(db *sql.DB) ports.SurveyRepository {
	return &PostgresSurveyRepository{db: db}
}

const surveyColumns = `id, auditor_name, unit_name, respondent_name, responded_at, auditor_id, unit_id, period, answers, score, created_at, updated_at`

// Create saves a new survey response
func (r *PostgresSurveyRepository) Create(ctx context.Context, response *domain.SurveyResponse) error {
	query := `
		INSERT INTO survey_responses (` + surveyColumns + `)
		VALUES (` + placeholders(12) + `)
	`

	_, err := r.db.ExecContext(ctx, query,
		response.ID,
		response.AuditorName,
		response.UnitName,
		response.RespondentName,
		response.RespondedAt,
		response.AuditorID,
		response.UnitID,
		string(response.Period),
		pq.Array(answersSlice(response.Answers)),
		response.Score,
		response.CreatedAt,
		response.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create survey response: %w", err)
	}
	return nil
}

// Update updates an existing survey response
func (r *PostgresSurveyRepository) Update(ctx context.Context, response *domain.SurveyResponse) error {
	query := `
		UPDATE survey_responses
		SET unit_name = $2, auditor_id = $3, unit_id = $4, period = $5,
		    answers = $6, score = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		response.ID,
		response.UnitName,
		response.AuditorID,
		response.UnitID,
		string(response.Period),
		pq.Array(answersSlice(response.Answers)),
		response.Score,
		response.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update survey response: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return domain.ErrSurveyNotFound
	}
	return nil
}

// FindByKey retrieves a response by its uniqueness key
func (r *PostgresSurveyRepository) FindByKey(ctx context.Context, auditorName string, respondedAt time.Time, respondentName string) (*domain.SurveyResponse, error) {
	query := `
		SELECT ` + surveyColumns + `
		FROM survey_responses
		WHERE auditor_name = $1 AND responded_at = $2 AND respondent_name = $3
	`

	response, err := scanSurvey(r.db.QueryRowContext(ctx, query, auditorName, respondedAt, respondentName))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to find survey response: %w", err)
	}
	return response, nil
}

// ListByAuditorPeriod retrieves all responses resolved to an auditor within
// a period, ordered by response timestamp for reproducible aggregation
func (r *PostgresSurveyRepository) ListByAuditorPeriod(ctx context.Context, auditorID string, period domain.Period) ([]*domain.SurveyResponse, error) {
	query := `
		SELECT ` + surveyColumns + `
		FROM survey_responses
		WHERE auditor_id = $1 AND period = $2
		ORDER BY responded_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, auditorID, string(period))
	if err != nil {
		return nil, fmt.Errorf("failed to list survey responses: %w", err)
	}
	defer rows.Close()

	var responses []*domain.SurveyResponse
	for rows.Next() {
		response, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan survey response: %w", err)
		}
		responses = append(responses, response)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate survey responses: %w", err)
	}
	return responses, nil
}

func scanSurvey(row rowScanner) (*domain.SurveyResponse, error) {
	var response domain.SurveyResponse
	var auditorID, unitID sql.NullString
	var period string
	answers := make([]int64, 0, domain.SurveyAnswerCount)

	err := row.Scan(
		&response.ID,
		&response.AuditorName,
		&response.UnitName,
		&response.RespondentName,
		&response.RespondedAt,
		&auditorID,
		&unitID,
		&period,
		pq.Array(&answers),
		&response.Score,
		&response.CreatedAt,
		&response.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if auditorID.Valid {
		response.AuditorID = &auditorID.String
	}
	if unitID.Valid {
		response.UnitID = &unitID.String
	}
	response.Period = domain.Period(period)
	for i := 0; i < len(answers) && i < domain.SurveyAnswerCount; i++ {
		response.Answers[i] = int(answers[i])
	}
	return &response, nil
}

func answersSlice(answers [domain.SurveyAnswerCount]int) []int64 {
	out := make([]int64, len(answers))
	for i, a := range answers {
		out[i] = int64(a)
	}
	return out
}
