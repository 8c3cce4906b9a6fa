package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/auditra/auditra/internal/domain"
	"github.com/auditra/auditra/internal/ports"
)

// PostgresAuditRepository implements AuditRepository using PostgreSQL
type PostgresAuditRepository struct {
	db *sql.DB
}

// NewPostgresAuditRepository creates a new PostgreSQL audit repository
func NewPostgresAuditRepository(db *sql.DB) ports.AuditRepository {
	return &PostgresAuditRepository{db: db}
}

const auditColumns = `id, audit_date, unit_id, unit_name, auditor_id, objective, criteria, conclusions, recommendations, validated, strengths, improvements, nonconformities, created_at, updated_at`

// Create saves a new audit
func (r *PostgresAuditRepository) Create(ctx context.Context, audit *domain.Audit) error {
	query := `
		INSERT INTO audits (` + auditColumns + `)
		VALUES (` + placeholders(15) + `)
	`

	_, err := r.db.ExecContext(ctx, query,
		audit.ID,
		audit.AuditDate,
		audit.UnitID,
		audit.UnitName,
		audit.AuditorID,
		audit.Objective,
		audit.Criteria,
		audit.Conclusions,
		audit.Recommendations,
		audit.Validated,
		audit.Strengths,
		audit.Improvements,
		audit.Nonconformities,
		audit.CreatedAt,
		audit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit: %w", err)
	}
	return nil
}

// FindByID retrieves an audit by its ID
func (r *PostgresAuditRepository) FindByID(ctx context.Context, id string) (*domain.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE id = $1`

	audit, err := scanAudit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrAuditNotFound
		}
		return nil, fmt.Errorf("failed to find audit: %w", err)
	}
	return audit, nil
}

// Update updates an existing audit
func (r *PostgresAuditRepository) Update(ctx context.Context, audit *domain.Audit) error {
	query := `
		UPDATE audits
		SET audit_date = $2, unit_id = $3, unit_name = $4, auditor_id = $5,
		    objective = $6, criteria = $7, conclusions = $8, recommendations = $9,
		    validated = $10, strengths = $11, improvements = $12, nonconformities = $13,
		    updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		audit.ID,
		audit.AuditDate,
		audit.UnitID,
		audit.UnitName,
		audit.AuditorID,
		audit.Objective,
		audit.Criteria,
		audit.Conclusions,
		audit.Recommendations,
		audit.Validated,
		audit.Strengths,
		audit.Improvements,
		audit.Nonconformities,
		audit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update audit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return domain.ErrAuditNotFound
	}
	return nil
}

// ListByAuditorPeriodUnit retrieves all audits of an auditor within a
// period for one unit, ordered by audit date and ID for reproducible
// breakdowns
func (r *PostgresAuditRepository) ListByAuditorPeriodUnit(ctx context.Context, auditorID string, period domain.Period, unitID string) ([]*domain.Audit, error) {
	start, end, err := periodBounds(period)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + auditColumns + `
		FROM audits
		WHERE auditor_id = $1 AND unit_id = $2 AND audit_date >= $3 AND audit_date < $4
		ORDER BY audit_date, id
	`

	rows, err := r.db.QueryContext(ctx, query, auditorID, unitID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	var audits []*domain.Audit
	for rows.Next() {
		audit, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		audits = append(audits, audit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audits: %w", err)
	}
	return audits, nil
}

// Delete removes an audit; findings cascade via the schema
func (r *PostgresAuditRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete audit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return domain.ErrAuditNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAudit(row rowScanner) (*domain.Audit, error) {
	var audit domain.Audit
	err := row.Scan(
		&audit.ID,
		&audit.AuditDate,
		&audit.UnitID,
		&audit.UnitName,
		&audit.AuditorID,
		&audit.Objective,
		&audit.Criteria,
		&audit.Conclusions,
		&audit.Recommendations,
		&audit.Validated,
		&audit.Strengths,
		&audit.Improvements,
		&audit.Nonconformities,
		&audit.CreatedAt,
		&audit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// periodBounds converts a half-year period to its [start, end) date range
func periodBounds(period domain.Period) (string, string, error) {
	parts := strings.SplitN(string(period), "-", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid period: %s", period)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", "", fmt.Errorf("invalid period: %s", period)
	}
	switch parts[1] {
	case "H1":
		return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-07-01", year), nil
	case "H2":
		return fmt.Sprintf("%04d-07-01", year), fmt.Sprintf("%04d-01-01", year+1), nil
	default:
		return "", "", fmt.Errorf("invalid period: %s", period)
	}
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(i+1)
	}
	return strings.Join(parts, ", ")
}
