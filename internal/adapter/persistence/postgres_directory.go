package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/auditra/auditra/internal/ports"
)

// PostgresDirectory implements the auditor/unit registry on the auditors
// and units tables
type PostgresDirectory struct {
	db *sql.DB
}

// NewPostgresDirectory creates a new PostgreSQL directory
func NewPostgresDirectory(db *sql.DB) ports.Directory {
	return &PostgresDirectory{db: db}
}

// ListAuditors retrieves every registered auditor
func (d *PostgresDirectory) ListAuditors(ctx context.Context) ([]ports.AuditorRecord, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, first_name, last_name FROM auditors ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list auditors: %w", err)
	}
	defer rows.Close()

	var auditors []ports.AuditorRecord
	for rows.Next() {
		var a ports.AuditorRecord
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan auditor: %w", err)
		}
		auditors = append(auditors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate auditors: %w", err)
	}
	return auditors, nil
}

// ListUnits retrieves every registered organizational unit
func (d *PostgresDirectory) ListUnits(ctx context.Context) ([]ports.UnitRecord, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []ports.UnitRecord
	for rows.Next() {
		var u ports.UnitRecord
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate units: %w", err)
	}
	return units, nil
}
