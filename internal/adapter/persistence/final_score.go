package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/auditra/auditra/internal/ports"
)

// StoredFinalScoreRecomputer invokes the recompute_final_score stored
// procedure. The aggregate's weighting lives entirely in the database; this
// adapter only triggers it.
type StoredFinalScoreRecomputer struct {
	db *sql.DB
}

// NewStoredFinalScoreRecomputer creates the stored-procedure caller
func NewStoredFinalScoreRecomputer(db *sql.DB) ports.FinalScoreRecomputer {
	return &StoredFinalScoreRecomputer{db: db}
}

// RecomputeFinalScore asks the database to refresh an evaluation's final
// score
func (r *StoredFinalScoreRecomputer) RecomputeFinalScore(ctx context.Context, evaluationID string) error {
	if _, err := r.db.ExecContext(ctx, `SELECT recompute_final_score($1)`, evaluationID); err != nil {
		return fmt.Errorf("recompute_final_score failed: %w", err)
	}
	return nil
}
