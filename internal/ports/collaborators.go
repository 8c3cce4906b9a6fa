package ports

import (
	"context"
	"time"
)

// ObjectInfo is the metadata an object store reports for a stored artifact
type ObjectInfo struct {
	Bucket         string
	Path           string
	SizeBytes      int64
	LastModifiedAt time.Time
}

// ObjectStore defines the external storage lookup collaborator. Stat
// returns nil info (and nil error) when the object does not exist; an error
// means the lookup itself failed and is treated as not-found by callers.
type ObjectStore interface {
	Stat(ctx context.Context, bucket, path string) (*ObjectInfo, error)
}

// AuditorRecord is one auditor entry from the person directory
type AuditorRecord struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName returns the "first last" display name used for matching
func (a AuditorRecord) FullName() string {
	return a.FirstName + " " + a.LastName
}

// UnitRecord is one organizational-unit entry from the directory
type UnitRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Directory defines the auditor and organizational-unit registry
// collaborator consumed by the identity matcher
type Directory interface {
	ListAuditors(ctx context.Context) ([]AuditorRecord, error)
	ListUnits(ctx context.Context) ([]UnitRecord, error)
}

// FinalScoreRecomputer is the opaque external aggregate that maintains an
// evaluation's final score. It is invoked after every partial-score write;
// its failure never rolls back the write.
type FinalScoreRecomputer interface {
	RecomputeFinalScore(ctx context.Context, evaluationID string) error
}
