package domain

import (
	"fmt"
	"time"
)

// ArtifactType identifies one entry of the expected-artifact catalog
type ArtifactType string

const (
	ArtifactPlan              ArtifactType = "PLAN"
	ArtifactAttendance        ArtifactType = "ATTENDANCE"
	ArtifactEvaluation        ArtifactType = "EVALUATION"
	ArtifactMinutes           ArtifactType = "MINUTES"
	ArtifactCommitmentMinutes ArtifactType = "COMMITMENT_MINUTES"
	ArtifactImprovementPlan   ArtifactType = "IMPROVEMENT_PLAN"
)

// Delivery point values
const (
	PointsOnTime  = 5
	PointsLate    = 1
	PointsMissing = 0
)

// ArtifactSpec describes one expected artifact: where it is stored and when
// it is due relative to the audit's anchor date
type ArtifactSpec struct {
	Type       ArtifactType `json:"type"`
	Label      string       `json:"label"`
	Bucket     string       `json:"bucket"`
	OffsetDays int          `json:"offset_days"`
}

var artifactCatalog = []ArtifactSpec{
	{Type: ArtifactPlan, Label: "Audit plan", Bucket: "audit-plans", OffsetDays: -5},
	{Type: ArtifactAttendance, Label: "Attendance list", Bucket: "attendance-lists", OffsetDays: 0},
	{Type: ArtifactEvaluation, Label: "Evaluation form", Bucket: "evaluation-forms", OffsetDays: 0},
	{Type: ArtifactMinutes, Label: "Audit minutes", Bucket: "audit-minutes", OffsetDays: 0},
	{Type: ArtifactCommitmentMinutes, Label: "Commitment minutes", Bucket: "commitment-minutes", OffsetDays: 15},
	{Type: ArtifactImprovementPlan, Label: "Improvement plan", Bucket: "improvement-plans", OffsetDays: 20},
}

// ArtifactCatalog returns the fixed catalog of expected artifacts in
// evaluation order
func ArtifactCatalog() []ArtifactSpec {
	out := make([]ArtifactSpec, len(artifactCatalog))
	copy(out, artifactCatalog)
	return out
}

// ArtifactSpecFor looks up the catalog entry for a type tag
func ArtifactSpecFor(t ArtifactType) (ArtifactSpec, error) {
	for _, spec := range artifactCatalog {
		if spec.Type == t {
			return spec, nil
		}
	}
	return ArtifactSpec{}, ErrUnknownArtifact
}

// ObjectPath builds the storage path for an audit's artifact. The path is
// derived from the audit identity and unit only, never from the audit date,
// so that editing the date later does not orphan uploaded files.
func (s ArtifactSpec) ObjectPath(audit *Audit) string {
	return fmt.Sprintf("%s/%s-%s.pdf", audit.UnitID, s.Type, audit.ID)
}

// DeliveryRecord is the computed delivery state of one (audit, artifact)
// pair. It is recomputed on demand and never cached authoritatively.
type DeliveryRecord struct {
	AuditID     string       `json:"audit_id"`
	Artifact    ArtifactType `json:"artifact"`
	Label       string       `json:"label"`
	Bucket      string       `json:"bucket"`
	Path        string       `json:"path"`
	DueDate     time.Time    `json:"due_date"`
	Delivered   bool         `json:"delivered"`
	DeliveredAt *time.Time   `json:"delivered_at,omitempty"`
	SizeBytes   int64        `json:"size_bytes,omitempty"`
	DaysLate    int          `json:"days_late"`
	Points      int          `json:"points"`
	Status      string       `json:"status"`
}

// EvaluateDelivery scores one artifact delivery against its due date.
// A nil deliveredAt means the artifact was not found. Manual timestamp
// corrections go through this same function; there is no separate formula
// for overrides.
func EvaluateDelivery(spec ArtifactSpec, audit *Audit, deliveredAt *time.Time) DeliveryRecord {
	due := DueDate(audit.AuditDate, spec.OffsetDays)
	rec := DeliveryRecord{
		AuditID:  audit.ID,
		Artifact: spec.Type,
		Label:    spec.Label,
		Bucket:   spec.Bucket,
		Path:     spec.ObjectPath(audit),
		DueDate:  due,
		Points:   PointsMissing,
		Status:   "Not delivered",
	}
	if deliveredAt == nil {
		return rec
	}

	at := *deliveredAt
	rec.Delivered = true
	rec.DeliveredAt = &at
	rec.DaysLate = DaysBetween(due, at)
	switch {
	case rec.DaysLate > 0:
		rec.Points = PointsLate
		rec.Status = fmt.Sprintf("Late by %s", pluralDays(rec.DaysLate))
	case rec.DaysLate == 0:
		rec.Points = PointsOnTime
		rec.Status = "On time"
	default:
		rec.Points = PointsOnTime
		rec.Status = fmt.Sprintf("Early by %s", pluralDays(-rec.DaysLate))
	}
	return rec
}
