package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// AuditDelivery is the persisted per-audit breakdown of artifact deliveries
// inside an evaluation
type AuditDelivery struct {
	AuditID   string           `json:"audit_id"`
	AuditDate time.Time        `json:"audit_date"`
	Artifacts []DeliveryRecord `json:"artifacts"`
}

// Evaluation is the consolidated score card for one (auditor, period, unit)
// triple. The three partial scores are each independently nullable: a nil
// score means "not yet evaluated", which is distinct from an evaluated zero.
// The final score is maintained by an external aggregate routine.
type Evaluation struct {
	ID             string             `json:"id"`
	AuditorID      string             `json:"auditor_id"`
	Period         Period             `json:"period"`
	UnitID         string             `json:"unit_id"`
	FileScore      *float64           `json:"file_score,omitempty"`
	SurveyScore    *float64           `json:"survey_score,omitempty"`
	RubricScore    *float64           `json:"rubric_score,omitempty"`
	FinalScore     *float64           `json:"final_score,omitempty"`
	ExpectedCount  int                `json:"expected_count"`
	DeliveredCount int                `json:"delivered_count"`
	CompletionPct  int                `json:"completion_pct"`
	NoAudits       bool               `json:"no_audits"`
	Breakdown      []AuditDelivery    `json:"breakdown,omitempty"`
	SurveyCount    int                `json:"survey_count"`
	RubricAnswers  map[string]float64 `json:"rubric_answers,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewEvaluation creates an empty evaluation for the key triple. Partial
// scores start nil, not zero.
func NewEvaluation(auditorID string, period Period, unitID string) *Evaluation {
	now := time.Now()
	return &Evaluation{
		ID:        uuid.NewString(),
		AuditorID: auditorID,
		Period:    period,
		UnitID:    unitID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyDelivery writes the file-delivery partial score from an accumulated
// breakdown. With zero matching audits the numeric score is zero and the
// NoAudits marker is set so consumers can tell "nothing to score" from a
// genuine all-missing zero.
func (e *Evaluation) ApplyDelivery(breakdown []AuditDelivery) {
	e.Breakdown = breakdown
	e.ExpectedCount = 0
	e.DeliveredCount = 0
	totalPoints := 0
	for _, audit := range breakdown {
		for _, rec := range audit.Artifacts {
			e.ExpectedCount++
			totalPoints += rec.Points
			if rec.Delivered {
				e.DeliveredCount++
			}
		}
	}

	e.NoAudits = len(breakdown) == 0
	score := 0.0
	e.CompletionPct = 0
	if e.ExpectedCount > 0 {
		score = Round2(float64(totalPoints) / float64(e.ExpectedCount))
		e.CompletionPct = int(math.Round(100 * float64(e.DeliveredCount) / float64(e.ExpectedCount)))
	}
	e.FileScore = &score
	e.UpdatedAt = time.Now()
}

// ApplySurvey writes the survey partial score. A nil score means no survey
// rows matched; the partial stays unset rather than becoming zero.
func (e *Evaluation) ApplySurvey(score *float64, count int) {
	e.SurveyScore = score
	e.SurveyCount = count
	e.UpdatedAt = time.Now()
}

// ApplyRubric writes the rubric partial score together with the raw answers
func (e *Evaluation) ApplyRubric(score float64, answers map[string]float64) {
	e.RubricScore = &score
	e.RubricAnswers = answers
	e.UpdatedAt = time.Now()
}

// Round2 rounds to two decimal places, the precision contract for all
// persisted partial scores
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
