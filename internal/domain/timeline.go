package domain

import (
	"math"
	"time"
)

// StageKey identifies one lifecycle stage of an audit
type StageKey string

const (
	StagePlan              StageKey = "PLAN"
	StageAttendance        StageKey = "ATTENDANCE"
	StageEvaluation        StageKey = "EVALUATION"
	StageMinutes           StageKey = "MINUTES"
	StageReportFill        StageKey = "REPORT_FILL"
	StageReportValidate    StageKey = "REPORT_VALIDATE"
	StageCommitmentMinutes StageKey = "COMMITMENT_MINUTES"
	StageImprovementPlan   StageKey = "IMPROVEMENT_PLAN"
)

// StageClass classifies a stage relative to the current one
type StageClass string

const (
	StageClassPast     StageClass = "PAST"
	StageClassCurrent  StageClass = "CURRENT"
	StageClassUpcoming StageClass = "UPCOMING"
	StageClassOverdue  StageClass = "OVERDUE"
)

// stageDef ties a stage to its day offset and, when completion is driven by
// an uploaded document, to the artifact whose existence completes it
type stageDef struct {
	key      StageKey
	label    string
	offset   int
	artifact ArtifactType
}

var stageDefs = []stageDef{
	{key: StagePlan, label: "Audit plan", offset: -5, artifact: ArtifactPlan},
	{key: StageAttendance, label: "Attendance list", offset: 0, artifact: ArtifactAttendance},
	{key: StageEvaluation, label: "Evaluation form", offset: 0, artifact: ArtifactEvaluation},
	{key: StageMinutes, label: "Audit minutes", offset: 0, artifact: ArtifactMinutes},
	{key: StageReportFill, label: "Audit report", offset: 10},
	{key: StageReportValidate, label: "Report validation", offset: 10},
	{key: StageCommitmentMinutes, label: "Commitment minutes", offset: 15, artifact: ArtifactCommitmentMinutes},
	{key: StageImprovementPlan, label: "Improvement plan", offset: 20, artifact: ArtifactImprovementPlan},
}

// TimelineStage is one derived lifecycle stage of an audit
type TimelineStage struct {
	Key           StageKey   `json:"key"`
	Label         string     `json:"label"`
	DueDate       time.Time  `json:"due_date"`
	Done          bool       `json:"done"`
	Class         StageClass `json:"class"`
	Status        string     `json:"status"`
	DaysRemaining int        `json:"days_remaining"`
	Actions       []string   `json:"actions,omitempty"`
}

// Timeline is the full derived lifecycle of one audit
type Timeline struct {
	AuditID  string          `json:"audit_id"`
	Stages   []TimelineStage `json:"stages"`
	Current  StageKey        `json:"current,omitempty"`
	Progress int             `json:"progress"`
}

// DeriveTimeline assembles the ordered stage list for an audit from its
// delivery records, narrative fields and validation flag. Stage order and
// current-stage selection depend only on the inputs and the supplied now.
func DeriveTimeline(audit *Audit, deliveries map[ArtifactType]DeliveryRecord, now time.Time) *Timeline {
	tl := &Timeline{AuditID: audit.ID, Stages: make([]TimelineStage, 0, len(stageDefs))}

	doneCount := 0
	currentIdx := -1
	for i, def := range stageDefs {
		done := stageDone(def, audit, deliveries)
		if done {
			doneCount++
		} else if currentIdx == -1 {
			currentIdx = i
		}
		remaining := DaysRemaining(DueDate(audit.AuditDate, def.offset), now)
		tl.Stages = append(tl.Stages, TimelineStage{
			Key:           def.key,
			Label:         def.label,
			DueDate:       DueDate(audit.AuditDate, def.offset),
			Done:          done,
			Status:        ScheduleStatus(remaining, done),
			DaysRemaining: remaining,
		})
	}

	for i := range tl.Stages {
		stage := &tl.Stages[i]
		switch {
		case stage.Done || i < currentIdx:
			stage.Class = StageClassPast
		case i == currentIdx:
			stage.Class = StageClassCurrent
		case stage.DaysRemaining < 0:
			stage.Class = StageClassOverdue
		default:
			stage.Class = StageClassUpcoming
		}
		stage.Actions = stageActions(stageDefs[i], stage)
	}

	if currentIdx >= 0 {
		tl.Current = stageDefs[currentIdx].key
	}
	tl.Progress = int(math.Round(100 * float64(doneCount) / float64(len(stageDefs))))
	return tl
}

func stageDone(def stageDef, audit *Audit, deliveries map[ArtifactType]DeliveryRecord) bool {
	switch def.key {
	case StageReportFill:
		return audit.ReportComplete()
	case StageReportValidate:
		return audit.Validated
	default:
		return deliveries[def.artifact].Delivered
	}
}

func stageActions(def stageDef, stage *TimelineStage) []string {
	if stage.Done {
		return []string{"view"}
	}
	switch def.key {
	case StageReportFill:
		return []string{"fill-report"}
	case StageReportValidate:
		return []string{"validate"}
	default:
		return []string{"upload"}
	}
}
