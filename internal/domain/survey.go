package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/auditra/auditra/internal/match"
)

const (
	// SurveyAnswerCount is the fixed number of questions per survey row
	SurveyAnswerCount = 10
	// MinScoredAnswers is how many answers must be non-zero (not "n/a")
	// for a row to be scorable
	MinScoredAnswers = 7
)

// SurveyResponse is one respondent's answers about one auditor for one
// period. Auditor and unit references stay nil when fuzzy matching found no
// candidate; such rows are kept, not rejected.
type SurveyResponse struct {
	ID             string                  `json:"id"`
	AuditorName    string                  `json:"auditor_name"`
	UnitName       string                  `json:"unit_name"`
	RespondentName string                  `json:"respondent_name"`
	RespondedAt    time.Time               `json:"responded_at"`
	AuditorID      *string                 `json:"auditor_id,omitempty"`
	UnitID         *string                 `json:"unit_id,omitempty"`
	Period         Period                  `json:"period"`
	Answers        [SurveyAnswerCount]int  `json:"answers"`
	Score          float64                 `json:"score"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// NewSurveyResponse creates a survey response for the uniqueness key
// (auditor name as entered, response timestamp, respondent name)
func NewSurveyResponse(auditorName, unitName, respondentName string, respondedAt time.Time) *SurveyResponse {
	now := time.Now()
	return &SurveyResponse{
		ID:             uuid.NewString(),
		AuditorName:    auditorName,
		UnitName:       unitName,
		RespondentName: respondentName,
		RespondedAt:    respondedAt,
		Period:         PeriodOf(respondedAt),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SetAnswers validates and stores the ten answers and recomputes the score
func (r *SurveyResponse) SetAnswers(answers [SurveyAnswerCount]int) error {
	if err := ValidateAnswers(answers); err != nil {
		return err
	}
	r.Answers = answers
	r.Score = ComputeSurveyScore(answers)
	r.UpdatedAt = time.Now()
	return nil
}

// ValidateAnswers checks that every answer lies in [0,5] and that at least
// MinScoredAnswers of them are non-zero
func ValidateAnswers(answers [SurveyAnswerCount]int) error {
	nonZero := 0
	for i, a := range answers {
		if a < 0 || a > 5 {
			return NewDomainError(fmt.Sprintf("answer %d out of range: %d", i+1, a))
		}
		if a != 0 {
			nonZero++
		}
	}
	if nonZero < MinScoredAnswers {
		return NewDomainError(fmt.Sprintf("only %d of %d answers scored, need at least %d", nonZero, SurveyAnswerCount, MinScoredAnswers))
	}
	return nil
}

// ComputeSurveyScore returns the mean of the non-zero answers. Zero answers
// mean "not applicable" and are excluded from the average.
func ComputeSurveyScore(answers [SurveyAnswerCount]int) float64 {
	sum, n := 0, 0
	for _, a := range answers {
		if a != 0 {
			sum += a
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// answerScale maps recognized literal answer tokens to their numeric value.
// Longer tokens come first so that "very poor" never resolves as "poor".
var answerScale = []struct {
	token string
	score int
}{
	{"not applicable", 0},
	{"very poor", 1},
	{"excellent", 5},
	{"acceptable", 3},
	{"good", 4},
	{"poor", 2},
	{"n/a", 0},
	{"n.a", 0},
}

// AnswerScore converts a free-text answer to its 0-5 numeric value: literal
// token first, then substring match in either direction, then a bare integer
// in [0,5]. Anything else counts as 0 ("not applicable").
func AnswerScore(raw string) int {
	v := match.Normalize(raw)
	if v == "" {
		return 0
	}
	for _, entry := range answerScale {
		if v == entry.token {
			return entry.score
		}
	}
	for _, entry := range answerScale {
		if strings.Contains(v, entry.token) || strings.Contains(entry.token, v) {
			return entry.score
		}
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 5 {
		return n
	}
	return 0
}
