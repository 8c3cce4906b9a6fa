package domain

import "fmt"

// RubricCriterion is one manually-scored criterion of the auditor rubric.
// The catalog carries nominal weights, but the observed scoring behavior is
// a flat average; see RubricAggregator.
type RubricCriterion struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

const (
	rubricMinScore = 1.0
	rubricMaxScore = 4.0
)

var rubricCatalog = []RubricCriterion{
	{Key: "technical_knowledge", Label: "Technical knowledge", Weight: 20},
	{Key: "planning", Label: "Planning quality", Weight: 15},
	{Key: "objectivity", Label: "Objectivity", Weight: 20},
	{Key: "communication", Label: "Communication", Weight: 15},
	{Key: "timeliness", Label: "Timeliness", Weight: 15},
	{Key: "report_quality", Label: "Report quality", Weight: 15},
}

// RubricCatalog returns the fixed criterion set
func RubricCatalog() []RubricCriterion {
	out := make([]RubricCriterion, len(rubricCatalog))
	copy(out, rubricCatalog)
	return out
}

// RubricAggregator combines per-criterion scores into one raw 1-4 value.
// The default is the flat mean; WeightedRubricMean is available should the
// catalog weights ever be applied.
type RubricAggregator func(criteria []RubricCriterion, scores map[string]float64) float64

// FlatRubricMean averages the criterion scores, ignoring catalog weights
func FlatRubricMean(criteria []RubricCriterion, scores map[string]float64) float64 {
	sum := 0.0
	for _, c := range criteria {
		sum += scores[c.Key]
	}
	return sum / float64(len(criteria))
}

// WeightedRubricMean averages the criterion scores using catalog weights
func WeightedRubricMean(criteria []RubricCriterion, scores map[string]float64) float64 {
	sum, weights := 0.0, 0.0
	for _, c := range criteria {
		sum += c.Weight * scores[c.Key]
		weights += c.Weight
	}
	return sum / weights
}

// NormalizeRubric validates a complete rubric and rescales the aggregated
// 1-4 value to the 0-5 scale used by the other partial scores. Scores may
// be given in half steps. A missing criterion makes the whole save invalid.
func NormalizeRubric(scores map[string]float64, agg RubricAggregator) (float64, error) {
	if agg == nil {
		agg = FlatRubricMean
	}
	for _, c := range rubricCatalog {
		score, ok := scores[c.Key]
		if !ok {
			return 0, ErrRubricIncomplete
		}
		if score < rubricMinScore || score > rubricMaxScore {
			return 0, NewDomainError(fmt.Sprintf("criterion %s out of range: %v", c.Key, score))
		}
		if score*2 != float64(int(score*2)) {
			return 0, NewDomainError(fmt.Sprintf("criterion %s must be scored in half steps: %v", c.Key, score))
		}
	}
	raw := agg(rubricCatalog, scores)
	return raw / rubricMaxScore * 5, nil
}
