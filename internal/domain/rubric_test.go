package domain

import (
	"math"
	"testing"
)

func fullRubric(score float64) map[string]float64 {
	answers := make(map[string]float64)
	for _, c := range RubricCatalog() {
		answers[c.Key] = score
	}
	return answers
}

func TestNormalizeRubric_AllFours(t *testing.T) {
	score, err := NormalizeRubric(fullRubric(4), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if score != 5.0 {
		t.Errorf("Expected 5.0, got %v", score)
	}
}

func TestNormalizeRubric_AllOnes(t *testing.T) {
	score, err := NormalizeRubric(fullRubric(1), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if score != 1.25 {
		t.Errorf("Expected 1.25, got %v", score)
	}
}

func TestNormalizeRubric_HalfSteps(t *testing.T) {
	score, err := NormalizeRubric(fullRubric(2.5), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(score-3.125) > 1e-9 {
		t.Errorf("Expected 3.125, got %v", score)
	}
}

func TestNormalizeRubric_Incomplete(t *testing.T) {
	answers := fullRubric(3)
	delete(answers, "objectivity")

	_, err := NormalizeRubric(answers, nil)
	if err != ErrRubricIncomplete {
		t.Errorf("Expected ErrRubricIncomplete, got %v", err)
	}
}

func TestNormalizeRubric_OutOfRange(t *testing.T) {
	answers := fullRubric(3)
	answers["planning"] = 5

	if _, err := NormalizeRubric(answers, nil); err == nil {
		t.Error("Expected error for score above 4")
	}

	answers["planning"] = 0.5
	if _, err := NormalizeRubric(answers, nil); err == nil {
		t.Error("Expected error for score below 1")
	}

	answers["planning"] = 2.3
	if _, err := NormalizeRubric(answers, nil); err == nil {
		t.Error("Expected error for score not in half steps")
	}
}

func TestNormalizeRubric_WeightedAggregatorSwap(t *testing.T) {
	answers := fullRubric(2)
	answers["technical_knowledge"] = 4
	answers["objectivity"] = 4

	flat, err := NormalizeRubric(answers, FlatRubricMean)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	weighted, err := NormalizeRubric(answers, WeightedRubricMean)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// technical_knowledge and objectivity carry above-average weights, so
	// boosting them moves the weighted score above the flat one
	if weighted <= flat {
		t.Errorf("Expected weighted score above flat: weighted=%v flat=%v", weighted, flat)
	}
}
