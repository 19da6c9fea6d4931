package scoring

import (
	"math"
	"testing"

	"firmaverify/types"
)

func TestParameterWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, rule := range ParameterRules {
		sum += rule.Weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Parameter weights sum to %.6f, expected 1.0", sum)
	}
}

func TestFusionWeightsSumToOne(t *testing.T) {
	if math.Abs(SSIMWeight+GraphologicalWeight-1.0) > 1e-9 {
		t.Errorf("Fusion weights sum to %.6f, expected 1.0", SSIMWeight+GraphologicalWeight)
	}
}

func TestTopParameterWeights(t *testing.T) {
	want := map[types.ParameterName]float64{
		types.PressureMean: 0.16,
		types.AvgCurvature: 0.14,
		types.Proportion:   0.12,
		types.Velocity:     0.10,
		types.PressureStd:  0.08,
	}
	for _, rule := range ParameterRules {
		expected, ok := want[rule.Name]
		if !ok {
			continue
		}
		if rule.Weight != expected {
			t.Errorf("Weight for %s is %.2f, expected %.2f", rule.Name, rule.Weight, expected)
		}
	}
}

func TestCompatibilityInclinationRule(t *testing.T) {
	// The canonical comparison example: 45 degrees of inclination
	// difference exhausts the compatibility range.
	tests := []struct {
		ref, ver float64
		want     float64
	}{
		{30, 30, 1.0},
		{30, 52.5, 0.5},
		{0, 45, CompatibilityFloor},
		{0, 180, CompatibilityFloor},
	}
	for _, tt := range tests {
		got := Compatibility(tt.ref, tt.ver, 45.0)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Compatibility(%.1f, %.1f, 45) = %.4f, expected %.4f", tt.ref, tt.ver, got, tt.want)
		}
	}
}

func TestCompatibilityFloorForAllParameters(t *testing.T) {
	for _, rule := range ParameterRules {
		// Maximal divergence must never collapse below the floor
		got := Compatibility(0, rule.Divisor*1000, rule.Divisor)
		if got < CompatibilityFloor {
			t.Errorf("Compatibility for %s at maximal divergence is %.4f, below floor %.2f",
				rule.Name, got, CompatibilityFloor)
		}
	}
}

func TestCompatibilityIsSymmetric(t *testing.T) {
	for _, rule := range ParameterRules {
		forward := Compatibility(1.0, 7.5, rule.Divisor)
		backward := Compatibility(7.5, 1.0, rule.Divisor)
		if forward != backward {
			t.Errorf("Compatibility for %s is asymmetric: %.6f vs %.6f", rule.Name, forward, backward)
		}
	}
}

func TestCategorizeBoundaries(t *testing.T) {
	tests := []struct {
		score          float64
		wantCategory   types.Category
		wantConfidence float64
	}{
		{1.0, types.Authentic, 0.95},
		{0.85, types.Authentic, 0.95},
		{0.8499, types.ProbablyAuthentic, 0.75},
		{0.65, types.ProbablyAuthentic, 0.75},
		{0.6499, types.Inconclusive, 0.50},
		{0.50, types.Inconclusive, 0.50},
		{0.4999, types.Suspicious, 0.90},
		{0.0, types.Suspicious, 0.90},
	}
	for _, tt := range tests {
		category, confidence := Categorize(tt.score)
		if category != tt.wantCategory {
			t.Errorf("Categorize(%.4f) = %s, expected %s", tt.score, category, tt.wantCategory)
		}
		if confidence != tt.wantConfidence {
			t.Errorf("Categorize(%.4f) confidence = %.2f, expected %.2f", tt.score, confidence, tt.wantConfidence)
		}
	}
}

func TestCategoryRulesDescending(t *testing.T) {
	for i := 1; i < len(CategoryRules); i++ {
		if CategoryRules[i].Threshold >= CategoryRules[i-1].Threshold {
			t.Errorf("Category thresholds not strictly descending at index %d", i)
		}
	}
}
