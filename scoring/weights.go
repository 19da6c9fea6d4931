package scoring

import "firmaverify/types"

// Top-level fusion weights. Must sum to 1.0.
const (
	SSIMWeight          = 0.60
	GraphologicalWeight = 0.40
)

// CompatibilityFloor is the minimum per-parameter compatibility score.
// Scores never collapse to zero, preserving partial credit under maximal
// divergence.
const CompatibilityFloor = 0.1

// ParameterRule fixes the weight and comparison normalization of one
// graphological parameter. The rules are the documented constants of the
// methodology, not tunable values.
type ParameterRule struct {
	Name    types.ParameterName
	Weight  float64
	Divisor float64
}

// ParameterRules is the full comparison table. Weights sum to 1.0; each
// divisor is the absolute difference at which two measurements are
// considered maximally divergent for that parameter's domain.
var ParameterRules = []ParameterRule{
	{types.PressureMean, 0.16, 40.0},
	{types.AvgCurvature, 0.14, 60.0},
	{types.Proportion, 0.12, 1.5},
	{types.Velocity, 0.10, 3.0},
	{types.PressureStd, 0.08, 25.0},
	{types.Inclination, 0.05, 45.0},
	{types.AvgAsolaSize, 0.05, 120.0},
	{types.AvgSpacing, 0.05, 8.0},
	{types.OverlapRatio, 0.05, 0.5},
	{types.LetterConnections, 0.05, 12.0},
	{types.BaselineStd, 0.05, 6.0},
	{types.ConnectedComponents, 0.05, 8.0},
	{types.StrokeComplexity, 0.05, 0.6},
}

// CategoryRule maps a final-score threshold to an authenticity tier.
// Confidence values are fixed per category, not derived from the score.
type CategoryRule struct {
	Threshold  float64
	Category   types.Category
	Confidence float64
}

// CategoryRules in descending threshold order; first match wins. The last
// entry is the catch-all.
var CategoryRules = []CategoryRule{
	{0.85, types.Authentic, 0.95},
	{0.65, types.ProbablyAuthentic, 0.75},
	{0.50, types.Inconclusive, 0.50},
	{0.00, types.Suspicious, 0.90},
}

// Compatibility applies the bounded-difference comparison rule: perfect
// agreement scores 1.0, divergence at or beyond the divisor scores the
// floor.
func Compatibility(refValue, verValue, divisor float64) float64 {
	diff := refValue - verValue
	if diff < 0 {
		diff = -diff
	}
	normalized := diff / divisor
	if normalized > 1 {
		normalized = 1
	}
	score := 1 - normalized
	if score < CompatibilityFloor {
		score = CompatibilityFloor
	}
	return score
}

// Categorize maps a final score to its authenticity tier and the tier's
// fixed confidence.
func Categorize(finalScore float64) (types.Category, float64) {
	for _, rule := range CategoryRules {
		if finalScore >= rule.Threshold {
			return rule.Category, rule.Confidence
		}
	}
	last := CategoryRules[len(CategoryRules)-1]
	return last.Category, last.Confidence
}
