// Package naturalness derives the advisory plausibility signal that a
// signature was produced by an unforced, fluent hand. Traced or hesitant
// forgeries show abrupt direction changes, uneven pressure and irregular
// rhythm.
package naturalness

import (
	"math"
	"sort"

	"firmaverify/extractor"
	"firmaverify/preprocessor"
	"firmaverify/types"

	"gocv.io/x/gocv"
)

// Sub-score weights. Must sum to 1.0.
const (
	WeightFluidity            = 0.4
	WeightPressureConsistency = 0.3
	WeightCoordination        = 0.3
)

// maxBendDegrees is the direction-change rate at which fluidity bottoms out.
const maxBendDegrees = 90.0

// Analyze computes the naturalness composite for a candidate signature.
// Reference signatures are assumed genuine and are not scored.
func Analyze(canonical gocv.Mat, params types.ParameterVector) types.NaturalnessScore {
	binary := preprocessor.Binarize(canonical)
	defer binary.Close()

	fluidity := Fluidity(binary)
	consistency := PressureConsistency(params)
	coordination := Coordination(binary)

	overall := WeightFluidity*fluidity +
		WeightPressureConsistency*consistency +
		WeightCoordination*coordination

	return types.NaturalnessScore{
		Fluidity:            fluidity,
		PressureConsistency: consistency,
		Coordination:        coordination,
		Overall:             clamp01(overall),
	}
}

// Fluidity scores stroke smoothness in [0,1]: a low abrupt-direction-change
// rate along the stroke contours means high fluidity.
func Fluidity(binary gocv.Mat) float64 {
	bend := extractor.AvgCurvatureOf(binary)
	return clamp01(1 - bend/maxBendDegrees)
}

// PressureConsistency scores in [0,1] how steady the pressure proxy is
// relative to its mean.
func PressureConsistency(params types.ParameterVector) float64 {
	mean := params.Values[types.PressureMean]
	std := params.Values[types.PressureStd]
	if mean <= 0 {
		return 0
	}
	return clamp01(1 - std/(mean+1e-6))
}

// Coordination scores the regularity of spacing between stroke groups: a
// rhythmic hand spaces letters evenly.
func Coordination(binary gocv.Mat) float64 {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() < 3 {
		// Too few groups to measure rhythm; neither reward nor penalize.
		return 0.5
	}

	xs := make([]float64, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		xs = append(xs, float64(rect.Min.X))
	}
	sort.Float64s(xs)

	gaps := make([]float64, 0, len(xs)-1)
	var sum float64
	for i := 1; i < len(xs); i++ {
		gap := xs[i] - xs[i-1]
		gaps = append(gaps, gap)
		sum += gap
	}
	mean := sum / float64(len(gaps))
	if mean <= 0 {
		return 0.5
	}

	var sq float64
	for _, g := range gaps {
		sq += (g - mean) * (g - mean)
	}
	cv := math.Sqrt(sq/float64(len(gaps))) / mean

	return clamp01(1 - cv)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
