// Package extractor computes the graphological parameter vector from a
// canonical preprocessed signature image. Every measurement is an
// independently callable pure function of the image.
package extractor

import (
	"fmt"
	"image"

	"firmaverify/logging"
	"firmaverify/preprocessor"
	"firmaverify/types"

	"gocv.io/x/gocv"
)

// minInkPixels is the foreground floor below which an image is considered
// to contain no signature strokes.
const minInkPixels = 20

// Extract computes the full parameter vector from a canonical grayscale
// image. Returns ErrNoStrokesDetected for blank or near-blank inputs
// instead of propagating degenerate measurements.
func Extract(canonical gocv.Mat) (types.ParameterVector, error) {
	var pv types.ParameterVector

	binary := preprocessor.Binarize(canonical)
	defer binary.Close()

	inkPixels := gocv.CountNonZero(binary)
	if inkPixels < minInkPixels {
		return pv, fmt.Errorf("%w: %d foreground pixels", types.ErrNoStrokesDetected, inkPixels)
	}

	bounds, ok := StrokeBounds(binary)
	if !ok {
		return pv, fmt.Errorf("%w: no stroke contours found", types.ErrNoStrokesDetected)
	}

	pressureMean, pressureStd := PressureStats(canonical, binary)
	inclination := InclinationOf(binary)
	curvature := AvgCurvatureOf(binary)
	proportion := ProportionOf(bounds)
	velocity := VelocityOf(binary, bounds)
	asolaSize := AvgAsolaSizeOf(binary)
	spacing := AvgSpacingOf(binary)
	overlap := OverlapRatioOf(binary, bounds)
	connections := LetterConnectionsOf(binary)
	baselineStd := BaselineStdOf(binary)
	components := ConnectedComponentsOf(binary)
	complexity := StrokeComplexityOf(binary)

	pv = types.ParameterVector{
		Values: map[types.ParameterName]float64{
			types.Proportion:          proportion,
			types.Inclination:         inclination,
			types.PressureMean:        pressureMean,
			types.PressureStd:         pressureStd,
			types.AvgCurvature:        curvature,
			types.AvgAsolaSize:        asolaSize,
			types.AvgSpacing:          spacing,
			types.Velocity:            velocity,
			types.OverlapRatio:        overlap,
			types.LetterConnections:   float64(connections),
			types.BaselineStd:         baselineStd,
			types.ConnectedComponents: float64(components),
			types.StrokeComplexity:    complexity,
		},
		WritingStyle: ClassifyWritingStyle(binary, inclination, curvature),
		Readability:  AssessReadability(binary),
		Width:        canonical.Cols(),
		Height:       canonical.Rows(),
	}

	logging.DebugLog("extracted %d parameters (ink=%d px, bounds=%v)", len(pv.Values), inkPixels, bounds)

	return pv, nil
}

// StrokeBounds returns the union bounding box of all stroke contours.
// ok is false when the image has no contours.
func StrokeBounds(binary gocv.Mat) (image.Rectangle, bool) {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return image.Rectangle{}, false
	}

	bounds := gocv.BoundingRect(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		bounds = bounds.Union(gocv.BoundingRect(contours.At(i)))
	}
	return bounds, true
}
