package extractor

import (
	"math"

	"gocv.io/x/gocv"
)

// Writing style labels carried in the parameter vector diagnostics.
const (
	StyleRegular  = "regular"
	StyleCursive  = "cursive"
	StyleInclined = "inclined"
	StyleMixed    = "mixed"
	StyleUnknown  = "unknown"
)

// Readability labels.
const (
	ReadabilityHigh   = "high"
	ReadabilityMedium = "medium"
	ReadabilityLow    = "low"
)

// ClassifyWritingStyle labels the writing style from contour regularity,
// inclination and curvature. Diagnostic only; never weighted.
func ClassifyWritingStyle(binary gocv.Mat, inclination, curvature float64) string {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	areas := make([]float64, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > 20 {
			areas = append(areas, area)
		}
	}
	if len(areas) == 0 {
		return StyleUnknown
	}

	var sum float64
	for _, a := range areas {
		sum += a
	}
	mean := sum / float64(len(areas))

	var sq float64
	for _, a := range areas {
		sq += (a - mean) * (a - mean)
	}
	areaStd := math.Sqrt(sq/float64(len(areas))) / (mean + 1e-6)

	switch {
	case areaStd < 0.5 && math.Abs(inclination) < 15 && curvature < 20:
		return StyleRegular
	case curvature > 45:
		return StyleCursive
	case math.Abs(inclination) > 20:
		return StyleInclined
	default:
		return StyleMixed
	}
}

// AssessReadability labels legibility from the size uniformity of the
// stroke components.
func AssessReadability(binary gocv.Mat) string {
	labels := gocv.NewMat()
	stats := gocv.NewMat()
	centroids := gocv.NewMat()
	defer labels.Close()
	defer stats.Close()
	defer centroids.Close()

	nLabels := gocv.ConnectedComponentsWithStats(binary, &labels, &stats, &centroids)
	if nLabels < 2 {
		return ReadabilityLow
	}

	areas := make([]float64, 0, nLabels-1)
	for i := 1; i < nLabels; i++ {
		area := float64(stats.GetIntAt(i, 4))
		if area > 20 {
			areas = append(areas, area)
		}
	}
	if len(areas) == 0 {
		return ReadabilityLow
	}

	var sum float64
	for _, a := range areas {
		sum += a
	}
	mean := sum / float64(len(areas))

	uniformity := 1.0 - stddev(areas)/(mean+1e-6)
	if uniformity < 0 {
		uniformity = 0
	}

	switch {
	case uniformity > 0.7:
		return ReadabilityHigh
	case uniformity > 0.4:
		return ReadabilityMedium
	default:
		return ReadabilityLow
	}
}
