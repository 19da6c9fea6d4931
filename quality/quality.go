// Package quality implements the pre-verification quality check: a light,
// independent assessment of whether a scan is suitable for verification at
// all. It runs before, and independently of, the scoring engine.
package quality

import (
	"firmaverify/extractor"
	"firmaverify/preprocessor"
	"firmaverify/types"

	"gocv.io/x/gocv"
)

// SuitabilityThreshold is the minimum overall score for an image to be
// considered usable for verification.
const SuitabilityThreshold = 0.50

// TargetDPI is the scan resolution the methodology assumes.
const TargetDPI = 300.0

// targetPixels approximates a 300 DPI scan of a typical signature box when
// no DPI metadata is available.
const targetPixels = 240000.0

// AssessQuality computes the per-image quality metrics. dpi may be 0 when
// the source carries no resolution metadata; the resolution metric then
// falls back to pixel-count adequacy.
func AssessQuality(img gocv.Mat, dpi float64) types.QualityReport {
	metrics := map[types.QualityMetric]float64{
		types.MetricResolution:   resolutionScore(img, dpi),
		types.MetricContrast:     contrastScore(img),
		types.MetricSharpness:    sharpnessScore(img),
		types.MetricCompleteness: completenessScore(img),
		types.MetricPresence:     presenceScore(img),
	}

	var sum float64
	for _, v := range metrics {
		sum += v
	}
	overall := sum / float64(len(metrics))

	return types.QualityReport{
		Metrics:      metrics,
		OverallScore: overall,
		Suitable:     overall >= SuitabilityThreshold,
	}
}

// resolutionScore flags scans below the 300 DPI-equivalent target.
func resolutionScore(img gocv.Mat, dpi float64) float64 {
	if dpi > 0 {
		return clamp01(dpi / TargetDPI)
	}
	pixels := float64(img.Rows() * img.Cols())
	return clamp01(pixels / targetPixels)
}

// contrastScore measures the intensity spread of the scan.
func contrastScore(img gocv.Mat) float64 {
	gray := toGray(img)
	defer gray.Close()

	mean := gocv.NewMat()
	stdDev := gocv.NewMat()
	defer mean.Close()
	defer stdDev.Close()

	gocv.MeanStdDev(gray, &mean, &stdDev)
	if stdDev.Empty() {
		return 0
	}
	return clamp01(stdDev.GetDoubleAt(0, 0) / 60.0)
}

// sharpnessScore uses Laplacian variance: blurry captures have little
// high-frequency energy.
func sharpnessScore(img gocv.Mat) float64 {
	gray := toGray(img)
	defer gray.Close()

	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(gray, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	mean := gocv.NewMat()
	stdDev := gocv.NewMat()
	defer mean.Close()
	defer stdDev.Close()
	gocv.MeanStdDev(laplacian, &mean, &stdDev)
	if stdDev.Empty() {
		return 0
	}

	std := stdDev.GetDoubleAt(0, 0)
	return clamp01(std * std / 300.0)
}

// completenessScore checks that the stroke bounding box is not clipped at
// the image edges; each clear side contributes a quarter.
func completenessScore(img gocv.Mat) float64 {
	gray := toGray(img)
	defer gray.Close()

	binary := preprocessor.Binarize(gray)
	defer binary.Close()

	bounds, ok := extractor.StrokeBounds(binary)
	if !ok {
		return 0
	}

	const margin = 2
	var clear int
	if bounds.Min.X >= margin {
		clear++
	}
	if bounds.Min.Y >= margin {
		clear++
	}
	if bounds.Max.X <= gray.Cols()-margin {
		clear++
	}
	if bounds.Max.Y <= gray.Rows()-margin {
		clear++
	}
	return float64(clear) / 4.0
}

// presenceScore checks for a non-trivial foreground: a plausible signature
// covers a few percent of the frame, neither a blank page nor a solid
// smear.
func presenceScore(img gocv.Mat) float64 {
	gray := toGray(img)
	defer gray.Close()

	binary := preprocessor.Binarize(gray)
	defer binary.Close()

	ratio := float64(gocv.CountNonZero(binary)) / float64(gray.Rows()*gray.Cols())

	switch {
	case ratio < 0.005:
		return 0
	case ratio < 0.02:
		return clamp01(ratio / 0.02)
	case ratio <= 0.40:
		return 1
	default:
		return clamp01(1 - (ratio-0.40)/0.40)
	}
}

func toGray(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if img.Channels() > 1 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}
	return gray
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
