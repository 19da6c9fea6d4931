package quality

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"firmaverify/types"

	"gocv.io/x/gocv"
)

func signatureScan() gocv.Mat {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 400, 800, gocv.MatTypeCV8U)
	ink := color.RGBA{R: 20, G: 20, B: 20, A: 255}
	gocv.Line(&img, image.Pt(100, 250), image.Pt(280, 120), ink, 4)
	gocv.Line(&img, image.Pt(280, 120), image.Pt(420, 260), ink, 4)
	gocv.Circle(&img, image.Pt(520, 200), 50, ink, 4)
	gocv.Line(&img, image.Pt(580, 210), image.Pt(700, 190), ink, 3)
	return img
}

func TestAssessQualityMetricsInRange(t *testing.T) {
	img := signatureScan()
	defer img.Close()

	report := AssessQuality(img, 300)

	wanted := []types.QualityMetric{
		types.MetricResolution, types.MetricContrast, types.MetricSharpness,
		types.MetricCompleteness, types.MetricPresence,
	}
	if len(report.Metrics) != len(wanted) {
		t.Errorf("AssessQuality produced %d metrics, expected %d", len(report.Metrics), len(wanted))
	}
	for _, name := range wanted {
		v, ok := report.Metrics[name]
		if !ok {
			t.Errorf("AssessQuality missing metric %s", name)
			continue
		}
		if v < 0 || v > 1 {
			t.Errorf("Metric %s = %.4f outside [0,1]", name, v)
		}
	}
	if report.OverallScore < 0 || report.OverallScore > 1 {
		t.Errorf("Overall score %.4f outside [0,1]", report.OverallScore)
	}
}

func TestGoodScanIsSuitable(t *testing.T) {
	img := signatureScan()
	defer img.Close()

	report := AssessQuality(img, 300)
	if !report.Suitable {
		t.Errorf("A clean 300 DPI scan scored %.4f and was marked unsuitable", report.OverallScore)
	}
}

func TestBlankScanIsUnsuitable(t *testing.T) {
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 400, 800, gocv.MatTypeCV8U)
	defer blank.Close()

	report := AssessQuality(blank, 300)
	if report.Metrics[types.MetricPresence] != 0 {
		t.Errorf("Blank scan presence = %.4f, expected 0", report.Metrics[types.MetricPresence])
	}
	if report.Suitable {
		t.Errorf("Blank scan scored %.4f and was marked suitable", report.OverallScore)
	}
}

func TestLowResolutionIsPenalized(t *testing.T) {
	img := signatureScan()
	defer img.Close()

	highDPI := AssessQuality(img, 300)
	lowDPI := AssessQuality(img, 72)

	if lowDPI.Metrics[types.MetricResolution] >= highDPI.Metrics[types.MetricResolution] {
		t.Errorf("72 DPI resolution score %.4f not below 300 DPI score %.4f",
			lowDPI.Metrics[types.MetricResolution], highDPI.Metrics[types.MetricResolution])
	}
}

func TestResolutionFallbackWithoutDPI(t *testing.T) {
	small := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 60, 120, gocv.MatTypeCV8U)
	defer small.Close()
	large := signatureScan()
	defer large.Close()

	smallScore := AssessQuality(small, 0).Metrics[types.MetricResolution]
	largeScore := AssessQuality(large, 0).Metrics[types.MetricResolution]
	if smallScore >= largeScore {
		t.Errorf("Pixel-count fallback scored tiny image %.4f, not below large image %.4f",
			smallScore, largeScore)
	}
}

func TestClippedSignatureLosesCompleteness(t *testing.T) {
	clipped := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 400, 800, gocv.MatTypeCV8U)
	defer clipped.Close()
	ink := color.RGBA{R: 20, G: 20, B: 20, A: 255}
	// Stroke runs off the left edge
	gocv.Line(&clipped, image.Pt(0, 200), image.Pt(400, 180), ink, 4)

	centered := signatureScan()
	defer centered.Close()

	clippedScore := AssessQuality(clipped, 300).Metrics[types.MetricCompleteness]
	centeredScore := AssessQuality(centered, 300).Metrics[types.MetricCompleteness]
	if clippedScore >= centeredScore {
		t.Errorf("Clipped signature completeness %.4f not below centered %.4f",
			clippedScore, centeredScore)
	}
}

func TestAssessBatchGateBlocksUnusableBatch(t *testing.T) {
	// Nonexistent files fail to load and are marked unsuitable; a batch
	// with no suitable image must return the blocking error.
	paths := []string{"/nonexistent/a.png", "/nonexistent/b.png"}
	reports, err := AssessBatch(paths, 2, SuitabilityThreshold)
	if !errors.Is(err, types.ErrNoSuitableImages) {
		t.Errorf("AssessBatch on unusable batch returned %v, expected ErrNoSuitableImages", err)
	}
	if len(reports) != len(paths) {
		t.Fatalf("AssessBatch returned %d reports, expected %d", len(reports), len(paths))
	}
	for _, report := range reports {
		if report.Suitable {
			t.Errorf("Report for %s marked suitable despite failed load", report.Path)
		}
	}
}

func TestAssessBatchEmptyIsBlocked(t *testing.T) {
	if _, err := AssessBatch(nil, 2, SuitabilityThreshold); !errors.Is(err, types.ErrNoSuitableImages) {
		t.Errorf("AssessBatch on empty batch returned %v, expected ErrNoSuitableImages", err)
	}
}

func TestAssessBatchHonorsThreshold(t *testing.T) {
	img := signatureScan()
	defer img.Close()

	path := filepath.Join(t.TempDir(), "scan.png")
	if ok := gocv.IMWrite(path, img); !ok {
		t.Fatal("could not write test scan")
	}

	reports, err := AssessBatch([]string{path}, 1, 0.1)
	if err != nil {
		t.Fatalf("AssessBatch with permissive threshold failed: %v", err)
	}
	if !reports[0].Suitable {
		t.Errorf("Scan scoring %.4f marked unsuitable against threshold 0.1", reports[0].OverallScore)
	}

	// A strict threshold must flip the same scan to unsuitable and trip
	// the batch gate, not just the printed flag.
	reports, err = AssessBatch([]string{path}, 1, 0.99)
	if !errors.Is(err, types.ErrNoSuitableImages) {
		t.Errorf("AssessBatch with strict threshold returned %v, expected ErrNoSuitableImages", err)
	}
	if len(reports) == 1 && reports[0].Suitable {
		t.Errorf("Scan scoring %.4f marked suitable against threshold 0.99", reports[0].OverallScore)
	}
}
