package extractor

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"firmaverify/preprocessor"
	"firmaverify/types"

	"gocv.io/x/gocv"
)

// canonicalSignature draws a synthetic signature and runs it through the
// preprocessor, returning the canonical grayscale image.
func canonicalSignature(t *testing.T) gocv.Mat {
	t.Helper()

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 300, 600, gocv.MatTypeCV8U)
	defer img.Close()
	ink := color.RGBA{R: 25, G: 25, B: 25, A: 255}

	gocv.Line(&img, image.Pt(50, 200), image.Pt(140, 80), ink, 3)
	gocv.Line(&img, image.Pt(140, 80), image.Pt(220, 220), ink, 3)
	gocv.Circle(&img, image.Pt(300, 150), 45, ink, 3)
	gocv.Line(&img, image.Pt(360, 170), image.Pt(540, 130), ink, 2)

	canonical, err := preprocessor.Preprocess(img, types.ModeAuto)
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return canonical
}

func TestExtractCoversAllParameters(t *testing.T) {
	canonical := canonicalSignature(t)
	defer canonical.Close()

	pv, err := Extract(canonical)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	wanted := []types.ParameterName{
		types.Proportion, types.Inclination, types.PressureMean, types.PressureStd,
		types.AvgCurvature, types.AvgAsolaSize, types.AvgSpacing, types.Velocity,
		types.OverlapRatio, types.LetterConnections, types.BaselineStd,
		types.ConnectedComponents, types.StrokeComplexity,
	}
	if len(pv.Values) != len(wanted) {
		t.Errorf("Extract produced %d parameters, expected %d", len(pv.Values), len(wanted))
	}
	for _, name := range wanted {
		value, ok := pv.Values[name]
		if !ok {
			t.Errorf("Extract missing parameter %s", name)
			continue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			t.Errorf("Parameter %s is not finite: %v", name, value)
		}
	}
}

func TestExtractBlankImage(t *testing.T) {
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0),
		preprocessor.CanonicalHeight, preprocessor.CanonicalWidth, gocv.MatTypeCV8U)
	defer blank.Close()

	_, err := Extract(blank)
	if !errors.Is(err, types.ErrNoStrokesDetected) {
		t.Errorf("Extract on a blank image returned %v, expected ErrNoStrokesDetected", err)
	}
}

func TestExtractValuesAreSane(t *testing.T) {
	canonical := canonicalSignature(t)
	defer canonical.Close()

	pv, err := Extract(canonical)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if v := pv.Values[types.Proportion]; v <= 0 {
		t.Errorf("Proportion %v, expected positive", v)
	}
	if v := pv.Values[types.PressureMean]; v <= 0 || v > 100 {
		t.Errorf("PressureMean %v outside (0,100]", v)
	}
	if v := pv.Values[types.PressureStd]; v < 0 || v > 100 {
		t.Errorf("PressureStd %v outside [0,100]", v)
	}
	if v := pv.Values[types.OverlapRatio]; v <= 0 || v > 1 {
		t.Errorf("OverlapRatio %v outside (0,1]", v)
	}
	if v := pv.Values[types.StrokeComplexity]; v < 0 || v > 1 {
		t.Errorf("StrokeComplexity %v outside [0,1]", v)
	}
	if v := pv.Values[types.ConnectedComponents]; v < 1 {
		t.Errorf("ConnectedComponents %v, expected at least 1", v)
	}
	if v := pv.Values[types.Velocity]; v <= 0 {
		t.Errorf("Velocity %v, expected positive", v)
	}
}

func TestStraightStrokeHasLowCurvature(t *testing.T) {
	straight := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 150, 300, gocv.MatTypeCV8U)
	defer straight.Close()
	gocv.Line(&straight, image.Pt(20, 75), image.Pt(280, 75), color.RGBA{R: 255, G: 255, B: 255, A: 255}, 3)

	zigzag := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 150, 300, gocv.MatTypeCV8U)
	defer zigzag.Close()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for x := 20; x < 280; x += 20 {
		y1 := 40
		y2 := 110
		if (x/20)%2 == 0 {
			y1, y2 = y2, y1
		}
		gocv.Line(&zigzag, image.Pt(x, y1), image.Pt(x+20, y2), white, 3)
	}

	low := AvgCurvatureOf(straight)
	high := AvgCurvatureOf(zigzag)
	if low >= high {
		t.Errorf("Straight stroke curvature %.2f not below zigzag curvature %.2f", low, high)
	}
}

func TestProportionOf(t *testing.T) {
	bounds := image.Rect(10, 10, 210, 110)
	got := ProportionOf(bounds)
	if math.Abs(got-2.0) > 1e-9 {
		t.Errorf("ProportionOf(200x100) = %.4f, expected 2.0", got)
	}

	if got := ProportionOf(image.Rect(0, 0, 100, 0)); got != 0 {
		t.Errorf("ProportionOf with zero height = %.4f, expected 0", got)
	}
}

func TestPressureStatsUniformInk(t *testing.T) {
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 100, 100, gocv.MatTypeCV8U)
	defer gray.Close()
	binary := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8U)
	defer binary.Close()

	// A 20x20 patch of uniform mid-gray ink
	for y := 40; y < 60; y++ {
		for x := 40; x < 60; x++ {
			gray.SetUCharAt(y, x, 127)
			binary.SetUCharAt(y, x, 255)
		}
	}

	mean, std := PressureStats(gray, binary)
	wantMean := (255.0 - 127.0) / 255.0 * 100.0
	if math.Abs(mean-wantMean) > 1e-6 {
		t.Errorf("PressureStats mean = %.4f, expected %.4f", mean, wantMean)
	}
	if std > 1e-6 {
		t.Errorf("PressureStats std = %.4f for uniform ink, expected 0", std)
	}
}

func TestPressureStatsNoInk(t *testing.T) {
	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), 50, 50, gocv.MatTypeCV8U)
	defer gray.Close()
	binary := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 50, 50, gocv.MatTypeCV8U)
	defer binary.Close()

	mean, std := PressureStats(gray, binary)
	if mean != 0 || std != 0 {
		t.Errorf("PressureStats with no ink = (%.4f, %.4f), expected (0, 0)", mean, std)
	}
}

func TestStrokeBoundsUnion(t *testing.T) {
	binary := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 150, 300, gocv.MatTypeCV8U)
	defer binary.Close()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.Circle(&binary, image.Pt(50, 50), 10, white, -1)
	gocv.Circle(&binary, image.Pt(250, 100), 10, white, -1)

	bounds, ok := StrokeBounds(binary)
	if !ok {
		t.Fatal("StrokeBounds found no contours")
	}
	if bounds.Min.X > 45 || bounds.Max.X < 255 {
		t.Errorf("StrokeBounds %v does not span both strokes", bounds)
	}
}

func TestStrokeBoundsEmpty(t *testing.T) {
	binary := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 150, 300, gocv.MatTypeCV8U)
	defer binary.Close()

	if _, ok := StrokeBounds(binary); ok {
		t.Error("StrokeBounds reported contours on an empty mask")
	}
}

func TestWritingStyleLabels(t *testing.T) {
	canonical := canonicalSignature(t)
	defer canonical.Close()

	pv, err := Extract(canonical)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	valid := map[string]bool{
		StyleRegular: true, StyleCursive: true, StyleInclined: true,
		StyleMixed: true, StyleUnknown: true,
	}
	if !valid[pv.WritingStyle] {
		t.Errorf("Unknown writing style label: %q", pv.WritingStyle)
	}

	validReadability := map[string]bool{
		ReadabilityHigh: true, ReadabilityMedium: true, ReadabilityLow: true,
	}
	if !validReadability[pv.Readability] {
		t.Errorf("Unknown readability label: %q", pv.Readability)
	}
}
