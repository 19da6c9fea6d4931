// Package preprocessor normalizes raw signature scans into the canonical
// analysis-ready form shared by the extractor and the structural comparator.
package preprocessor

import (
	"fmt"
	"image"

	"firmaverify/logging"
	"firmaverify/types"

	"gocv.io/x/gocv"
)

// Canonical analysis frame. All downstream measurements assume this size
// and a 300 DPI-equivalent scale.
const (
	CanonicalWidth  = 300
	CanonicalHeight = 150
	CanonicalDPI    = 300.0

	MinWidth  = 50
	MinHeight = 25
	MaxWidth  = 10000
	MaxHeight = 10000
)

// PixelsPerMM is the calibration factor of the canonical frame.
const PixelsPerMM = CanonicalDPI / 25.4

// Preprocess converts a raw scan into the canonical single-channel image:
// grayscale, mode-specific transform, then resize to CanonicalWidth x
// CanonicalHeight. Pure and deterministic for a given input and mode.
func Preprocess(img gocv.Mat, mode types.PreprocessMode) (gocv.Mat, error) {
	if !types.ValidMode(mode) {
		return gocv.NewMat(), fmt.Errorf("%w: unknown preprocessing mode %q", types.ErrInvalidOptions, mode)
	}
	if img.Empty() {
		return gocv.NewMat(), fmt.Errorf("%w: empty image", types.ErrUnsupportedFormat)
	}
	if img.Cols() < MinWidth || img.Rows() < MinHeight {
		return gocv.NewMat(), fmt.Errorf("%w: %dx%d (minimum %dx%d)",
			types.ErrImageTooSmall, img.Cols(), img.Rows(), MinWidth, MinHeight)
	}
	if img.Cols() > MaxWidth || img.Rows() > MaxHeight {
		return gocv.NewMat(), fmt.Errorf("%w: %dx%d (maximum %dx%d)",
			types.ErrImageTooLarge, img.Cols(), img.Rows(), MaxWidth, MaxHeight)
	}

	// Single channel working copy
	gray := gocv.NewMat()
	if img.Channels() > 1 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		img.CopyTo(&gray)
	}
	defer gray.Close()

	transformed := gocv.NewMat()
	defer transformed.Close()

	switch mode {
	case types.ModeAuto:
		gray.CopyTo(&transformed)
	case types.ModeEnhance:
		applyEnhance(gray, &transformed)
	case types.ModeDenoise:
		applyDenoise(gray, &transformed)
	case types.ModeSharpen:
		applySharpen(gray, &transformed)
	}

	canonical := gocv.NewMat()
	gocv.Resize(transformed, &canonical, image.Point{X: CanonicalWidth, Y: CanonicalHeight}, 0, 0, gocv.InterpolationArea)

	logging.DebugLog("preprocessed %dx%d -> %dx%d (mode=%s)",
		img.Cols(), img.Rows(), canonical.Cols(), canonical.Rows(), mode)

	return canonical, nil
}

// applyEnhance performs a min-max contrast stretch for faded or poorly lit
// originals.
func applyEnhance(src gocv.Mat, dst *gocv.Mat) {
	gocv.Normalize(src, dst, 0, 255, gocv.NormMinMax)
}

// applyDenoise removes speckle with a median filter, then binarizes toward
// pure black ink on white background using Otsu's threshold.
func applyDenoise(src gocv.Mat, dst *gocv.Mat) {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(src, &blurred, 3)
	gocv.Threshold(blurred, dst, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
}

// applySharpen runs an edge-enhancement kernel for blurry photographic
// captures.
func applySharpen(src gocv.Mat, dst *gocv.Mat) {
	kernel := sharpenKernel()
	defer kernel.Close()
	gocv.Filter2D(src, dst, gocv.MatTypeCV8U, kernel, image.Point{X: -1, Y: -1}, 0, gocv.BorderDefault)
}

// sharpenKernel builds the mild sharpening kernel applied in sharpen mode.
func sharpenKernel() gocv.Mat {
	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	values := [3][3]float32{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			kernel.SetFloatAt(y, x, values[y][x])
		}
	}
	return kernel
}

// Binarize extracts the ink mask from a canonical grayscale image using
// Otsu's threshold, ink as foreground (255).
func Binarize(canonical gocv.Mat) gocv.Mat {
	binary := gocv.NewMat()
	gocv.Threshold(canonical, &binary, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)
	return binary
}
