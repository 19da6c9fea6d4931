// Package ssim computes the structural similarity index between two
// aligned grayscale images over local windows, combining luminance,
// contrast and structure terms.
package ssim

import (
	"fmt"

	"firmaverify/types"

	"gocv.io/x/gocv"
)

// Window is the side length of the local comparison windows.
const Window = 8

// Stabilization constants for 8-bit dynamic range (K1=0.01, K2=0.03, L=255).
const (
	c1 = (0.01 * 255) * (0.01 * 255)
	c2 = (0.03 * 255) * (0.03 * 255)
)

// ComputeSSIM returns the mean structural similarity of two single-channel
// images of identical dimensions, clamped to [0,1]. The caller is
// responsible for alignment: mismatched shapes are a contract violation,
// not a recoverable condition.
func ComputeSSIM(img1, img2 gocv.Mat) (float64, error) {
	if img1.Empty() || img2.Empty() {
		return 0, fmt.Errorf("%w: empty image", types.ErrDimensionMismatch)
	}
	if img1.Rows() != img2.Rows() || img1.Cols() != img2.Cols() {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", types.ErrDimensionMismatch,
			img1.Cols(), img1.Rows(), img2.Cols(), img2.Rows())
	}
	if img1.Channels() != 1 || img2.Channels() != 1 {
		return 0, fmt.Errorf("%w: expected single-channel images", types.ErrDimensionMismatch)
	}

	rows := img1.Rows()
	cols := img1.Cols()

	var total float64
	var windows int

	for y := 0; y < rows; y += Window {
		for x := 0; x < cols; x += Window {
			h := Window
			if y+h > rows {
				h = rows - y
			}
			w := Window
			if x+w > cols {
				w = cols - x
			}

			total += windowSSIM(img1, img2, x, y, w, h)
			windows++
		}
	}

	if windows == 0 {
		return 0, nil
	}

	score := total / float64(windows)
	if score < 0 {
		score = 0
	} else if score > 1 {
		score = 1
	}
	return score, nil
}

// windowSSIM computes the SSIM term for one local window.
func windowSSIM(img1, img2 gocv.Mat, x0, y0, w, h int) float64 {
	n := float64(w * h)

	var sum1, sum2 float64
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			sum1 += float64(img1.GetUCharAt(y, x))
			sum2 += float64(img2.GetUCharAt(y, x))
		}
	}
	mu1 := sum1 / n
	mu2 := sum2 / n

	var var1, var2, covar float64
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			d1 := float64(img1.GetUCharAt(y, x)) - mu1
			d2 := float64(img2.GetUCharAt(y, x)) - mu2
			var1 += d1 * d1
			var2 += d2 * d2
			covar += d1 * d2
		}
	}
	var1 /= n
	var2 /= n
	covar /= n

	numerator := (2*mu1*mu2 + c1) * (2*covar + c2)
	denominator := (mu1*mu1 + mu2*mu2 + c1) * (var1 + var2 + c2)
	return numerator / denominator
}
