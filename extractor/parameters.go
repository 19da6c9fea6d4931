package extractor

import (
	"image"
	"math"
	"sort"

	"firmaverify/preprocessor"

	"gocv.io/x/gocv"
)

// ProportionOf returns the width/height aspect ratio of the stroke
// bounding box.
func ProportionOf(bounds image.Rectangle) float64 {
	h := bounds.Dy()
	if h == 0 {
		return 0
	}
	return float64(bounds.Dx()) / float64(h)
}

// InclinationOf estimates the dominant stroke angle in degrees as the mean
// fitted-ellipse angle over significant contours.
func InclinationOf(binary gocv.Mat) float64 {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var sum float64
	var count int
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		// Ellipse fitting needs at least 5 points and a non-trivial area
		if contour.Size() < 5 || gocv.ContourArea(contour) <= 50 {
			continue
		}
		ellipse := gocv.FitEllipse(contour)
		sum += ellipse.Angle
		count++
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// PressureStats treats inverted pixel intensity over the ink mask as a
// pen-pressure proxy and returns its mean and standard deviation on a
// 0-100 scale.
func PressureStats(gray, binary gocv.Mat) (mean, std float64) {
	var sum, sumSq float64
	var count int

	for y := 0; y < gray.Rows(); y++ {
		for x := 0; x < gray.Cols(); x++ {
			if binary.GetUCharAt(y, x) == 0 {
				continue
			}
			pressure := 255 - float64(gray.GetUCharAt(y, x))
			sum += pressure
			sumSq += pressure * pressure
			count++
		}
	}

	if count == 0 {
		return 0, 0
	}

	mean = sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	std = math.Sqrt(variance)

	// Normalize to 0-100
	return mean / 255.0 * 100, std / 255.0 * 100
}

// AvgCurvatureOf measures the mean direction change along stroke contours
// in degrees: 0 for straight strokes, growing with angularity. Sampled
// with a 5-point stride to smooth pixel-level jitter.
func AvgCurvatureOf(binary gocv.Mat) float64 {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()

	const stride = 5

	var total float64
	var count int
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		n := contour.Size()
		if n <= 2*stride {
			continue
		}
		for j := stride; j < n-stride; j++ {
			p1 := contour.At(j - stride)
			p2 := contour.At(j)
			p3 := contour.At(j + stride)

			bend := bendAngle(p1, p2, p3)
			// A straight run yields 180 degrees between the two segment
			// vectors; report the deviation from straight.
			total += 180 - bend
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// bendAngle returns the angle in degrees between vectors p1-p2 and p3-p2.
func bendAngle(p1, p2, p3 image.Point) float64 {
	v1x := float64(p1.X - p2.X)
	v1y := float64(p1.Y - p2.Y)
	v2x := float64(p3.X - p2.X)
	v2y := float64(p3.Y - p2.Y)

	norm1 := math.Hypot(v1x, v1y)
	norm2 := math.Hypot(v2x, v2y)
	cos := (v1x*v2x + v1y*v2y) / (norm1*norm2 + 1e-6)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// AvgAsolaSizeOf measures the mean pixel area of closed loops (asole):
// small, nearly circular internal contours.
func AvgAsolaSizeOf(binary gocv.Mat) float64 {
	contours := gocv.FindContours(binary, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer contours.Close()

	var sum float64
	var count int
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area <= 20 || area >= 500 {
			continue
		}
		if circularity(contour, area) > 0.5 {
			sum += area
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// circularity is 4*pi*area/perimeter^2: 1.0 for a perfect circle.
func circularity(contour gocv.PointVector, area float64) float64 {
	perimeter := gocv.ArcLength(contour, true)
	if perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * area / (perimeter * perimeter)
}

// AvgSpacingOf returns the mean horizontal gap between stroke groups in
// millimeters at the canonical scale.
func AvgSpacingOf(binary gocv.Mat) float64 {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() < 2 {
		return 0
	}

	xs := make([]int, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		xs = append(xs, rect.Min.X)
	}
	sort.Ints(xs)

	var sum float64
	for i := 1; i < len(xs); i++ {
		sum += float64(xs[i] - xs[i-1])
	}
	avgPixels := sum / float64(len(xs)-1)
	return avgPixels / preprocessor.PixelsPerMM
}

// VelocityOf is the execution-speed proxy: total stroke arc length divided
// by the straight diagonal of the stroke bounding box. Fast, fluent
// signatures cover more path per unit of extent.
func VelocityOf(binary gocv.Mat, bounds image.Rectangle) float64 {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var totalLength float64
	for i := 0; i < contours.Size(); i++ {
		totalLength += gocv.ArcLength(contours.At(i), false)
	}

	diagonal := math.Hypot(float64(bounds.Dx()), float64(bounds.Dy()))
	return totalLength / (diagonal + 1e-5)
}

// OverlapRatioOf is the ink density inside the stroke bounding box.
func OverlapRatioOf(binary gocv.Mat, bounds image.Rectangle) float64 {
	boxArea := bounds.Dx() * bounds.Dy()
	if boxArea == 0 {
		return 0
	}
	return float64(gocv.CountNonZero(binary)) / float64(boxArea)
}

// LetterConnectionsOf counts distinct stroke groups; connected writing
// produces fewer, larger groups than disconnected print.
func LetterConnectionsOf(binary gocv.Mat) int {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var count int
	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) > 5 {
			count++
		}
	}
	return count
}

// BaselineStdOf measures the vertical scatter of stroke-group centroids in
// millimeters: a steady hand keeps the baseline level.
func BaselineStdOf(binary gocv.Mat) float64 {
	labels := gocv.NewMat()
	stats := gocv.NewMat()
	centroids := gocv.NewMat()
	defer labels.Close()
	defer stats.Close()
	defer centroids.Close()

	nLabels := gocv.ConnectedComponentsWithStats(binary, &labels, &stats, &centroids)
	if nLabels < 3 { // background + at least two components
		return 0
	}

	ys := make([]float64, 0, nLabels-1)
	for i := 1; i < nLabels; i++ {
		ys = append(ys, centroids.GetDoubleAt(i, 1))
	}

	stdPixels := stddev(ys)
	return stdPixels / preprocessor.PixelsPerMM
}

// ConnectedComponentsOf counts significant connected components, at least 1.
func ConnectedComponentsOf(binary gocv.Mat) int {
	labels := gocv.NewMat()
	stats := gocv.NewMat()
	centroids := gocv.NewMat()
	defer labels.Close()
	defer stats.Close()
	defer centroids.Close()

	nLabels := gocv.ConnectedComponentsWithStats(binary, &labels, &stats, &centroids)

	var count int
	for i := 1; i < nLabels; i++ { // skip background label 0
		if stats.GetIntAt(i, 4) > 10 { // column 4 holds the component area
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// StrokeComplexityOf scores contour intricacy in [0,1] from the ratio of
// raw contour points to their polygonal approximation, weighted by
// perimeter.
func StrokeComplexityOf(binary gocv.Mat) float64 {
	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var totalComplexity, totalPerimeter float64
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if gocv.ContourArea(contour) <= 20 {
			continue
		}
		perimeter := gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, 0.02*perimeter, true)
		if approx.Size() > 0 {
			complexity := float64(contour.Size()) / float64(approx.Size())
			totalComplexity += complexity * perimeter
			totalPerimeter += perimeter
		}
		approx.Close()
	}

	if totalPerimeter == 0 {
		return 0
	}
	avg := totalComplexity / totalPerimeter / 10.0
	if avg > 1 {
		avg = 1
	}
	return avg
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}
