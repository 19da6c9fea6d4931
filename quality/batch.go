package quality

import (
	"fmt"
	"sync"

	"firmaverify/imageio"
	"firmaverify/logging"
	"firmaverify/types"
)

// AssessFile loads a scan from disk, reads its resolution metadata and
// runs the quality check.
func AssessFile(path string) (types.QualityReport, error) {
	img, err := imageio.LoadImage(path)
	if err != nil {
		return types.QualityReport{}, fmt.Errorf("loading image for quality check: %w", err)
	}
	defer img.Close()

	dpi, err := imageio.ReadDPI(path)
	if err != nil {
		// Missing metadata is not fatal; the resolution metric falls back
		// to pixel-count adequacy.
		logging.LogWarning("could not read DPI metadata for %s: %v", path, err)
		dpi = 0
	}

	report := AssessQuality(img, dpi)
	report.Path = path
	return report, nil
}

// AssessBatch runs the quality check over a batch of scans concurrently,
// bounded by maxWorkers. Suitability is judged against minQuality. When no
// image in the batch is suitable the batch fails with ErrNoSuitableImages:
// verification must not proceed on a batch that cannot pass the gate.
func AssessBatch(paths []string, maxWorkers int, minQuality float64) ([]types.QualityReport, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: empty batch", types.ErrNoSuitableImages)
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	reports := make([]types.QualityReport, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxWorkers)

	for i, path := range paths {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, p string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			report, err := AssessFile(p)
			if err != nil {
				errs[idx] = err
				reports[idx] = types.QualityReport{Path: p, Suitable: false}
				return
			}
			report.Suitable = report.OverallScore >= minQuality
			reports[idx] = report
		}(i, path)
	}

	wg.Wait()

	var anySuitable bool
	for i, report := range reports {
		if errs[i] != nil {
			logging.LogWarning("quality check failed for %s: %v", paths[i], errs[i])
			continue
		}
		if report.Suitable {
			anySuitable = true
		}
	}

	if !anySuitable {
		return reports, types.ErrNoSuitableImages
	}
	return reports, nil
}
