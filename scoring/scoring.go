// Package scoring orchestrates a full verification: preprocessing,
// parameter extraction, per-parameter compatibility, structural similarity
// and fusion into a graded authenticity verdict.
package scoring

import (
	"fmt"

	"firmaverify/extractor"
	"firmaverify/imageio"
	"firmaverify/logging"
	"firmaverify/naturalness"
	"firmaverify/preprocessor"
	"firmaverify/ssim"
	"firmaverify/types"

	"gocv.io/x/gocv"
)

// Verify compares a reference signature against a candidate and returns
// the verdict with full diagnostics. Pure given identical inputs and
// options: same images and mode produce an identical verdict. A failed
// extraction aborts the whole call; a verdict with missing parameters
// would corrupt the fixed-weight aggregation.
func Verify(reference, candidate gocv.Mat, opts types.VerifyOptions) (types.Verdict, error) {
	var verdict types.Verdict

	if opts.Preprocessing == "" {
		opts.Preprocessing = types.ModeAuto
	}
	if !types.ValidMode(opts.Preprocessing) {
		return verdict, fmt.Errorf("%w: unknown preprocessing mode %q", types.ErrInvalidOptions, opts.Preprocessing)
	}

	refCanonical, err := preprocessor.Preprocess(reference, opts.Preprocessing)
	if err != nil {
		return verdict, fmt.Errorf("preprocessing reference: %w", err)
	}
	defer refCanonical.Close()

	candCanonical, err := preprocessor.Preprocess(candidate, opts.Preprocessing)
	if err != nil {
		return verdict, fmt.Errorf("preprocessing candidate: %w", err)
	}
	defer candCanonical.Close()

	refParams, err := extractor.Extract(refCanonical)
	if err != nil {
		return verdict, fmt.Errorf("extracting reference parameters: %w", err)
	}

	candParams, err := extractor.Extract(candCanonical)
	if err != nil {
		return verdict, fmt.Errorf("extracting candidate parameters: %w", err)
	}

	breakdown := make(map[types.ParameterName]types.ParameterComparison, len(ParameterRules))
	var graphological float64
	for _, rule := range ParameterRules {
		refValue := refParams.Values[rule.Name]
		verValue := candParams.Values[rule.Name]
		compatibility := Compatibility(refValue, verValue, rule.Divisor)

		breakdown[rule.Name] = types.ParameterComparison{
			RefValue:      refValue,
			VerValue:      verValue,
			Compatibility: compatibility,
		}
		graphological += rule.Weight * compatibility
	}

	ssimScore, err := ssim.ComputeSSIM(refCanonical, candCanonical)
	if err != nil {
		return verdict, fmt.Errorf("structural comparison: %w", err)
	}

	natural := naturalness.Analyze(candCanonical, candParams)

	finalScore := SSIMWeight*ssimScore + GraphologicalWeight*graphological

	// Extension point: fold naturalness in as a penalty multiplier.
	// Diagnostics-only in the baseline verdict.
	if opts.ApplyNaturalnessPenalty {
		finalScore *= 0.8 + 0.2*natural.Overall
	}

	finalScore = clamp01(finalScore)
	category, confidence := Categorize(finalScore)

	if opts.DebugMode {
		logging.DebugLog("verify: ssim=%.4f graphological=%.4f final=%.4f category=%s",
			ssimScore, graphological, finalScore, category)
	}

	return types.Verdict{
		FinalScore:          finalScore,
		Category:            category,
		Confidence:          confidence,
		SSIMScore:           ssimScore,
		GraphologicalScore:  graphological,
		ParameterBreakdown:  breakdown,
		ReferenceParameters: refParams,
		CandidateParameters: candParams,
		Naturalness:         natural,
	}, nil
}

// VerifyFiles loads both signature scans from disk and runs Verify.
func VerifyFiles(referencePath, candidatePath string, opts types.VerifyOptions) (types.Verdict, error) {
	var verdict types.Verdict

	reference, err := imageio.LoadImage(referencePath)
	if err != nil {
		return verdict, fmt.Errorf("loading reference image: %w", err)
	}
	defer reference.Close()

	candidate, err := imageio.LoadImage(candidatePath)
	if err != nil {
		return verdict, fmt.Errorf("loading candidate image: %w", err)
	}
	defer candidate.Close()

	verdict, err = Verify(reference, candidate, opts)
	if err != nil {
		return verdict, err
	}

	logging.LogVerification(referencePath, candidatePath, verdict.FinalScore, string(verdict.Category))
	return verdict, nil
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
