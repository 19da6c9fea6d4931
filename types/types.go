package types

// PreprocessMode selects the normalization transform applied before analysis.
type PreprocessMode string

const (
	ModeAuto    PreprocessMode = "auto"    // standard normalization, safe for clean scans
	ModeEnhance PreprocessMode = "enhance" // contrast stretch for faded originals
	ModeDenoise PreprocessMode = "denoise" // noise reduction + binarization for speckled scans
	ModeSharpen PreprocessMode = "sharpen" // edge enhancement for blurry photos
)

// ValidMode reports whether m is a recognized preprocessing mode.
func ValidMode(m PreprocessMode) bool {
	switch m {
	case ModeAuto, ModeEnhance, ModeDenoise, ModeSharpen:
		return true
	}
	return false
}

// ParameterName identifies one graphological parameter.
type ParameterName string

const (
	Proportion          ParameterName = "Proportion"
	Inclination         ParameterName = "Inclination"
	PressureMean        ParameterName = "PressureMean"
	PressureStd         ParameterName = "PressureStd"
	AvgCurvature        ParameterName = "AvgCurvature"
	AvgAsolaSize        ParameterName = "AvgAsolaSize"
	AvgSpacing          ParameterName = "AvgSpacing"
	Velocity            ParameterName = "Velocity"
	OverlapRatio        ParameterName = "OverlapRatio"
	LetterConnections   ParameterName = "LetterConnections"
	BaselineStd         ParameterName = "BaselineStd"
	ConnectedComponents ParameterName = "ConnectedComponents"
	StrokeComplexity    ParameterName = "StrokeComplexity"
)

// ParameterVector holds the numeric measurements extracted from one
// preprocessed signature image, plus the categorical style labels carried
// as diagnostics. Never mutated after creation.
type ParameterVector struct {
	Values       map[ParameterName]float64 `json:"values"`
	WritingStyle string                    `json:"writing_style"`
	Readability  string                    `json:"readability"`
	Width        int                       `json:"width"`
	Height       int                       `json:"height"`
}

// ParameterComparison is the per-parameter breakdown in a Verdict.
type ParameterComparison struct {
	RefValue      float64 `json:"ref_value"`
	VerValue      float64 `json:"ver_value"`
	Compatibility float64 `json:"compatibility"`
}

// Category is the graded authenticity tier of a verdict.
type Category string

const (
	Authentic         Category = "Authentic"
	ProbablyAuthentic Category = "ProbablyAuthentic"
	Inconclusive      Category = "Inconclusive"
	Suspicious        Category = "Suspicious"
)

// NaturalnessScore is the advisory composite computed for the candidate
// signature only.
type NaturalnessScore struct {
	Fluidity            float64 `json:"fluidity"`
	PressureConsistency float64 `json:"pressure_consistency"`
	Coordination        float64 `json:"coordination"`
	Overall             float64 `json:"overall"`
}

// Verdict is the terminal output of a verification.
type Verdict struct {
	FinalScore          float64                               `json:"final_score"`
	Category            Category                              `json:"category"`
	Confidence          float64                               `json:"confidence"`
	SSIMScore           float64                               `json:"ssim_score"`
	GraphologicalScore  float64                               `json:"graphological_score"`
	ParameterBreakdown  map[ParameterName]ParameterComparison `json:"parameter_breakdown"`
	ReferenceParameters ParameterVector                       `json:"reference_parameters"`
	CandidateParameters ParameterVector                       `json:"candidate_parameters"`
	Naturalness         NaturalnessScore                      `json:"naturalness"`
}

// QualityMetric identifies one quality pre-check measurement.
type QualityMetric string

const (
	MetricResolution   QualityMetric = "resolution"
	MetricContrast     QualityMetric = "contrast"
	MetricSharpness    QualityMetric = "sharpness"
	MetricCompleteness QualityMetric = "completeness"
	MetricPresence     QualityMetric = "presence"
)

// QualityReport is the output of the quality pre-check for a single image.
type QualityReport struct {
	Path         string                    `json:"path,omitempty"`
	Metrics      map[QualityMetric]float64 `json:"metrics"`
	OverallScore float64                   `json:"overall_score"`
	Suitable     bool                      `json:"suitable"`
}

// VerifyOptions configures a single verification request.
type VerifyOptions struct {
	Preprocessing PreprocessMode `json:"preprocessing"`

	// ApplyNaturalnessPenalty folds the naturalness score into the final
	// score as a penalty multiplier. Off by default; the baseline verdict
	// reports naturalness as diagnostics only.
	ApplyNaturalnessPenalty bool `json:"apply_naturalness_penalty"`

	DebugMode bool `json:"-"`
}

// DefaultVerifyOptions returns the baseline options used when the caller
// supplies none.
func DefaultVerifyOptions() VerifyOptions {
	return VerifyOptions{Preprocessing: ModeAuto}
}

// VerificationRecord is the row shape stored by the optional CLI-side
// report store. The core engine owns no persistence.
type VerificationRecord struct {
	ID            int64    `json:"id"`
	ReferencePath string   `json:"reference_path"`
	CandidatePath string   `json:"candidate_path"`
	Mode          string   `json:"mode"`
	FinalScore    float64  `json:"final_score"`
	Category      Category `json:"category"`
	Confidence    float64  `json:"confidence"`
	SSIMScore     float64  `json:"ssim_score"`
	Graphological float64  `json:"graphological_score"`
	Naturalness   float64  `json:"naturalness_score"`
	CreatedAt     string   `json:"created_at"`
}
