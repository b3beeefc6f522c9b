// Package face wraps a face-detection and comparison engine for the Aadhaar
// verification path, with quality heuristics over the selfie.
package face

// Detection summarizes one detected face.
type Detection struct {
	// Confidence is the engine's 0-100 confidence that this is a face.
	Confidence float64

	// Yaw and Pitch are head rotation in degrees.
	Yaw   float64
	Pitch float64

	// Brightness and Sharpness are the engine's 0-100 image quality scores.
	Brightness float64
	Sharpness  float64

	// Sunglasses is set when the engine detects sunglasses with high
	// confidence.
	Sunglasses bool
}

// ComparisonResult is the outcome of comparing the document photo against the
// live selfie.
type ComparisonResult struct {
	Matched    bool `json:"matched"`
	Similarity int  `json:"similarity"`
	Confidence int  `json:"confidence"`

	HasQualityIssues bool     `json:"hasQualityIssues"`
	QualityReasons   []string `json:"qualityReasons,omitempty"`
}

// Quality heuristic bounds applied to the selfie.
const (
	similarityThreshold   = 70.0
	maxHeadYawDegrees     = 45.0
	maxHeadPitchDegrees   = 30.0
	minBrightness         = 30.0
	minSharpness          = 30.0
	sunglassesMinDetectCf = 80.0
)
