package models

// Severity grades how urgently a diagnosed condition needs attention.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
	SeverityUnknown  Severity = "unknown"
)

// NeedsAttention reports whether guidance for this severity is prefixed
// with an attention marker.
func (s Severity) NeedsAttention() bool {
	return s == SeverityModerate || s == SeverityHigh || s == SeverityCritical
}

// Prediction is the outcome of classifying one leaf photo.
type Prediction struct {
	// DiseaseName is the display name of the top class.
	DiseaseName string `json:"disease_name"`

	// DiseaseClass is the internal label of the top class.
	DiseaseClass string `json:"disease_class"`

	// Confidence is the top probability in percent, rounded to 2 places.
	Confidence float64 `json:"confidence"`

	// ConfidenceRaw is the top probability in [0,1].
	ConfidenceRaw float64 `json:"confidence_raw"`

	// Recommendations is the farmer-facing guidance text.
	Recommendations string `json:"recommendations"`

	Severity       Severity `json:"severity"`
	ActionRequired bool     `json:"action_required"`

	// AllPredictions maps every display name to its percentage.
	AllPredictions map[string]float64 `json:"all_predictions"`

	// IsConfident reports whether ConfidenceRaw reached the caller's
	// threshold.
	IsConfident bool `json:"is_confident"`

	// Mock is set when no model was loaded and the fixed fallback result
	// was returned.
	Mock bool `json:"mock,omitempty"`
}

// RunnerUp returns the display name and percentage of the second most
// likely class. ok is false when fewer than two classes are present.
func (p Prediction) RunnerUp() (name string, confidence float64, ok bool) {
	first, second := "", ""
	firstConf, secondConf := -1.0, -1.0
	for n, c := range p.AllPredictions {
		switch {
		case c > firstConf || (c == firstConf && n < first):
			second, secondConf = first, firstConf
			first, firstConf = n, c
		case c > secondConf || (c == secondConf && n < second):
			second, secondConf = n, c
		}
	}
	if second == "" {
		return "", 0, false
	}
	return second, secondConf, true
}
