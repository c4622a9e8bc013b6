package inference

import "github.com/MKhiriev/agricheck/models"

// MockModelName is reported as the model name while no classifier is loaded.
const MockModelName = "mock"

// mockPrediction is the fixed result returned in mock mode.
func mockPrediction() models.Prediction {
	healthy := LookupDisease(ClassHealthy)
	return models.Prediction{
		DiseaseName:     healthy.Name,
		DiseaseClass:    healthy.Class,
		Confidence:      98.7,
		ConfidenceRaw:   0.987,
		Recommendations: healthy.Advice,
		Severity:        healthy.Severity,
		ActionRequired:  healthy.ActionRequired,
		AllPredictions:  map[string]float64{healthy.Name: 98.7},
		IsConfident:     true,
		Mock:            true,
	}
}
