package inference

import (
	"context"
	"fmt"
	"math"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/imaging"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/models"
)

// Adapter owns the loaded classifier for the lifetime of the process. When
// no model could be loaded it runs in mock mode: Ready reports false and
// Predict returns a fixed healthy result flagged as Mock.
type Adapter struct {
	model Model
	log   *logger.Logger
}

// NewAdapter resolves and loads the classifier described by cfg. Load
// failures are logged and leave the adapter in mock mode.
func NewAdapter(ctx context.Context, cfg config.App, log *logger.Logger) *Adapter {
	log = log.WithComponent("inference")

	path, err := ResolveModelPath(cfg.ModelPath, DefaultCandidates)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("model file not found, using mock predictions")
		return &Adapter{log: log}
	}

	model, err := LoadModel(ctx, path, LoadOptions{ONNXRuntimeLib: cfg.ONNXRuntimeLib})
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("error loading model, using mock predictions")
		return &Adapter{log: log}
	}

	log.Info().Str("path", path).Str("model", model.Name()).Msg("model loaded")
	return &Adapter{model: model, log: log}
}

// NewAdapterWithModel wraps an already loaded model. A nil model yields an
// adapter in mock mode.
func NewAdapterWithModel(model Model, log *logger.Logger) *Adapter {
	return &Adapter{model: model, log: log.WithComponent("inference")}
}

// Ready reports whether a real classifier is loaded.
func (a *Adapter) Ready() bool {
	return a.model != nil
}

// ModelName returns the loaded variant name, or "mock".
func (a *Adapter) ModelName() string {
	if a.model == nil {
		return MockModelName
	}
	return a.model.Name()
}

// Predict classifies the photo in data. threshold is the minimum top-class
// probability for IsConfident.
func (a *Adapter) Predict(ctx context.Context, data []byte, threshold float64) (models.Prediction, error) {
	if a.model == nil {
		return mockPrediction(), nil
	}

	img, _, err := imaging.Decode(data)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	input, err := a.model.Preprocess(img)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: preprocess: %w", ErrInference, err)
	}

	raw, err := a.model.Forward(ctx, input)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %w", ErrInference, err)
	}
	if len(raw) == 0 {
		return models.Prediction{}, fmt.Errorf("%w: empty output", ErrInference)
	}

	probs := a.model.Postprocess(raw)
	if !allFinite(probs) {
		return models.Prediction{}, fmt.Errorf("%w: non-finite model output", ErrInference)
	}
	prediction := buildPrediction(probs, threshold)

	log := logger.FromContext(ctx)
	if !prediction.IsConfident {
		log.Warn().
			Float64("confidence", prediction.ConfidenceRaw).
			Float64("threshold", threshold).
			Any("all_predictions", prediction.AllPredictions).
			Msg("low confidence prediction")
	}

	return prediction, nil
}

// Close releases the loaded model.
func (a *Adapter) Close() error {
	if a.model == nil {
		return nil
	}
	if err := a.model.Close(); err != nil {
		return fmt.Errorf("error closing model: %w", err)
	}
	return nil
}

// buildPrediction maps class probabilities to a [models.Prediction].
func buildPrediction(probs []float64, threshold float64) models.Prediction {
	first, second := topTwo(probs)
	confidence := probs[first]
	confidencePct := confidence * 100

	disease := Disease{Class: "unknown", Name: "Unknown", Severity: models.SeverityUnknown, ActionRequired: true, Advice: unknownAdvice}
	if first < len(Classes) {
		disease = LookupDisease(Classes[first])
	}

	all := make(map[string]float64, len(Classes))
	for i := 0; i < min(len(Classes), len(probs)); i++ {
		all[LookupDisease(Classes[i]).Name] = probs[i] * 100
	}

	var next *runnerUp
	if second >= 0 && second < len(Classes) {
		next = &runnerUp{name: LookupDisease(Classes[second]).Name, confidence: probs[second] * 100}
	}

	return models.Prediction{
		DiseaseName:     disease.Name,
		DiseaseClass:    disease.Class,
		Confidence:      math.Round(confidencePct*100) / 100,
		ConfidenceRaw:   confidence,
		Recommendations: buildGuidance(disease, confidencePct, next),
		Severity:        disease.Severity,
		ActionRequired:  disease.ActionRequired,
		AllPredictions:  all,
		IsConfident:     confidence >= threshold,
	}
}
