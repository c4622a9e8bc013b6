// Package inference loads the rice-leaf disease classifier and turns its raw
// outputs into farmer-facing predictions.
//
// The classifier can be an ONNX file run in-process or a model hosted by
// TensorFlow Serving or TorchServe and described by a small JSON manifest.
// The variant is chosen once, at load time, from the artifact name.
package inference

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"
	"time"
)

// Model is one loaded classifier variant. Implementations are safe for
// concurrent use after loading.
type Model interface {
	// Name identifies the variant and artifact for logs and health output.
	Name() string

	// Preprocess turns a decoded photo into the variant's input tensor.
	Preprocess(img image.Image) (Input, error)

	// Forward runs the classifier and returns one score per class.
	Forward(ctx context.Context, in Input) ([]float32, error)

	// Postprocess converts raw scores into class probabilities.
	Postprocess(out []float32) []float64

	// Close releases the variant's resources.
	Close() error
}

// DefaultCandidates are probed in order when no explicit path is configured.
var DefaultCandidates = []string{
	"models/best_finetuned.onnx",
	"models/model.onnx",
	"models/model.tfserving.json",
	"models/model.torchserve.json",
}

// LoadOptions carries the settings variants may need while loading.
type LoadOptions struct {
	// ONNXRuntimeLib is the onnxruntime shared library path. Empty uses the
	// platform default.
	ONNXRuntimeLib string

	// HTTPTimeout bounds calls to remote model servers when their manifest
	// does not set one.
	HTTPTimeout time.Duration
}

type loaderFunc func(ctx context.Context, path string, opts LoadOptions) (Model, error)

// loaders maps artifact suffixes to variant loaders. Longer suffixes come
// first so ".tfserving.json" is never shadowed.
var loaders = []struct {
	suffix string
	load   loaderFunc
}{
	{suffix: ".tfserving.json", load: loadTFServing},
	{suffix: ".torchserve.json", load: loadTorchServe},
	{suffix: ".onnx", load: loadONNX},
}

// LoadModel loads the artifact at path with the variant matching its suffix.
func LoadModel(ctx context.Context, path string, opts LoadOptions) (Model, error) {
	lower := strings.ToLower(path)
	for _, l := range loaders {
		if strings.HasSuffix(lower, l.suffix) {
			return l.load(ctx, path, opts)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// ResolveModelPath returns explicit when set, otherwise the first candidate
// that exists on disk.
func ResolveModelPath(explicit string, candidates []string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return explicit, fmt.Errorf("%w: %w", ErrNoModel, err)
		}
		return explicit, nil
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", ErrNoModel
}
