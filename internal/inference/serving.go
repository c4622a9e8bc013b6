package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultServingTimeout = 15 * time.Second

// servingManifest points at a model hosted by a REST model server. It is the
// content of a ".tfserving.json" or ".torchserve.json" artifact.
type servingManifest struct {
	// Endpoint is the base URL of the server, e.g. "http://localhost:8501".
	Endpoint string `json:"endpoint"`

	// ModelName is the served model name.
	ModelName string `json:"model_name"`

	// SignatureName selects a TensorFlow Serving signature. Optional.
	SignatureName string `json:"signature_name,omitempty"`

	// Timeout bounds each request, e.g. "10s". Optional.
	Timeout string `json:"timeout,omitempty"`
}

// predictRequest is the row-format predict body shared by TensorFlow Serving
// and the KServe v1 protocol of TorchServe.
type predictRequest struct {
	SignatureName string `json:"signature_name,omitempty"`
	Instances     []any  `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float32 `json:"predictions"`
}

type servingError struct {
	Error string `json:"error"`
}

// servingModel forwards tensors to a remote model server over HTTP.
type servingModel struct {
	kind     string
	manifest servingManifest
	layout   Layout
	client   *resty.Client
}

func loadTFServing(ctx context.Context, path string, opts LoadOptions) (Model, error) {
	return loadServing(ctx, "tfserving", path, LayoutNHWCRaw, opts)
}

func loadTorchServe(ctx context.Context, path string, opts LoadOptions) (Model, error) {
	return loadServing(ctx, "torchserve", path, LayoutNCHWImageNet, opts)
}

func loadServing(ctx context.Context, kind, path string, layout Layout, opts LoadOptions) (Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	var manifest servingManifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("%w: manifest %s: %w", ErrInvalidModel, filepath.Base(path), err)
	}
	if manifest.Endpoint == "" || manifest.ModelName == "" {
		return nil, fmt.Errorf("%w: manifest %s needs endpoint and model_name", ErrInvalidModel, filepath.Base(path))
	}

	timeout := opts.HTTPTimeout
	if manifest.Timeout != "" {
		if timeout, err = time.ParseDuration(manifest.Timeout); err != nil {
			return nil, fmt.Errorf("%w: manifest timeout: %w", ErrInvalidModel, err)
		}
	}
	if timeout <= 0 {
		timeout = defaultServingTimeout
	}

	m := &servingModel{
		kind:     kind,
		manifest: manifest,
		layout:   layout,
		client: resty.New().
			SetBaseURL(strings.TrimRight(manifest.Endpoint, "/")).
			SetTimeout(timeout),
	}

	if err := m.probe(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// probe checks that the server knows the model.
func (m *servingModel) probe(ctx context.Context) error {
	resp, err := m.client.R().
		SetContext(ctx).
		Get("/v1/models/" + m.manifest.ModelName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: status %d for model %q", ErrModelUnavailable, resp.StatusCode(), m.manifest.ModelName)
	}
	return nil
}

func (m *servingModel) Name() string {
	return m.kind + ":" + m.manifest.ModelName
}

func (m *servingModel) Preprocess(img image.Image) (Input, error) {
	return toTensor(img, m.layout), nil
}

func (m *servingModel) Forward(ctx context.Context, in Input) ([]float32, error) {
	var instance any
	switch m.layout {
	case LayoutNCHWImageNet:
		instance = reshape3(in.Data, 3, InputSize, InputSize)
	default:
		instance = reshape3(in.Data, InputSize, InputSize, 3)
	}

	var result predictResponse
	var failure servingError
	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(predictRequest{SignatureName: m.manifest.SignatureName, Instances: []any{instance}}).
		SetResult(&result).
		SetError(&failure).
		Post("/v1/models/" + m.manifest.ModelName + ":predict")
	if err != nil {
		return nil, fmt.Errorf("predict request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("predict status %d: %s", resp.StatusCode(), failure.Error)
	}
	if len(result.Predictions) == 0 || len(result.Predictions[0]) == 0 {
		return nil, fmt.Errorf("predict response has no predictions")
	}

	return result.Predictions[0], nil
}

func (m *servingModel) Postprocess(out []float32) []float64 {
	return toProbabilities(out)
}

func (m *servingModel) Close() error {
	return nil
}

// reshape3 views a flat a×b×c buffer as nested slices without copying.
func reshape3(data []float32, a, b, c int) [][][]float32 {
	out := make([][][]float32, a)
	for i := range out {
		out[i] = make([][]float32, b)
		for j := range out[i] {
			off := (i*b + j) * c
			out[i][j] = data[off : off+c]
		}
	}
	return out
}
