package inference

import "errors"

var (
	// ErrNoModel is returned by [LoadModel] when no artifact path resolves.
	ErrNoModel = errors.New("no model artifact found")

	// ErrUnsupportedFormat is returned by [LoadModel] for unknown artifact
	// extensions.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrInvalidModel is returned when an artifact or manifest is malformed
	// or the model does not have the expected inputs and outputs.
	ErrInvalidModel = errors.New("invalid model")

	// ErrModelUnavailable is returned when a remote model server cannot be
	// reached or reports the model as not ready.
	ErrModelUnavailable = errors.New("model server unavailable")

	// ErrInvalidImage is returned by [Adapter.Predict] for bytes that do not
	// decode as an image.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInference wraps failures of a forward pass.
	ErrInference = errors.New("inference failed")
)
