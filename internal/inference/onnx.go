package inference

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	ort "github.com/yalue/onnxruntime_go"
)

// onnxModel runs an ONNX graph in-process through onnxruntime.
type onnxModel struct {
	path       string
	session    *ort.DynamicAdvancedSession
	layout     Layout
	numClasses int64
}

func loadONNX(ctx context.Context, path string, opts LoadOptions) (Model, error) {
	if !ort.IsInitialized() {
		if opts.ONNXRuntimeLib != "" {
			ort.SetSharedLibraryPath(opts.ONNXRuntimeLib)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: onnxruntime: %w", ErrModelUnavailable, err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("%w: graph has no inputs or outputs", ErrInvalidModel)
	}

	layout := LayoutNHWCRaw
	if dims := inputs[0].Dimensions; len(dims) == 4 && dims[1] == 3 {
		layout = LayoutNCHWImageNet
	}

	numClasses := int64(len(Classes))
	if dims := outputs[0].Dimensions; len(dims) > 0 && dims[len(dims)-1] > 0 {
		numClasses = dims[len(dims)-1]
	}

	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	return &onnxModel{
		path:       path,
		session:    session,
		layout:     layout,
		numClasses: numClasses,
	}, nil
}

func (m *onnxModel) Name() string {
	return "onnx:" + filepath.Base(m.path)
}

func (m *onnxModel) Preprocess(img image.Image) (Input, error) {
	return toTensor(img, m.layout), nil
}

func (m *onnxModel) Forward(ctx context.Context, in Input) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input, err := ort.NewTensor(ort.NewShape(in.Shape...), in.Data)
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, m.numClasses))
	if err != nil {
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}
	defer output.Destroy()

	if err := m.session.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, fmt.Errorf("error running session: %w", err)
	}

	return append([]float32(nil), output.GetData()...), nil
}

func (m *onnxModel) Postprocess(out []float32) []float64 {
	return toProbabilities(out)
}

func (m *onnxModel) Close() error {
	if err := m.session.Destroy(); err != nil {
		return err
	}
	return ort.DestroyEnvironment()
}
