package encoder

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/vectra-ml/vectra/internal/model"
)

// onnxSession drives a transformer ONNX export through onnxruntime. The
// session's requested outputs are exactly the named hidden-state tensors for
// the selected layers, so unrequested layers never materialize.
type onnxSession struct {
	sess   *ort.DynamicAdvancedSession
	desc   model.Descriptor
	layers []int
}

// OpenONNX opens an encoder session exposing the hidden-state outputs for
// the given layers. The onnxruntime environment must be initialized first
// (see InitRuntime).
func OpenONNX(desc model.Descriptor, modelsDir string, layers []int) (Session, error) {
	path := desc.ModelPath(modelsDir)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: model file for %s not found at %s", model.ErrConfiguration, desc.Key, path)
	}
	if !ort.IsInitialized() {
		return nil, fmt.Errorf("%w: onnxruntime environment not initialized", model.ErrConfiguration)
	}

	outputs := make([]string, len(layers))
	for i, layer := range layers {
		outputs[i] = desc.HiddenStateOutput(layer)
	}
	sess, err := ort.NewDynamicAdvancedSession(
		path,
		[]string{desc.InputIDsName, desc.AttentionMaskName},
		outputs,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("open encoder session for %s: %w", desc.Key, err)
	}
	return &onnxSession{sess: sess, desc: desc, layers: layers}, nil
}

// HiddenStates runs one forward pass in inference mode and copies out the
// requested layers. All tensors are destroyed before returning so only the
// copied buffers outlive the call.
func (s *onnxSession) HiddenStates(ids, mask []int64, batchSize, seqLen int, layers []int) (map[int][]float32, error) {
	shape := ort.NewShape(int64(batchSize), int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()

	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	// nil output slots are allocated by the runtime and owned by us after Run.
	outputs := make([]ort.Value, len(s.layers))
	if err := s.sess.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, err
	}

	states := make(map[int][]float32, len(s.layers))
	for i, layer := range s.layers {
		tensor, ok := outputs[i].(*ort.Tensor[float32])
		if !ok {
			destroyAll(outputs[i:])
			return nil, fmt.Errorf("output %s is not a float32 tensor", s.desc.HiddenStateOutput(layer))
		}
		data := tensor.GetData()
		want := batchSize * seqLen * s.desc.HiddenDim
		if len(data) != want {
			destroyAll(outputs[i:])
			return nil, fmt.Errorf("output %s has %d values, want %d", s.desc.HiddenStateOutput(layer), len(data), want)
		}
		buf := make([]float32, want)
		copy(buf, data)
		states[layer] = buf
		tensor.Destroy()
	}
	return states, nil
}

// Close releases the session.
func (s *onnxSession) Close() error {
	return s.sess.Destroy()
}

func destroyAll(values []ort.Value) {
	for _, v := range values {
		if v != nil {
			v.Destroy()
		}
	}
}

// libraryName returns the onnxruntime shared library filename for this OS.
func libraryName() string {
	if runtime.GOOS == "darwin" {
		return "libonnxruntime.dylib"
	}
	return "libonnxruntime.so"
}

// LocateRuntime finds the onnxruntime shared library. Checks, in order: the
// VECTRA_ONNX_PATH environment variable, the explicit configured path, and
// the managed install under ~/.vectra/lib/. Returns "" if none exists.
func LocateRuntime(configured string) string {
	if p := os.Getenv("VECTRA_ONNX_PATH"); p != "" {
		return p
	}
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	managed := filepath.Join(home, ".vectra", "lib", libraryName())
	if _, err := os.Stat(managed); err == nil {
		return managed
	}
	return ""
}

// InitRuntime initializes the shared onnxruntime environment. Safe to call
// when already initialized.
func InitRuntime(libPath string) error {
	if ort.IsInitialized() {
		return nil
	}
	if libPath == "" {
		return fmt.Errorf("%w: onnxruntime library not found; set VECTRA_ONNX_PATH or runtime.onnx_library in config", model.ErrConfiguration)
	}
	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime: %w", err)
	}
	return nil
}

// ShutdownRuntime tears the environment down again. Callers that share the
// runtime across sessions call this once at exit.
func ShutdownRuntime() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}
