//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hyperjump/askta/pkg/utils"
	ort "github.com/yalue/onnxruntime_go"
)

var (
	onnxInputNames  = []string{"input_ids", "attention_mask", "token_type_ids"}
	onnxOutputNames = []string{"output"}

	errONNXClosed = errors.New("onnx embedder is closed")
)

// ONNXEmbedder runs a local sentence-embedding model with ONNX Runtime.
// It requires CGO and the onnxruntime shared library. Input tensors are bound to the session
// once and rewritten in place by each Embed call, so calls are serialized by mu.
type ONNXEmbedder struct {
	mu         sync.Mutex
	session    *ort.AdvancedSession
	tokenizer  Tokenizer
	seqLen     int
	dimensions int
	inputs     [3]*ort.Tensor[int64]
	output     *ort.Tensor[float32]
}

// NewONNXEmbedder loads the model at modelPath. Sequences are padded or cut to maxTokens.
func NewONNXEmbedder(modelPath string, dimensions, maxTokens int) (*ONNXEmbedder, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("onnx embedder: dimensions must be positive")
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
		}
	}

	e := &ONNXEmbedder{tokenizer: &SimpleTokenizer{}, dimensions: dimensions}
	ids, mask, types := e.tokenizer.Tokenize("", maxTokens)
	e.seqLen = len(ids)

	shape := ort.NewShape(1, int64(e.seqLen))
	for i, data := range [][]int64{ids, mask, types} {
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			e.release()
			return nil, fmt.Errorf("failed to create %s tensor: %w", onnxInputNames[i], err)
		}
		e.inputs[i] = t
	}
	out, err := ort.NewTensor(ort.NewShape(1, int64(dimensions)), make([]float32, dimensions))
	if err != nil {
		e.release()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	e.output = out

	session, err := ort.NewAdvancedSession(modelPath, onnxInputNames, onnxOutputNames,
		[]ort.ArbitraryTensor{e.inputs[0], e.inputs[1], e.inputs[2]},
		[]ort.ArbitraryTensor{e.output},
		nil,
	)
	if err != nil {
		e.release()
		return nil, fmt.Errorf("failed to load ONNX model %s: %w", modelPath, err)
	}
	e.session = session
	return e, nil
}

// Embed runs one inference and returns the unit-length embedding for text.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, errONNXClosed
	}

	ids, mask, types := e.tokenizer.Tokenize(text, e.seqLen)
	for i, data := range [][]int64{ids, mask, types} {
		copy(e.inputs[i].GetData(), data)
	}
	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	vec := append([]float32(nil), e.output.GetData()...)
	utils.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedEach(ctx, texts, e.Embed)
}

// Dimensions returns the embedding width.
func (e *ONNXEmbedder) Dimensions() int {
	return e.dimensions
}

// Close destroys the session and its tensors. Later Embed calls fail.
func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	e.release()
	return err
}

func (e *ONNXEmbedder) release() {
	for i, t := range e.inputs {
		if t != nil {
			_ = t.Destroy()
			e.inputs[i] = nil
		}
	}
	if e.output != nil {
		_ = e.output.Destroy()
		e.output = nil
	}
}
