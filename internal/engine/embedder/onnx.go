package embedder

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

const maxSeqLen = 128

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// Config locates the model artifacts for ONNXEmbedder.
type Config struct {
	ModelPath     string
	TokenizerPath string
	OrtLibPath    string // defaults to libonnxruntime.so next to the model
}

// ONNXEmbedder runs a BERT-style sentence-embedding model locally:
// WordPiece tokenization, ONNX inference, attention-weighted mean pooling,
// and L2 normalization so cosine similarity reduces to a dot product.
type ONNXEmbedder struct {
	session    *ort.DynamicAdvancedSession
	tok        *tokenizer.Tokenizer
	inputNames []string
	modelID    string
	dim        int64
}

// New loads the ONNX model and tokenizer and prepares an inference session.
func New(cfg Config) (*ONNXEmbedder, error) {
	libPath := cfg.OrtLibPath
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(cfg.ModelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("embedder: initialize onnx runtime: %w", err)
	}

	tok, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("embedder: load tokenizer: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("embedder: read model info: %w", err)
	}
	inputNames, err := validateInputs(inputs)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("embedder: model has no outputs")
	}
	dims := outputs[0].Dimensions
	if len(dims) != 3 {
		return nil, fmt.Errorf("embedder: expected 3D output tensor, got %v", dims)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("embedder: create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		inputNames,
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("embedder: create session: %w", err)
	}

	return &ONNXEmbedder{
		session:    session,
		tok:        tok,
		inputNames: inputNames,
		modelID:    filepath.Base(cfg.ModelPath),
		dim:        dims[2],
	}, nil
}

func validateInputs(inputs []ort.InputOutputInfo) ([]string, error) {
	nameSet := make(map[string]bool, len(inputs))
	for _, inp := range inputs {
		nameSet[inp.Name] = true
	}
	required := []string{"input_ids", "attention_mask", "token_type_ids"}
	for _, name := range required {
		if !nameSet[name] {
			return nil, fmt.Errorf("embedder: model missing required input %q", name)
		}
	}
	return required, nil
}

// Dim returns the embedding dimensionality.
func (e *ONNXEmbedder) Dim() int {
	return int(e.dim)
}

// ModelID identifies the loaded model for cache keying.
func (e *ONNXEmbedder) ModelID() string {
	return e.modelID
}

// Embed produces the unit embedding vector for one text.
func (e *ONNXEmbedder) Embed(text string) ([]float32, error) {
	vecs, err := e.EmbedBatch([]string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in a single inference call, padded to the longest
// sequence in the batch. This is the throughput path: one model invocation
// per batch, never one per text.
func (e *ONNXEmbedder) EmbedBatch(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch, err := e.tokenizeBatch(texts)
	if err != nil {
		return nil, err
	}

	hidden, err := e.infer(batch)
	if err != nil {
		return nil, err
	}

	results := make([][]float32, batch.size)
	for i := int64(0); i < batch.size; i++ {
		vec := meanPool(hidden, batch.attentionMask, i, batch.seqLen, e.dim)
		l2Normalize(vec)
		results[i] = vec
	}
	return results, nil
}

// tokenized holds flat [batch * seqLen] model inputs.
type tokenized struct {
	inputIDs      []int64
	attentionMask []int64
	tokenTypeIDs  []int64
	size          int64
	seqLen        int64
}

func (e *ONNXEmbedder) tokenizeBatch(texts []string) (tokenized, error) {
	encodings := make([]*tokenizer.Encoding, len(texts))
	maxLen := 0
	for i, text := range texts {
		en, err := e.tok.EncodeSingle(text, true)
		if err != nil {
			return tokenized{}, fmt.Errorf("embedder: tokenize %q: %w", text, err)
		}
		encodings[i] = en
		if n := len(en.Ids); n > maxLen {
			maxLen = n
		}
	}
	if maxLen > maxSeqLen {
		maxLen = maxSeqLen
	}
	if maxLen == 0 {
		maxLen = 1
	}

	n := len(texts)
	batch := tokenized{
		inputIDs:      make([]int64, n*maxLen),
		attentionMask: make([]int64, n*maxLen),
		tokenTypeIDs:  make([]int64, n*maxLen),
		size:          int64(n),
		seqLen:        int64(maxLen),
	}
	for i, en := range encodings {
		ids := en.Ids
		if len(ids) > maxLen {
			ids = ids[:maxLen]
		}
		off := i * maxLen
		for j, id := range ids {
			batch.inputIDs[off+j] = int64(id)
			batch.attentionMask[off+j] = 1
		}
		// Padding positions stay zero: pad id 0, mask 0, type id 0.
	}
	return batch, nil
}

func (e *ONNXEmbedder) infer(batch tokenized) ([]float32, error) {
	shape := ort.NewShape(batch.size, batch.seqLen)

	tIDs, err := ort.NewTensor(shape, batch.inputIDs)
	if err != nil {
		return nil, fmt.Errorf("embedder: create input_ids tensor: %w", err)
	}
	defer tIDs.Destroy()

	tMask, err := ort.NewTensor(shape, batch.attentionMask)
	if err != nil {
		return nil, fmt.Errorf("embedder: create attention_mask tensor: %w", err)
	}
	defer tMask.Destroy()

	tTypes, err := ort.NewTensor(shape, batch.tokenTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("embedder: create token_type_ids tensor: %w", err)
	}
	defer tTypes.Destroy()

	outShape := ort.NewShape(batch.size, batch.seqLen, e.dim)
	tOut, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("embedder: create output tensor: %w", err)
	}
	defer tOut.Destroy()

	err = e.session.Run(
		[]ort.Value{tIDs, tMask, tTypes},
		[]ort.Value{tOut},
	)
	if err != nil {
		return nil, fmt.Errorf("embedder: inference failed: %w", err)
	}

	src := tOut.GetData()
	result := make([]float32, len(src))
	copy(result, src)
	return result, nil
}

// Close releases ONNX Runtime resources.
func (e *ONNXEmbedder) Close() error {
	if e.session != nil {
		return e.session.Destroy()
	}
	return nil
}
