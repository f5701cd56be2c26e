// Package embedder produces sentence embeddings for semantic matching.
package embedder

// Embedder maps text to fixed-dimensional unit vectors. Implementations must
// be deterministic given fixed model weights: the same text always yields the
// same vector.
type Embedder interface {
	Embed(text string) ([]float32, error)
	EmbedBatch(texts []string) ([][]float32, error)
	Dim() int
	ModelID() string
	Close() error
}
