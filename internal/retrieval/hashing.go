package retrieval

import (
	"context"
	"hash/fnv"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DefaultEmbeddingDim is the hashed vector dimension
const DefaultEmbeddingDim = 256

var embedTokenPattern = regexp.MustCompile(`[a-z0-9_]{2,}`)

// HashingEmbedder maps text to fixed-dimension vectors by feature hashing
// word tokens. Deterministic and dependency-free; stands in wherever no
// external embedding service is configured.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder creates an embedder with the given dimension
func NewHashingEmbedder(dim int) *HashingEmbedder {
	if dim < 1 {
		dim = DefaultEmbeddingDim
	}
	return &HashingEmbedder{dim: dim}
}

// EmbedTexts hashes each text's tokens into a normalized vector
func (e *HashingEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *HashingEmbedder) embed(text string) []float64 {
	vec := make([]float64, e.dim)
	for _, tok := range embedTokenPattern.FindAllString(strings.ToLower(text), -1) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dim]++
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}
