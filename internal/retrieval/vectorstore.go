package retrieval

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"datalens/domain/core"
	"datalens/internal/errors"
)

// Scored is one chunk with its similarity to a query
type Scored struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type entry struct {
	chunks  []string
	vectors [][]float64
}

// VectorStore holds embedded chunks per file for cosine-similarity lookup.
// Safe for concurrent use.
type VectorStore struct {
	mu      sync.RWMutex
	entries map[core.FileID]entry
}

// NewVectorStore creates an empty store
func NewVectorStore() *VectorStore {
	return &VectorStore{entries: make(map[core.FileID]entry)}
}

// Add stores chunks with their vectors under a file ID, replacing any
// previous entry.
func (s *VectorStore) Add(id core.FileID, chunks []string, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.InvalidInput("chunk and vector counts differ")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry{chunks: chunks, vectors: vectors}
	return nil
}

// TopK returns the k chunks most similar to the query vector. When every
// similarity is zero the first k chunks are returned in stored order, so
// a query with no token overlap still yields context.
func (s *VectorStore) TopK(id core.FileID, query []float64, k int) ([]Scored, error) {
	s.mu.RLock()
	ent, found := s.entries[id]
	s.mu.RUnlock()
	if !found {
		return nil, errors.NotFound("context for file " + id.String())
	}
	if k < 1 {
		k = 1
	}
	if k > len(ent.chunks) {
		k = len(ent.chunks)
	}

	scored := make([]Scored, len(ent.chunks))
	anyPositive := false
	for i, vec := range ent.vectors {
		score := cosine(query, vec)
		if score > 0 {
			anyPositive = true
		}
		scored[i] = Scored{Text: ent.chunks[i], Score: core.Round4(score)}
	}

	if !anyPositive {
		return scored[:k], nil
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored[:k], nil
}

// cosine computes cosine similarity, zero for mismatched or degenerate
// vectors.
func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}
