package retrieval

import (
	"context"

	"datalens/domain/core"
	"datalens/internal/errors"
	"datalens/ports"
)

// Retriever ties the embedder and vector store together: index chunks at
// upload time, look up context at question time.
type Retriever struct {
	embedder ports.Embedder
	store    *VectorStore
	topKMax  int
}

// NewRetriever creates a retriever with a top-k ceiling
func NewRetriever(embedder ports.Embedder, store *VectorStore, topKMax int) *Retriever {
	if topKMax < 1 {
		topKMax = 5
	}
	return &Retriever{embedder: embedder, store: store, topKMax: topKMax}
}

// Index embeds and stores a file's chunks
func (r *Retriever) Index(ctx context.Context, id core.FileID, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}
	vectors, err := r.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return errors.Wrap(err, "failed to embed chunks")
	}
	return r.store.Add(id, chunks, vectors)
}

// Query returns the chunks most relevant to a question, capped at the
// configured top-k ceiling.
func (r *Retriever) Query(ctx context.Context, id core.FileID, question string, k int) ([]Scored, error) {
	if k < 1 || k > r.topKMax {
		k = r.topKMax
	}
	vectors, err := r.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed question")
	}
	return r.store.TopK(id, vectors[0], k)
}
