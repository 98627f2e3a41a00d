// Package ports declares the interfaces the application core depends on.
// Adapters implement them; the core never imports an adapter.
package ports

import "context"

// Embedder turns text into fixed-dimension vectors for similarity search.
// All vectors from one implementation share the same dimension.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}
