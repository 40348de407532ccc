package embedding

import "context"

// Embedder is the text -> vector capability. The same model and dimension
// must serve both stored chunks and queries or similarity scores are
// meaningless, so one Embedder instance backs a whole pipeline run.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
