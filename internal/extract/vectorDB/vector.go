package vectorDB

import (
	"context"
	"errors"

	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
)

// ErrNameCollision is returned when a collection name is already claimed by a
// differently-sourced file. Two uploads may share a collection only when their
// bytes are identical, anything else must surface instead of silently merging.
var ErrNameCollision = errors.New("collection name already bound to a different source file")

type DataProcessor interface {
	// EnsureCollection creates the collection if needed and binds it to the
	// source digest via the registry. A digest mismatch is ErrNameCollision.
	EnsureCollection(ctx context.Context, collectionName string, sourceDigest string) error

	// ExistingIds reports which of the given chunk ids are already stored,
	// so re-ingesting a file never grows the collection.
	ExistingIds(ctx context.Context, collectionName string, ids []string) (map[string]bool, error)

	UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error

	// Query returns up to topK chunk texts ranked best match first. An empty
	// or missing-entry collection yields an empty slice and no error.
	Query(ctx context.Context, collectionName string, vector []float32, topK uint64) ([]string, error)
}
