package extract_test

import (
	"context"
	"fmt"

	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
	"github.com/akolanti/InvoiceAPI/internal/extract/llm"
	"github.com/akolanti/InvoiceAPI/internal/extract/vectorDB"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	OnEnsureCollection func(ctx context.Context, name string, digest string) error
	OnExistingIds      func(ctx context.Context, name string, ids []string) (map[string]bool, error)
	OnUpsertBatch      func(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error
	OnQuery            func(ctx context.Context, name string, vector []float32, topK uint64) ([]string, error)
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context, name string, digest string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name, digest)
	}
	return nil
}

func (m *MockVectorDB) ExistingIds(ctx context.Context, name string, ids []string) (map[string]bool, error) {
	if m.OnExistingIds != nil {
		return m.OnExistingIds(ctx, name, ids)
	}
	return map[string]bool{}, nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, name, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) Query(ctx context.Context, name string, vector []float32, topK uint64) ([]string, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, name, vector, topK)
	}
	return []string{"default context"}, nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	// Return dummy vectors matching chunk count
	return make([][]float32, len(chunks)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnExtract func(ctx context.Context, query string, contextText string) (llm.ExtractedFields, error)
}

func (m *MockLLM) Extract(ctx context.Context, query string, contextText string) (llm.ExtractedFields, error) {
	if m.OnExtract != nil {
		return m.OnExtract(ctx, query, contextText)
	}
	return llm.ExtractedFields{
		InvoiceItems: "mocked items",
		InvoiceDate:  "mocked date",
		BusinessName: "mocked vendor",
		TotalAmount:  "mocked total",
	}, nil
}

// memoryVectorDB is a fully working in-memory stand-in used by the
// idempotency and end-to-end scenarios. It keeps insertion order so queries
// are deterministic.
type memoryVectorDB struct {
	registry map[string]string            //collection -> source digest
	order    map[string][]string          //collection -> ids in insert order
	content  map[string]map[string]string //collection -> id -> chunk text
}

func newMemoryVectorDB() *memoryVectorDB {
	return &memoryVectorDB{
		registry: make(map[string]string),
		order:    make(map[string][]string),
		content:  make(map[string]map[string]string),
	}
}

func (m *memoryVectorDB) EnsureCollection(ctx context.Context, name string, digest string) error {
	if stored, ok := m.registry[name]; ok {
		if stored != digest {
			return fmt.Errorf("collection %q: %w", name, vectorDB.ErrNameCollision)
		}
		return nil
	}
	m.registry[name] = digest
	if m.content[name] == nil {
		m.content[name] = make(map[string]string)
	}
	return nil
}

func (m *memoryVectorDB) ExistingIds(ctx context.Context, name string, ids []string) (map[string]bool, error) {
	present := make(map[string]bool)
	for _, id := range ids {
		if _, ok := m.content[name][id]; ok {
			present[id] = true
		}
	}
	return present, nil
}

func (m *memoryVectorDB) UpsertBatch(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	for _, c := range chunks {
		if _, ok := m.content[name][c.ChunkId]; !ok {
			m.order[name] = append(m.order[name], c.ChunkId)
		}
		m.content[name][c.ChunkId] = c.Chunk
	}
	return nil
}

func (m *memoryVectorDB) Query(ctx context.Context, name string, vector []float32, topK uint64) ([]string, error) {
	var matches []string
	for _, id := range m.order[name] {
		if uint64(len(matches)) >= topK {
			break
		}
		matches = append(matches, m.content[name][id])
	}
	return matches, nil
}

func (m *memoryVectorDB) entryCount(name string) int {
	return len(m.order[name])
}
