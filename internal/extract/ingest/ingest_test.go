package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
)

// --- Mocks for BatchIngest ---

type mockEmbedder struct {
	batchFunc func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	return m.batchFunc(ctx, chunks)
}

type mockVectorDB struct {
	existingFunc func(ctx context.Context, coll string, ids []string) (map[string]bool, error)
	upsertFunc   func(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error
}

func (m *mockVectorDB) EnsureCollection(ctx context.Context, name string, digest string) error {
	return nil
}
func (m *mockVectorDB) ExistingIds(ctx context.Context, coll string, ids []string) (map[string]bool, error) {
	if m.existingFunc != nil {
		return m.existingFunc(ctx, coll, ids)
	}
	return map[string]bool{}, nil
}
func (m *mockVectorDB) UpsertBatch(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	return m.upsertFunc(ctx, coll, chunks, vectors)
}
func (m *mockVectorDB) Query(ctx context.Context, coll string, v []float32, k uint64) ([]string, error) {
	return nil, nil
}

// --- Unit Tests ---

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Invoice.pdf", "Invoice.pdf"},
		{"Invoice (1).pdf", "Invoice.pdf"},
		{"Invoice (2).pdf", "Invoice.pdf"},
		{"Invoice (12).pdf", "Invoice.pdf"},
		{"Receipt (3) March (4).pdf", "Receipt March.pdf"},
		{"(1).pdf", "(1).pdf"}, //no leading space, not a duplicate suffix
	}

	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.txt", commonModels.TXT},
		{"image.png", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestParseUpload_RemovesTempFileOnSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.txt")
	if err := os.WriteFile(path, []byte("Total: $42.00"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseUpload(path, "invoice.txt")
	if err != nil {
		t.Fatalf("ParseUpload failed: %v", err)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Content != "Total: $42.00" {
		t.Errorf("unexpected pages: %+v", doc.Pages)
	}
	if doc.CollectionName != "invoice.txt" {
		t.Errorf("collection name got %q", doc.CollectionName)
	}
	if doc.SourceDigest == "" {
		t.Error("source digest should be set")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file should be removed after a successful parse")
	}
}

func TestParseUpload_RemovesTempFileOnParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseUpload(path, "broken.pdf")
	if err == nil {
		t.Fatal("expected a parse failure for corrupt pdf bytes")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file must be removed even when parsing fails")
	}
}

func TestParseUpload_UnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, []byte{0x89, 0x50}, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseUpload(path, "photo.png"); err == nil {
		t.Error("expected an error for unsupported file types")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file must be removed for unsupported types too")
	}
}

func TestSplitPages(t *testing.T) {
	doc := commonModels.Document{
		Id:             "doc-1",
		CollectionName: "invoice.pdf",
		Pages: []commonModels.DocPage{
			{Number: 1, Content: "Page one content."},
			{Number: 2, Content: "Page two content."},
			{Number: 3, Content: ""},
		},
	}

	chunks := SplitPages(doc, 1000, 200)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks (one per non-empty page), got %d", len(chunks))
	}
	if chunks[0].Doc.Id != "doc-1" || chunks[0].PageNum != 1 {
		t.Errorf("Metadata mismatch in chunk 0: %+v", chunks[0])
	}
}

func TestDedupChunks_AcrossPages(t *testing.T) {
	doc := commonModels.Document{
		Pages: []commonModels.DocPage{
			{Number: 1, Content: "Same footer text"},
			{Number: 2, Content: "Same footer text"},
		},
	}

	chunks := DedupChunks(SplitPages(doc, 1000, 200))
	if len(chunks) != 1 {
		t.Errorf("duplicate page content should collapse to one chunk, got %d", len(chunks))
	}
	if chunks[0].ChunkId == "" {
		t.Error("chunks should leave DedupChunks with their identity stamped")
	}
}

func TestBatchIngest(t *testing.T) {
	ctx := context.Background()
	chunks := make([]commonModels.DocChunk, 150) // Should trigger 2 batches (100 + 50)
	for i := range chunks {
		chunks[i] = commonModels.DocChunk{
			ChunkId: fmt.Sprintf("id-%d", i),
			Chunk:   fmt.Sprintf("line item %d", i),
			Doc:     commonModels.Document{CollectionName: "invoice.pdf"},
		}
	}

	callCount := 0
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			callCount++
			return nil
		},
	}

	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(ctx, chunks, vDB, emb)

	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}

	if callCount != 2 {
		t.Errorf("Expected 2 batches to be upserted, got %d", callCount)
	}
}

func TestBatchIngest_SkipsStoredIds(t *testing.T) {
	chunks := []commonModels.DocChunk{
		{ChunkId: "id-0", Chunk: "a", Doc: commonModels.Document{CollectionName: "invoice.pdf"}},
		{ChunkId: "id-1", Chunk: "b", Doc: commonModels.Document{CollectionName: "invoice.pdf"}},
	}

	upserts := 0
	vDB := &mockVectorDB{
		existingFunc: func(ctx context.Context, coll string, ids []string) (map[string]bool, error) {
			return map[string]bool{"id-0": true, "id-1": true}, nil
		},
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			upserts++
			return nil
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	if err := BatchIngest(context.Background(), chunks, vDB, emb); err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}
	if upserts != 0 {
		t.Errorf("re-ingesting stored chunks must not upsert, got %d upserts", upserts)
	}
}

func TestBatchIngest_Error(t *testing.T) {
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, coll string, c []commonModels.DocChunk, v [][]float32) error {
			return errors.New("upsert failed")
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(context.Background(), []commonModels.DocChunk{{ChunkId: "id", Chunk: "hi"}}, vDB, emb)
	if err == nil {
		t.Error("Expected error from BatchIngest, got nil")
	}
}
