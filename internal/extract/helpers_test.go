package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
	"github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
	"github.com/akolanti/InvoiceAPI/internal/extract/llm"
	"github.com/akolanti/InvoiceAPI/internal/extract/vectorDB"
	"github.com/akolanti/InvoiceAPI/pkg/logger_i"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type stubVectorStore struct {
	queryErr error
}

func (s *stubVectorStore) EnsureCollection(ctx context.Context, name string, digest string) error {
	return nil
}

func (s *stubVectorStore) ExistingIds(ctx context.Context, name string, ids []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (s *stubVectorStore) UpsertBatch(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	return nil
}

func (s *stubVectorStore) Query(ctx context.Context, name string, vector []float32, topK uint64) ([]string, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return []string{"Total: $42.00"}, nil
}

type stubEmbedder struct{}

func (s *stubEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{0.1}, nil
}

func (s *stubEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{0.1}
	}
	return vectors, nil
}

type stubLLM struct{}

func (s *stubLLM) Extract(ctx context.Context, query string, contextText string) (llm.ExtractedFields, error) {
	return llm.ExtractedFields{
		InvoiceItems: "1x Widget",
		InvoiceDate:  "2024-01-31",
		BusinessName: "Acme",
		TotalAmount:  "$42.00",
	}, nil
}

func TestFailureKind(t *testing.T) {
	tests := []struct {
		name  string
		stage jobModel.InternalStatus
		err   error
		want  jobModel.FailureKind
	}{
		{
			name:  "Wrapped_Context_Deadline",
			stage: jobModel.Prompted,
			err:   fmt.Errorf("calling model: %w", context.DeadlineExceeded),
			want:  jobModel.TimeoutFailure,
		},
		{
			name:  "Grpc_Deadline_From_Vector_Store",
			stage: jobModel.Retrieved,
			err:   status.Error(codes.DeadlineExceeded, "context deadline exceeded"),
			want:  jobModel.TimeoutFailure,
		},
		{
			name:  "Grpc_Unavailable_Stays_Stage_Kind",
			stage: jobModel.Retrieved,
			err:   status.Error(codes.Unavailable, "connection refused"),
			want:  jobModel.RetrievalFailure,
		},
		{
			name:  "Name_Collision",
			stage: jobModel.Stored,
			err:   fmt.Errorf("ensuring collection: %w", vectorDB.ErrNameCollision),
			want:  jobModel.NameCollision,
		},
		{
			name:  "Parse_Stage_Default",
			stage: jobModel.Parsed,
			err:   errors.New("unsupported file type"),
			want:  jobModel.ParseFailure,
		},
		{
			name:  "Store_Stage_Default",
			stage: jobModel.Stored,
			err:   errors.New("embedding batch failed"),
			want:  jobModel.EmbeddingFailure,
		},
		{
			name:  "Prompt_Stage_Default",
			stage: jobModel.Prompted,
			err:   errors.New("structured output left required fields empty"),
			want:  jobModel.ModelFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failureKind(tt.stage, tt.err); got != tt.want {
				t.Errorf("failureKind(%s) got %s, want %s", tt.stage, got, tt.want)
			}
		})
	}
}

func TestExtractFile_StageProgression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.txt")
	if err := os.WriteFile(path, []byte("Item: 1x Widget\nTotal: $42.00\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := &service{
		vectorDB:    &stubVectorStore{},
		llmProvider: &stubLLM{},
		embedder:    &stubEmbedder{},
		logger:      logger_i.NewLogger("Extraction Service"),
	}

	var visited []jobModel.InternalStatus
	progress := func(stage jobModel.InternalStatus) {
		visited = append(visited, stage)
	}

	row, failure := s.extractFile(context.Background(), jobModel.BatchFile{Name: "invoice.txt", Path: path}, "total amount", progress)
	if failure != nil {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if row.TotalAmount != "$42.00" {
		t.Errorf("result row total got %q", row.TotalAmount)
	}

	wantOrder := []jobModel.InternalStatus{
		jobModel.Parsed,
		jobModel.Chunked,
		jobModel.Deduplicated,
		jobModel.Stored,
		jobModel.Retrieved,
		jobModel.Prompted,
		jobModel.Tabulated,
	}
	if len(visited) != len(wantOrder) {
		t.Fatalf("stage count got %d, want %d: %v", len(visited), len(wantOrder), visited)
	}
	for i, stage := range wantOrder {
		if visited[i] != stage {
			t.Errorf("stage %d got %s, want %s", i, visited[i], stage)
		}
	}
}

func TestExtractFile_StopsAtFailingStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.txt")
	if err := os.WriteFile(path, []byte("Total: $42.00\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := &service{
		vectorDB:    &stubVectorStore{queryErr: errors.New("collection lookup failed")},
		llmProvider: &stubLLM{},
		embedder:    &stubEmbedder{},
		logger:      logger_i.NewLogger("Extraction Service"),
	}

	var visited []jobModel.InternalStatus
	progress := func(stage jobModel.InternalStatus) {
		visited = append(visited, stage)
	}

	_, failure := s.extractFile(context.Background(), jobModel.BatchFile{Name: "invoice.txt", Path: path}, "total amount", progress)
	if failure == nil {
		t.Fatal("expected the retrieve stage to fail")
	}
	if failure.Stage != jobModel.Retrieved {
		t.Errorf("failure stage got %s, want %s", failure.Stage, jobModel.Retrieved)
	}

	last := visited[len(visited)-1]
	if last != jobModel.Stored {
		t.Errorf("last cleared stage got %s, want %s", last, jobModel.Stored)
	}
}
