package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
	"github.com/akolanti/InvoiceAPI/internal/extract/chunker"
	"github.com/akolanti/InvoiceAPI/internal/extract/embedding"
	"github.com/akolanti/InvoiceAPI/internal/extract/identity"
	"github.com/akolanti/InvoiceAPI/internal/extract/vectorDB"
)

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".rtf":
		return commonModels.DOCX
	case ".txt":
		return commonModels.TXT
	default:
		return commonModels.ERR
	}
}

func extractText(path string, contentType commonModels.DocType) ([]commonModels.DocPage, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX, commonModels.TXT:
		return extractdocxTxtRtf(path)

	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// SplitPages splits every page of the document into windowed chunks carrying
// their page number and in-page order.
func SplitPages(doc commonModels.Document, maxSize int, overlap int) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, page := range doc.Pages {
		stringChunks := chunker.Split(page.Content, maxSize, overlap)

		for i, text := range stringChunks {
			allChunks = append(allChunks, commonModels.DocChunk{
				Doc:            doc,
				Chunk:          text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
			})
		}
	}

	return allChunks
}

// DedupChunks stamps each chunk with its content id and drops duplicate
// content in first-occurrence order. The returned list is what gets embedded
// and stored.
func DedupChunks(chunks []commonModels.DocChunk) []commonModels.DocChunk {
	return identity.Dedup(identity.Stamp(chunks))
}

// BatchIngest embeds and upserts chunks into the document's collection in
// batches, skipping any chunk whose identity is already stored. Re-ingesting
// the same file is a no-op, the collection's entry count stays put.
func BatchIngest(ctx context.Context, chunks []commonModels.DocChunk, vectorDatabase vectorDB.DataProcessor, embedder embedding.Embedder) error {
	if len(chunks) == 0 {
		return nil
	}
	collectionName := chunks[0].Doc.CollectionName

	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ChunkId
	}
	present, err := vectorDatabase.ExistingIds(ctx, collectionName, ids)
	if err != nil {
		return fmt.Errorf("checking stored chunk ids: %w", err)
	}

	var fresh []commonModels.DocChunk
	for _, c := range chunks {
		if !present[c.ChunkId] {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		logger.Debug("All chunks already stored", "collection", collectionName)
		return nil
	}

	batchSize := 100
	for i := 0; i < len(fresh); i += batchSize {
		end := i + batchSize
		if end > len(fresh) {
			end = len(fresh)
		}

		currentBatch := fresh[i:end]

		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Chunk
		}

		logger.Debug("Starting embedding call", "batch length", len(currentBatch))
		vectors, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		err = vectorDatabase.UpsertBatch(ctx, collectionName, currentBatch, vectors)
		if err != nil {
			return fmt.Errorf("upserting to qdrant failed: %w", err)
		}
	}

	return nil
}
