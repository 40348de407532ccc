package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/akolanti/InvoiceAPI/internal/adapter/utils"
	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
	"github.com/akolanti/InvoiceAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Ingestion")

// matches the " (2)" style suffix browsers append to duplicate downloads
var dupSuffix = regexp.MustCompile(`\s\(\d+\)`)

// CleanFileName strips "(number)" disambiguation suffixes so "Invoice (2).pdf"
// maps onto the same collection name as "Invoice.pdf". The registry decides
// whether that mapping is a legal re-upload or a collision.
func CleanFileName(filename string) string {
	return dupSuffix.ReplaceAllString(filename, "")
}

// ParseUpload turns the materialized upload into a parsed Document. The temp
// copy at path is removed on every exit, parse failure included.
func ParseUpload(path string, name string) (commonModels.Document, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Error("Error removing temp file", "path", path, "error", err)
		}
	}()

	raw, err := os.ReadFile(path)
	if err != nil {
		return commonModels.Document{}, fmt.Errorf("reading upload: %w", err)
	}
	digest := sha256.Sum256(raw)

	docType := getDocType(name)
	if docType == commonModels.ERR {
		return commonModels.Document{}, fmt.Errorf("unsupported file type: %s", name)
	}

	pages, err := extractText(path, docType)
	if err != nil {
		return commonModels.Document{}, fmt.Errorf("extracting document content: %w", err)
	}

	logger.Debug("Parsed document", "filename", name, "pages", len(pages))

	return commonModels.Document{
		Id:                  utils.GetNewUUID(),
		Name:                name,
		CollectionName:      CleanFileName(name),
		SourceDigest:        hex.EncodeToString(digest[:]),
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
		Pages:               pages,
	}, nil
}
