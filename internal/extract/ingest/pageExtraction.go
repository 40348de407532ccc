package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

func extractPDF(path string) ([]commonModels.DocPage, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file", "path", path)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []commonModels.DocPage
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "null page", i)
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			//a single unreadable page shouldn't void the rest of the file
			logger.Error("Error parsing page content", "page", i, "Error", err)
			continue
		}

		pages = append(pages, commonModels.DocPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// extractdocxTxtRtf reads a .docx, .rtf or plaintext file and returns the
// content as a single page.
func extractdocxTxtRtf(path string) ([]commonModels.DocPage, error) {

	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc", "path", path)
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}

	return []commonModels.DocPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

// protectExtract guards against pdf pages whose text stream hangs the parser.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract timed out")
		return "", errors.New("timeout")
	}
}
