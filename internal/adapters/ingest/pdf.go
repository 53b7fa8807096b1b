package ingest

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
	"github.com/jsamuelsen/quote-ingest/internal/ports"
)

// PDFIngestor parses PDF documents by delegating text extraction to a
// ports.TextExtractor and then applying the shared line grammar to the
// extracted text.
type PDFIngestor struct {
	extensions extensionSet
	extractor  ports.TextExtractor
}

// NewPDFIngestor creates the PDF format variant backed by the given
// extractor.
func NewPDFIngestor(extractor ports.TextExtractor) *PDFIngestor {
	return &PDFIngestor{
		extensions: extensionSet{"pdf"},
		extractor:  extractor,
	}
}

// Extensions implements ports.QuoteIngestor.
func (g *PDFIngestor) Extensions() []string {
	return g.extensions.list()
}

// CanIngest implements ports.QuoteIngestor.
func (g *PDFIngestor) CanIngest(path string) bool {
	return g.extensions.contains(path)
}

// Parse implements ports.QuoteIngestor.
func (g *PDFIngestor) Parse(ctx context.Context, path string) ([]domain.Quote, error) {
	if !g.CanIngest(path) {
		return nil, domain.NewUnsupportedFormatError(path, pathExtension(path))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Surface missing files as IO errors before the extractor runs so the
	// caller can tell a bad path apart from a broken document.
	if _, err := os.Stat(path); err != nil {
		return nil, domain.NewIOError("stat", path, err)
	}

	text, err := g.extractor.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}

	quotes, err := parseQuoteLines(path, bufio.NewScanner(strings.NewReader(text)))
	if err != nil {
		return nil, err
	}

	return quotes, nil
}
