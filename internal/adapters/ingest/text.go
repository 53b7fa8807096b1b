package ingest

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// TextIngestor parses plain UTF-8 text where each non-blank line holds one
// quote in "body - author" form. Blank lines are skipped; line numbers in
// errors count from 1 and include skipped lines.
type TextIngestor struct {
	extensions extensionSet
}

// NewTextIngestor creates the plain-text format variant.
func NewTextIngestor() *TextIngestor {
	return &TextIngestor{extensions: extensionSet{"txt"}}
}

// Extensions implements ports.QuoteIngestor.
func (g *TextIngestor) Extensions() []string {
	return g.extensions.list()
}

// CanIngest implements ports.QuoteIngestor.
func (g *TextIngestor) CanIngest(path string) bool {
	return g.extensions.contains(path)
}

// Parse implements ports.QuoteIngestor.
func (g *TextIngestor) Parse(ctx context.Context, path string) ([]domain.Quote, error) {
	if !g.CanIngest(path) {
		return nil, domain.NewUnsupportedFormatError(path, pathExtension(path))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewIOError("open", path, err)
	}
	defer func() { _ = f.Close() }()

	quotes, err := parseQuoteLines(path, bufio.NewScanner(f))
	if err != nil {
		return nil, err
	}

	return quotes, nil
}

// parseQuoteLines applies the line grammar shared by the text and PDF
// variants: skip blank lines, split the rest on the first delimiter.
func parseQuoteLines(path string, scanner *bufio.Scanner) ([]domain.Quote, error) {
	var quotes []domain.Quote

	line := 0

	for scanner.Scan() {
		line++

		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		quote, err := splitQuoteLine(path, line, text)
		if err != nil {
			return nil, err
		}

		quotes = append(quotes, quote)
	}

	if err := scanner.Err(); err != nil {
		return nil, domain.NewIOError("read", path, err)
	}

	return quotes, nil
}
