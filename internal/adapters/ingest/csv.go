package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// Header column names required in CSV sources. Matching is exact and
// case-sensitive.
const (
	csvColumnBody   = "body"
	csvColumnAuthor = "author"
)

// CSVIngestor parses delimited tables whose header row names a body column
// and an author column. Row order is preserved; any malformed row aborts the
// whole parse so callers never receive a silently truncated list.
type CSVIngestor struct {
	extensions extensionSet
}

// NewCSVIngestor creates the CSV format variant.
func NewCSVIngestor() *CSVIngestor {
	return &CSVIngestor{extensions: extensionSet{"csv"}}
}

// Extensions implements ports.QuoteIngestor.
func (g *CSVIngestor) Extensions() []string {
	return g.extensions.list()
}

// CanIngest implements ports.QuoteIngestor.
func (g *CSVIngestor) CanIngest(path string) bool {
	return g.extensions.contains(path)
}

// Parse implements ports.QuoteIngestor.
func (g *CSVIngestor) Parse(ctx context.Context, path string) ([]domain.Quote, error) {
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

	reader := csv.NewReader(f)
	// Column lookup is positional; ragged rows are diagnosed against the
	// required indexes below rather than against the header width.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewMalformedRecordError(path, 0, "missing header row")
	}

	if err != nil {
		return nil, domain.NewMalformedRecordError(path, 1, err.Error())
	}

	bodyIdx, authorIdx := -1, -1

	for i, name := range header {
		switch name {
		case csvColumnBody:
			bodyIdx = i
		case csvColumnAuthor:
			authorIdx = i
		}
	}

	if bodyIdx < 0 {
		return nil, domain.NewMalformedRecordError(path, 1,
			fmt.Sprintf("missing required column %q", csvColumnBody))
	}

	if authorIdx < 0 {
		return nil, domain.NewMalformedRecordError(path, 1,
			fmt.Sprintf("missing required column %q", csvColumnAuthor))
	}

	var quotes []domain.Quote

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, domain.NewMalformedRecordError(path, line, err.Error())
		}

		if len(record) <= bodyIdx || len(record) <= authorIdx {
			return nil, domain.NewMalformedRecordError(path, line,
				fmt.Sprintf("row has %d fields, need body and author columns", len(record)))
		}

		quote, err := domain.NewQuote(record[bodyIdx], record[authorIdx])
		if err != nil {
			var malformed *domain.MalformedRecordError
			if errors.As(err, &malformed) {
				return nil, domain.NewMalformedRecordError(path, line, malformed.Reason)
			}

			return nil, err
		}

		quotes = append(quotes, quote)
	}

	return quotes, nil
}
