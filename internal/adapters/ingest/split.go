package ingest

import (
	"errors"
	"strings"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// quoteDelimiter separates the body from the author in line-oriented formats.
const quoteDelimiter = "-"

// splitQuoteLine decomposes a `<body> - <author>` line into a Quote.
// The split happens at the FIRST hyphen so that authors containing hyphens
// survive intact; both halves are trimmed and must be non-empty. The line
// argument must already be known non-blank; lineNum is 1-based and used only
// for error context.
func splitQuoteLine(path string, lineNum int, line string) (domain.Quote, error) {
	body, author, found := strings.Cut(line, quoteDelimiter)
	if !found {
		return domain.Quote{}, domain.NewMalformedRecordError(path, lineNum,
			"missing \"-\" delimiter between body and author")
	}

	quote, err := domain.NewQuote(body, author)
	if err != nil {
		// Re-attach position context lost by the constructor.
		var malformed *domain.MalformedRecordError
		if errors.As(err, &malformed) {
			return domain.Quote{}, domain.NewMalformedRecordError(path, lineNum, malformed.Reason)
		}

		return domain.Quote{}, err
	}

	return quote, nil
}
