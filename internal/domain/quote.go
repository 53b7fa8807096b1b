// Package domain contains core business entities and rules.
package domain

import (
	"fmt"
	"strings"
)

// Quote represents a quotation with its author, extracted from a source file.
// This is a domain entity - it has no knowledge of file formats or transports.
type Quote struct {
	// Body is the text of the quote.
	Body string

	// Author is who said or wrote the quote.
	Author string
}

// NewQuote constructs a Quote from raw body and author strings.
// Both fields are trimmed of surrounding whitespace; a field that trims to
// empty means the source record did not decompose into a valid quote, so the
// constructor returns a malformed-record error rather than a partial entity.
func NewQuote(body, author string) (Quote, error) {
	body = strings.TrimSpace(body)
	author = strings.TrimSpace(author)

	if body == "" {
		return Quote{}, NewMalformedRecordError("", 0, "empty quote body")
	}

	if author == "" {
		return Quote{}, NewMalformedRecordError("", 0, "empty quote author")
	}

	return Quote{Body: body, Author: author}, nil
}

// String renders the quote in its canonical textual form.
func (q Quote) String() string {
	return fmt.Sprintf("%q - %s", q.Body, q.Author)
}
