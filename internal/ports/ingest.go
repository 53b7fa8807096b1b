// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrUnsupportedFormat, ErrMalformedRecord, etc.)
//   - Methods represent business operations, not CRUD operations
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// QuoteIngestor parses quote records out of a file in one specific format.
// Each implementation declares the extension set it claims; the dispatcher
// routes a path to the single implementation whose set contains the path's
// extension.
type QuoteIngestor interface {
	// Extensions returns the extensions this ingestor claims, lowercase and
	// without the leading dot. The set is fixed after construction.
	Extensions() []string

	// CanIngest reports whether the path's extension (the substring after the
	// final dot, compared case-insensitively) is in the declared set.
	// Pure - it never touches the filesystem.
	CanIngest(path string) bool

	// Parse reads the file at path and returns its quote records in source
	// order. It fails with domain.ErrUnsupportedFormat when the extension is
	// not claimed, domain.ErrIO when the file cannot be read, and
	// domain.ErrMalformedRecord when any record does not decompose into a
	// body and an author. A single malformed record aborts the whole parse;
	// partial results are never returned.
	Parse(ctx context.Context, path string) ([]domain.Quote, error)
}

// TextExtractor converts a binary document into its plain-text representation.
// The PDF ingestor depends on this capability rather than on a concrete tool,
// so the extraction backend (external pdftotext subprocess, in-process
// library) can be swapped via configuration.
type TextExtractor interface {
	// ExtractText returns the plain text of the document at path.
	// Returns domain.ErrExtractionFailed if the extractor cannot run, exits
	// non-zero, or exceeds its configured timeout. Implementations must
	// respect context cancellation.
	ExtractText(ctx context.Context, path string) (string, error)
}

// QuoteRepository stores ingested quotes for later serving.
type QuoteRepository interface {
	// Append adds quotes extracted from the named source, preserving order.
	Append(ctx context.Context, source string, quotes []domain.Quote) error

	// List returns up to limit quotes starting at offset, in insertion order,
	// plus the total number stored.
	List(ctx context.Context, offset, limit int) ([]domain.Quote, int, error)

	// Random returns one stored quote chosen uniformly at random.
	// Returns domain.ErrNotFound if the repository is empty.
	Random(ctx context.Context) (domain.Quote, error)

	// Count returns the number of stored quotes.
	Count(ctx context.Context) (int, error)
}

// FileFetcher retrieves a remote quote file and makes it available on the
// local filesystem so it can be dispatched by extension like any other file.
type FileFetcher interface {
	// Fetch downloads the file at url to a temporary path that preserves the
	// URL's extension, and returns that path. The caller owns the file and
	// removes it when done. Returns domain.ErrUnavailable when the remote
	// host cannot be reached or responds with an error status.
	Fetch(ctx context.Context, url string) (string, error)
}
