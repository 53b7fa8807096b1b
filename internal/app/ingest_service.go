// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
	"github.com/jsamuelsen/quote-ingest/internal/ports"
)

// defaultBatchWorkers bounds concurrent file parses during directory ingestion.
const defaultBatchWorkers = 4

// IngestReport summarizes one successful ingestion.
type IngestReport struct {
	// Source is the path or URL the quotes came from.
	Source string

	// Quotes is the number of records stored.
	Quotes int
}

// FailedSource records one source that could not be ingested during a batch.
type FailedSource struct {
	Source string
	Err    error
}

// BatchReport summarizes a directory ingestion. A batch succeeds per file:
// one bad file is reported in Failed without blocking its siblings.
type BatchReport struct {
	Ingested []IngestReport
	Failed   []FailedSource
}

// TotalQuotes returns the number of quotes stored across the whole batch.
func (r BatchReport) TotalQuotes() int {
	total := 0
	for _, report := range r.Ingested {
		total += report.Quotes
	}

	return total
}

// IngestService orchestrates quote ingestion use cases.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type IngestService struct {
	dispatcher   ports.QuoteIngestor
	repo         ports.QuoteRepository
	fetcher      ports.FileFetcher
	executor     *Executor
	logger       *slog.Logger
	batchWorkers int
}

// IngestServiceConfig contains configuration for the ingest service.
type IngestServiceConfig struct {
	// Dispatcher routes paths to format-specific ingestors.
	Dispatcher ports.QuoteIngestor

	// Repository stores ingested quotes.
	Repository ports.QuoteRepository

	// Fetcher downloads remote sources. Optional; when nil, IngestURL
	// returns domain.ErrUnavailable.
	Fetcher ports.FileFetcher

	// BatchWorkers bounds concurrency during directory ingestion.
	// Defaults to 4.
	BatchWorkers int

	Logger *slog.Logger
}

// NewIngestService creates a new ingest service with the provided dependencies.
func NewIngestService(cfg IngestServiceConfig) *IngestService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := cfg.BatchWorkers
	if workers <= 0 {
		workers = defaultBatchWorkers
	}

	return &IngestService{
		dispatcher:   cfg.Dispatcher,
		repo:         cfg.Repository,
		fetcher:      cfg.Fetcher,
		executor:     NewExecutor(logger),
		logger:       logger,
		batchWorkers: workers,
	}
}

// CanIngest reports whether the path's extension has a registered ingestor.
func (s *IngestService) CanIngest(path string) bool {
	return s.dispatcher.CanIngest(path)
}

// SupportedExtensions returns the extensions the dispatcher routes.
func (s *IngestService) SupportedExtensions() []string {
	return s.dispatcher.Extensions()
}

// ingestInput carries a source label separate from the local path so remote
// files are reported under their URL rather than their temp-file name.
type ingestInput struct {
	source string
	path   string
}

// IngestFile parses the file at path and stores its quotes.
// The operation is transactional: nothing is stored unless the whole file
// parses cleanly.
func (s *IngestService) IngestFile(ctx context.Context, path string) (IngestReport, error) {
	return s.ingest(ctx, ingestInput{source: path, path: path})
}

// IngestURL downloads the file at url, parses it, and stores its quotes.
// The downloaded file is removed afterwards regardless of outcome.
func (s *IngestService) IngestURL(ctx context.Context, url string) (IngestReport, error) {
	if s.fetcher == nil {
		return IngestReport{}, domain.NewUnavailableError("fetcher", "remote ingestion is not configured")
	}

	local, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return IngestReport{}, err
	}

	defer func() {
		if removeErr := os.Remove(local); removeErr != nil {
			s.logger.WarnContext(ctx, "failed to remove downloaded file",
				slog.String("path", local),
				slog.Any("error", removeErr),
			)
		}
	}()

	return s.ingest(ctx, ingestInput{source: url, path: local})
}

// ingest runs one source through the transactional pattern.
func (s *IngestService) ingest(ctx context.Context, input ingestInput) (IngestReport, error) {
	op := Operation[ingestInput, []domain.Quote, []domain.Quote, IngestReport]{
		Name: "ingest_source",
		Validate: func(_ context.Context, in ingestInput) error {
			if in.path == "" {
				return domain.NewValidationError("path", "must not be empty")
			}

			if !s.dispatcher.CanIngest(in.path) {
				return domain.NewUnsupportedFormatError(in.path, pathExtension(in.path))
			}

			return nil
		},
		Perform: func(ctx context.Context, in ingestInput) ([]domain.Quote, error) {
			return s.dispatcher.Parse(ctx, in.path)
		},
		Verify: func(_ context.Context, in ingestInput, parsed []domain.Quote) ([]domain.Quote, error) {
			for i, quote := range parsed {
				if quote.Body == "" || quote.Author == "" {
					return nil, domain.NewMalformedRecordError(in.path, i+1, "ingestor produced an incomplete record")
				}
			}

			return parsed, nil
		},
		Archive: func(ctx context.Context, in ingestInput, quotes []domain.Quote) error {
			return s.repo.Append(ctx, in.source, quotes)
		},
		Respond: func(_ context.Context, in ingestInput, quotes []domain.Quote) (IngestReport, error) {
			return IngestReport{Source: in.source, Quotes: len(quotes)}, nil
		},
	}

	report, err := Execute(ctx, s.executor, op, input)
	if err != nil {
		return IngestReport{}, err
	}

	s.logger.InfoContext(ctx, "source ingested",
		slog.String("source", report.Source),
		slog.Int("quotes", report.Quotes),
	)

	return report, nil
}

// IngestDirectory walks dir recursively and ingests every file whose
// extension has a registered ingestor. Files run concurrently with bounded
// parallelism; each file is still transactional on its own, and a failing
// file does not block its siblings.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string) (BatchReport, error) {
	paths, err := s.collectSupportedFiles(dir)
	if err != nil {
		return BatchReport{}, err
	}

	fns := make([]func(context.Context) (IngestReport, error), len(paths))
	for i, path := range paths {
		fns[i] = func(ctx context.Context) (IngestReport, error) {
			return s.IngestFile(ctx, path)
		}
	}

	results := ParallelPartialLimit(ctx, s.batchWorkers, fns...)

	var batch BatchReport

	for i, result := range results {
		if result.Err != nil {
			batch.Failed = append(batch.Failed, FailedSource{Source: paths[i], Err: result.Err})

			continue
		}

		batch.Ingested = append(batch.Ingested, result.Value)
	}

	s.logger.InfoContext(ctx, "directory ingested",
		slog.String("dir", dir),
		slog.Int("succeeded", len(batch.Ingested)),
		slog.Int("failed", len(batch.Failed)),
		slog.Int("quotes", batch.TotalQuotes()),
	)

	return batch, nil
}

// collectSupportedFiles lists dispatchable files under dir in a stable order.
func (s *IngestService) collectSupportedFiles(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() || !s.dispatcher.CanIngest(path) {
			return nil
		}

		paths = append(paths, path)

		return nil
	})
	if err != nil {
		return nil, domain.NewIOError("walk", dir, err)
	}

	sort.Strings(paths)

	return paths, nil
}

// ListQuotes returns a page of stored quotes plus the total count.
func (s *IngestService) ListQuotes(ctx context.Context, offset, limit int) ([]domain.Quote, int, error) {
	return s.repo.List(ctx, offset, limit)
}

// RandomQuote returns one stored quote chosen at random.
func (s *IngestService) RandomQuote(ctx context.Context) (domain.Quote, error) {
	quote, err := s.repo.Random(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.ErrorContext(ctx, "failed to pick random quote", slog.Any("error", err))
		}

		return domain.Quote{}, err
	}

	return quote, nil
}

// QuoteCount returns the number of stored quotes.
func (s *IngestService) QuoteCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// pathExtension mirrors the dispatcher's extension rule for error reporting.
func pathExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}

	return strings.ToLower(ext[1:])
}
