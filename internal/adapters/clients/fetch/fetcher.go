// Package fetch downloads remote quote files to the local filesystem so they
// can be dispatched by extension exactly like local files. It translates
// transport failures into domain errors, keeping HTTP details out of the
// application layer.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"

	"github.com/jsamuelsen/quote-ingest/internal/adapters/clients"
	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// downstreamName identifies the remote feed in error messages and logs.
const downstreamName = "quote-feed"

// defaultMaxBytes caps a single download. Quote files are small; anything
// beyond this is a misconfigured URL, not a quote source.
const defaultMaxBytes int64 = 32 << 20

// FetcherConfig contains configuration for the file fetcher.
type FetcherConfig struct {
	// Client is the instrumented HTTP client used for downloads.
	Client *clients.Client

	// Dir is where downloaded files land. Defaults to os.TempDir().
	Dir string

	// MaxBytes caps the size of a single download. Defaults to 32 MiB.
	MaxBytes int64

	// Logger is the structured logger. Defaults to slog.Default() if nil.
	Logger *slog.Logger
}

// Fetcher implements ports.FileFetcher over HTTP(S).
type Fetcher struct {
	client   *clients.Client
	dir      string
	maxBytes int64
	logger   *slog.Logger
}

// NewFetcher creates a new file fetcher adapter.
// Panics if Client is nil.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Client == nil {
		panic("Fetcher: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dir := cfg.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	return &Fetcher{
		client:   cfg.Client,
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "fetch.Fetcher")),
	}
}

// Fetch implements ports.FileFetcher.
// The temporary file keeps the URL path's extension so the dispatcher can
// route it; the caller owns the file and removes it when done.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", domain.NewValidationError("url", err.Error())
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", domain.NewValidationError("url",
			fmt.Sprintf("unsupported scheme %q", parsed.Scheme))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", domain.NewValidationError("url", err.Error())
	}

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		return "", domain.NewUnavailableError(downstreamName, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", domain.NewUnavailableError(downstreamName,
			fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, parsed.Host))
	}

	file, err := os.CreateTemp(f.dir, "quotes-*"+path.Ext(parsed.Path))
	if err != nil {
		return "", domain.NewIOError("create", f.dir, err)
	}

	written, err := io.Copy(file, io.LimitReader(resp.Body, f.maxBytes))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(file.Name())

		return "", domain.NewIOError("write", file.Name(), err)
	}

	f.logger.DebugContext(ctx, "fetched remote file",
		slog.String("url", rawURL),
		slog.String("path", file.Name()),
		slog.Int64("bytes", written),
	)

	return file.Name(), nil
}
