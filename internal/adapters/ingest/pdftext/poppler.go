// Package pdftext provides the text-extraction backends behind the PDF
// ingestor. The default backend shells out to poppler's pdftotext binary;
// an in-process backend built on a pure-Go PDF reader is available where
// installing poppler is not an option.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
	"github.com/jsamuelsen/quote-ingest/internal/platform/logging"
)

// defaultBinary is the poppler binary resolved via PATH when no explicit
// path is configured.
const defaultBinary = "pdftotext"

// defaultTimeout bounds a single extraction when no timeout is configured.
const defaultTimeout = 30 * time.Second

// PopplerExtractor extracts PDF text by running `pdftotext <path> -` and
// capturing stdout. Each call spawns a fresh process, so the extractor is
// safe for concurrent use.
type PopplerExtractor struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// PopplerOption customizes a PopplerExtractor.
type PopplerOption func(*PopplerExtractor)

// WithBinary overrides the pdftotext binary path.
func WithBinary(path string) PopplerOption {
	return func(e *PopplerExtractor) {
		if path != "" {
			e.binary = path
		}
	}
}

// WithTimeout overrides the per-extraction timeout.
func WithTimeout(d time.Duration) PopplerOption {
	return func(e *PopplerExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) PopplerOption {
	return func(e *PopplerExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewPopplerExtractor creates the subprocess-backed extractor.
func NewPopplerExtractor(opts ...PopplerOption) *PopplerExtractor {
	e := &PopplerExtractor{
		binary:  defaultBinary,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With(slog.String("component", "pdftext.PopplerExtractor"))

	return e
}

// ExtractText implements ports.TextExtractor.
// The trailing "-" argument directs pdftotext to write the extracted text to
// stdout instead of a sibling .txt file.
func (e *PopplerExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	logger := logging.FromContext(ctx).With(
		slog.String("tool", e.binary),
		slog.String("path", path),
	)

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, e.binary, path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Without a WaitDelay, cmd.Run blocks past the deadline kill for as long
	// as any descendant of the binary holds the stdout pipe open.
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		logger.Warn("extraction timed out",
			slog.Duration("timeout", e.timeout),
		)

		return "", domain.NewExtractionFailedError(e.binary,
			fmt.Sprintf("timed out after %s", e.timeout))
	case errors.Is(err, exec.ErrNotFound):
		return "", domain.NewExtractionFailedError(e.binary, "binary not found in PATH")
	case err != nil:
		logger.Warn("extraction failed",
			slog.Duration("duration", duration),
			slog.String("stderr", stderr.String()),
			slog.Any("error", err),
		)

		reason := err.Error()
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			reason = fmt.Sprintf("%s: %s", reason, msg)
		}

		return "", domain.NewExtractionFailedError(e.binary, reason)
	}

	logger.Debug("extraction completed",
		slog.Duration("duration", duration),
		slog.Int("bytes", stdout.Len()),
	)

	return stdout.String(), nil
}

// Name implements ports.HealthChecker.
func (e *PopplerExtractor) Name() string {
	return "pdftotext"
}

// Check implements ports.HealthChecker by verifying the binary resolves.
func (e *PopplerExtractor) Check(_ context.Context) error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("pdftotext unavailable: %w", err)
	}

	return nil
}
