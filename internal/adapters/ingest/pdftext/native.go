package pdftext

import (
	"context"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// NativeExtractor extracts PDF text in-process with a pure-Go PDF reader.
// It needs no external binary but handles fewer PDF dialects than poppler,
// so it is the fallback backend rather than the default.
type NativeExtractor struct{}

// NewNativeExtractor creates the in-process extractor.
func NewNativeExtractor() *NativeExtractor {
	return &NativeExtractor{}
}

// ExtractText implements ports.TextExtractor.
func (e *NativeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", domain.NewExtractionFailedError("pdf", err.Error())
	}
	defer func() { _ = f.Close() }()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", domain.NewExtractionFailedError("pdf", err.Error())
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", domain.NewExtractionFailedError("pdf", err.Error())
	}

	return string(content), nil
}

// Name implements ports.HealthChecker.
func (e *NativeExtractor) Name() string {
	return "pdf-native"
}

// Check implements ports.HealthChecker. The in-process backend has no
// external dependency to probe.
func (e *NativeExtractor) Check(_ context.Context) error {
	return nil
}
