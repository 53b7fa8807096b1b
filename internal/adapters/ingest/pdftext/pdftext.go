package pdftext

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quote-ingest/internal/platform/config"
	"github.com/jsamuelsen/quote-ingest/internal/ports"
)

// Extractor is a text-extraction backend that can also report its health,
// so main can register whichever backend is selected with the health
// registry without caring which one it got.
type Extractor interface {
	ports.TextExtractor
	ports.HealthChecker
}

// Backend names accepted in configuration.
const (
	BackendPoppler = "pdftotext"
	BackendNative  = "native"
)

// New selects the extraction backend named by configuration.
func New(cfg config.IngestConfig, logger *slog.Logger) (Extractor, error) {
	switch cfg.PDFExtractor {
	case BackendPoppler:
		return NewPopplerExtractor(
			WithBinary(cfg.PdftotextPath),
			WithTimeout(cfg.ExtractionTimeout),
			WithLogger(logger),
		), nil
	case BackendNative:
		return NewNativeExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown pdf extractor backend %q", cfg.PDFExtractor)
	}
}
