package pdftext

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
	"github.com/jsamuelsen/quote-ingest/internal/platform/config"
)

func TestNewSelectsBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.IngestConfig
		want    any
		wantErr bool
	}{
		{
			name: "poppler",
			cfg: config.IngestConfig{
				PDFExtractor:      BackendPoppler,
				ExtractionTimeout: 10 * time.Second,
			},
			want: &PopplerExtractor{},
		},
		{
			name: "native",
			cfg:  config.IngestConfig{PDFExtractor: BackendNative},
			want: &NativeExtractor{},
		},
		{
			name:    "unknown backend",
			cfg:     config.IngestConfig{PDFExtractor: "ghostscript"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor, err := New(tt.cfg, nil)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.want, extractor)
		})
	}
}

func TestNativeExtractorRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o600))

	_, err := NewNativeExtractor().ExtractText(context.Background(), path)

	require.Error(t, err)
	assert.True(t, domain.IsExtractionFailed(err))
}

func TestNativeExtractorHealthCheck(t *testing.T) {
	extractor := NewNativeExtractor()

	assert.Equal(t, "pdf-native", extractor.Name())
	assert.NoError(t, extractor.Check(context.Background()))
}
