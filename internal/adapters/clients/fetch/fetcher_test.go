package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-ingest/internal/adapters/clients"
	"github.com/jsamuelsen/quote-ingest/internal/domain"
	"github.com/jsamuelsen/quote-ingest/internal/platform/config"
)

func newTestClient(t *testing.T) *clients.Client {
	t.Helper()

	client, err := clients.New(&clients.Config{
		ServiceName: "quote-feed",
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	})
	require.NoError(t, err)

	return client
}

func TestFetcherDownloadsToTempFile(t *testing.T) {
	const content = "Bark less - Rex\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := NewFetcher(FetcherConfig{Client: newTestClient(t), Dir: dir})

	path, err := fetcher.Fetch(context.Background(), server.URL+"/feeds/daily.txt")

	require.NoError(t, err)
	defer func() { _ = os.Remove(path) }()

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".txt", filepath.Ext(path), "downloaded file keeps the URL extension")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestFetcherErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(FetcherConfig{Client: newTestClient(t), Dir: t.TempDir()})

	_, err := fetcher.Fetch(context.Background(), server.URL+"/absent.csv")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestFetcherUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	fetcher := NewFetcher(FetcherConfig{Client: newTestClient(t), Dir: t.TempDir()})

	_, err := fetcher.Fetch(context.Background(), server.URL+"/quotes.txt")

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestFetcherRejectsBadURL(t *testing.T) {
	fetcher := NewFetcher(FetcherConfig{Client: newTestClient(t), Dir: t.TempDir()})

	tests := []struct {
		name string
		url  string
	}{
		{name: "unsupported scheme", url: "ftp://example.com/quotes.txt"},
		{name: "no scheme", url: "example.com/quotes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fetcher.Fetch(context.Background(), tt.url)

			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestFetcherTruncatesOversizedDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer server.Close()

	fetcher := NewFetcher(FetcherConfig{
		Client:   newTestClient(t),
		Dir:      t.TempDir(),
		MaxBytes: 1024,
	})

	path, err := fetcher.Fetch(context.Background(), server.URL+"/big.txt")
	require.NoError(t, err)

	defer func() { _ = os.Remove(path) }()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), info.Size())
}
