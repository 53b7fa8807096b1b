package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
	"github.com/jsamuelsen/quote-ingest/internal/ports"
)

// Dispatcher routes a parse request to the ingestor claiming the path's
// extension. The registry is a fixed mapping built once at construction -
// there is no runtime registration and no fallback between ingestors.
type Dispatcher struct {
	byExtension map[string]ports.QuoteIngestor
	extensions  extensionSet
}

// NewDispatcher builds a dispatcher over the given ingestors.
// Returns an error if two ingestors claim the same extension: routing must
// be unambiguous, so overlapping claims are a wiring bug surfaced at startup.
func NewDispatcher(ingestors ...ports.QuoteIngestor) (*Dispatcher, error) {
	byExtension := make(map[string]ports.QuoteIngestor)

	for _, ing := range ingestors {
		for _, ext := range ing.Extensions() {
			if _, taken := byExtension[ext]; taken {
				return nil, fmt.Errorf("extension %q claimed by more than one ingestor", ext)
			}

			byExtension[ext] = ing
		}
	}

	extensions := make(extensionSet, 0, len(byExtension))
	for ext := range byExtension {
		extensions = append(extensions, ext)
	}

	sort.Strings(extensions)

	return &Dispatcher{
		byExtension: byExtension,
		extensions:  extensions,
	}, nil
}

// Extensions returns every extension in the registry, sorted.
func (d *Dispatcher) Extensions() []string {
	return d.extensions.list()
}

// CanIngest reports whether any registered ingestor claims the path's extension.
func (d *Dispatcher) CanIngest(path string) bool {
	return d.extensions.contains(path)
}

// Parse looks up the ingestor for the path's extension and delegates to it.
// When no ingestor matches it fails with domain.ErrUnsupportedFormat without
// touching the filesystem. Errors from the selected ingestor propagate
// unchanged - no retry, no fallback.
func (d *Dispatcher) Parse(ctx context.Context, path string) ([]domain.Quote, error) {
	ing, ok := d.byExtension[pathExtension(path)]
	if !ok {
		return nil, domain.NewUnsupportedFormatError(path, pathExtension(path))
	}

	return ing.Parse(ctx, path)
}
