// Package store provides quote persistence adapters.
package store

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/jsamuelsen/quote-ingest/internal/domain"
)

// MemoryRepository keeps ingested quotes in process memory, preserving
// insertion order. It is the default repository: the service's data set is
// rebuilt by re-ingesting sources, so nothing needs to survive a restart.
type MemoryRepository struct {
	mu     sync.RWMutex
	quotes []domain.Quote
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Append implements ports.QuoteRepository.
func (r *MemoryRepository) Append(_ context.Context, _ string, quotes []domain.Quote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.quotes = append(r.quotes, quotes...)

	return nil
}

// List implements ports.QuoteRepository.
func (r *MemoryRepository) List(_ context.Context, offset, limit int) ([]domain.Quote, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.quotes)

	if offset < 0 {
		offset = 0
	}

	if offset >= total || limit <= 0 {
		return []domain.Quote{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]domain.Quote, end-offset)
	copy(page, r.quotes[offset:end])

	return page, total, nil
}

// Random implements ports.QuoteRepository.
func (r *MemoryRepository) Random(_ context.Context) (domain.Quote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.quotes) == 0 {
		return domain.Quote{}, domain.NewNotFoundError("quote", "random")
	}

	return r.quotes[rand.IntN(len(r.quotes))], nil //nolint:gosec // Selection, not security
}

// Count implements ports.QuoteRepository.
func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.quotes), nil
}
