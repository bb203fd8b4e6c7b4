package source

import (
	"context"
	"slices"

	"github.com/targetdigest/ietrack/internal/model"
)

// Memo caches successful fetches by location for the life of one run, so an
// opponent shared by several trackers is downloaded once. Failures are not cached.
type Memo struct {
	next  Fetcher
	pages map[string][]model.Filing
}

// NewMemo wraps next.
func NewMemo(next Fetcher) *Memo {
	return &Memo{next: next, pages: make(map[string][]model.Filing)}
}

// Fetch returns the cached filings for location or fetches them from next.
func (m *Memo) Fetch(ctx context.Context, location string) ([]model.Filing, error) {
	if filings, ok := m.pages[location]; ok {
		return slices.Clone(filings), nil
	}
	filings, err := m.next.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	m.pages[location] = filings
	return slices.Clone(filings), nil
}
