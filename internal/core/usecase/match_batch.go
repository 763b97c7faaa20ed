package usecase

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/greenchainz/carbon-analysis/internal/core/domain"
	"github.com/greenchainz/carbon-analysis/internal/core/ports"
)

const defaultMatchChunkSize = 10

type BatchItem struct {
	Name     string
	Category string
}

// BatchMatcher matches many extracted materials against the catalog with a
// single catalog load per batch instead of one lookup per material.
type BatchMatcher struct {
	catalog   ports.ProductCatalog
	logger    *slog.Logger
	chunkSize int
	threshold float64
}

func NewBatchMatcher(catalog ports.ProductCatalog, logger *slog.Logger, chunkSize int, threshold float64) *BatchMatcher {
	if chunkSize <= 0 {
		chunkSize = defaultMatchChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchMatcher{
		catalog:   catalog,
		logger:    logger,
		chunkSize: chunkSize,
		threshold: threshold,
	}
}

// MatchAll returns one entry per unique input name; duplicate names collapse
// to a single lookup. Chunks run sequentially while names within a chunk are
// matched concurrently. A failed catalog preload degrades to an empty
// candidate set, so every entry resolves to no match instead of aborting.
func (m *BatchMatcher) MatchAll(ctx context.Context, items []BatchItem) map[string]*domain.MaterialMatch {
	results := make(map[string]*domain.MaterialMatch, len(items))
	if len(items) == 0 {
		return results
	}

	candidates, err := m.catalog.ListAll(ctx)
	if err != nil {
		m.logger.Warn("catalog preload failed, matching degraded", "error", err)
		candidates = nil
	}

	unique := make([]BatchItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		unique = append(unique, item)
	}

	matches := make([]*domain.MaterialMatch, len(unique))
	for start := 0; start < len(unique); start += m.chunkSize {
		end := min(start+m.chunkSize, len(unique))
		group, _ := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			group.Go(func() error {
				item := unique[i]
				matches[i] = MatchMaterial(item.Name, MatchOptions{
					CategoryHint: item.Category,
					Threshold:    m.threshold,
					Candidates:   candidates,
				})
				return nil
			})
		}
		_ = group.Wait()
	}

	for i, item := range unique {
		results[item.Name] = matches[i]
	}
	return results
}
