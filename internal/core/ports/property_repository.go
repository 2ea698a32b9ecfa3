package ports

import (
	"context"

	"github.com/propdata/property-api/internal/core/domain"
)

// PropertyRepository is the search index the search service queries and the
// indexer writes into.
type PropertyRepository interface {
	Search(ctx context.Context, query string, page, size int) (int64, []domain.Property, error)
	Upsert(ctx context.Context, property *domain.Property) error
}
