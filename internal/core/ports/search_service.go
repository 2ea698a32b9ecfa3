package ports

import (
	"context"

	"github.com/propdata/property-api/internal/core/domain"
)

// SearchInput captures one search request after transport-level validation.
type SearchInput struct {
	Query    string
	Page     int
	Size     int
	UseCache bool
}

// SearchService executes property searches with result caching.
type SearchService interface {
	Search(ctx context.Context, in SearchInput) (*domain.SearchResult, error)
}

// ResultCache stores serialized search result pages keyed by query+page.
// A miss returns (nil, nil).
type ResultCache interface {
	Get(ctx context.Context, query string, page, size int) (*domain.SearchResult, error)
	Set(ctx context.Context, query string, page, size int, result *domain.SearchResult) error
}

// PropertyInput is one listing submitted through the data-load endpoint.
type PropertyInput struct {
	ListingID   string
	Address     domain.PropertyAddress
	Details     domain.PropertyDetails
	Price       float64
	Status      string
	Description string
}

// IndexService persists listings into the property repository. Called by
// the queue dispatcher workers, one listing at a time.
type IndexService interface {
	Index(ctx context.Context, in PropertyInput) error
}
