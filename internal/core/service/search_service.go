package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/propdata/property-api/internal/api/metrics"
	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type searchService struct {
	repo  ports.PropertyRepository
	cache ports.ResultCache
	log   zerolog.Logger
}

// NewSearchService returns a SearchService that consults the result cache
// before hitting the property repository.
func NewSearchService(repo ports.PropertyRepository, cache ports.ResultCache, log zerolog.Logger) ports.SearchService {
	return &searchService{repo: repo, cache: cache, log: log}
}

func (s *searchService) Search(ctx context.Context, in ports.SearchInput) (*domain.SearchResult, error) {
	query := strings.TrimSpace(in.Query)
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.Size
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	start := time.Now()

	if in.UseCache && s.cache != nil {
		cached, err := s.cache.Get(ctx, query, page, size)
		if err != nil {
			// Cache trouble degrades to a repository query, never to a failure.
			s.log.Warn().Err(err).Str("query", query).Msg("result cache read failed")
		} else if cached != nil {
			metrics.SearchCacheTotal.WithLabelValues("hit").Inc()
			cached.FromCache = true
			cached.TookMS = elapsedMS(start)
			return cached, nil
		}
		metrics.SearchCacheTotal.WithLabelValues("miss").Inc()
	}

	total, properties, err := s.repo.Search(ctx, query, page, size)
	if err != nil {
		return nil, err
	}

	result := &domain.SearchResult{
		Total:      total,
		Properties: properties,
		TookMS:     elapsedMS(start),
	}
	metrics.SearchDuration.Observe(time.Since(start).Seconds())

	if in.UseCache && s.cache != nil {
		if err := s.cache.Set(ctx, query, page, size, result); err != nil {
			s.log.Warn().Err(err).Str("query", query).Msg("result cache write failed")
		}
	}

	return result, nil
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
