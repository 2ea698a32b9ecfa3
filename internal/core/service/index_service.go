package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/propdata/property-api/internal/api/metrics"
	"github.com/propdata/property-api/internal/core/domain"
	"github.com/propdata/property-api/internal/core/ports"
)

type indexService struct {
	repo ports.PropertyRepository
	log  zerolog.Logger
}

// NewIndexService returns the IndexService the dispatcher workers call to
// persist listings.
func NewIndexService(repo ports.PropertyRepository, log zerolog.Logger) ports.IndexService {
	return &indexService{repo: repo, log: log}
}

// Index upserts a single listing into the property repository.
func (s *indexService) Index(ctx context.Context, in ports.PropertyInput) error {
	if in.ListingID == "" {
		metrics.IndexErrorsTotal.WithLabelValues("missing_listing_id").Inc()
		return fmt.Errorf("index listing: empty listing id")
	}

	property := &domain.Property{
		ListingID:   in.ListingID,
		Address:     in.Address,
		Details:     in.Details,
		Price:       in.Price,
		Status:      in.Status,
		Description: in.Description,
		IndexedAt:   time.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, property); err != nil {
		metrics.IndexErrorsTotal.WithLabelValues("upsert_failed").Inc()
		return fmt.Errorf("index listing %s: %w", in.ListingID, err)
	}

	metrics.IndexedTotal.WithLabelValues(in.Status).Inc()
	s.log.Debug().Str("listing_id", in.ListingID).Msg("listing indexed")
	return nil
}
