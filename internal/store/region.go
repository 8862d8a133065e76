package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"paralympics-api/pkg/model"
)

// RegionService handles region persistence
type RegionService struct {
	db *sqlx.DB
}

// NewRegionService creates a new region service
func NewRegionService(db *sqlx.DB) *RegionService {
	return &RegionService{db: db}
}

// ListRegions returns every region in the store's scan order
func (s *RegionService) ListRegions(ctx context.Context) ([]model.Region, error) {
	var regions []model.Region
	err := s.db.SelectContext(ctx, &regions, `SELECT noc, region, notes FROM region`)
	if err != nil {
		return nil, failed(fmt.Errorf("listing regions: %w", err))
	}
	return regions, nil
}

// GetRegion looks up a single region by its NOC code
func (s *RegionService) GetRegion(ctx context.Context, noc string) (*model.Region, error) {
	var regions []model.Region
	err := s.db.SelectContext(ctx, &regions,
		s.db.Rebind(`SELECT noc, region, notes FROM region WHERE noc = ?`), noc)
	if err != nil {
		return nil, failed(fmt.Errorf("fetching region %s: %w", noc, err))
	}

	switch len(regions) {
	case 0:
		return nil, fmt.Errorf("region %s: %w", noc, ErrNotFound)
	case 1:
		return &regions[0], nil
	default:
		return nil, failed(fmt.Errorf("region %s matched %d rows: %w", noc, len(regions), ErrIntegrity))
	}
}

// AddRegion inserts a new region
func (s *RegionService) AddRegion(ctx context.Context, region model.Region) error {
	query, args, err := sqlx.Named(
		`INSERT INTO region (noc, region, notes) VALUES (:noc, :region, :notes)`, region)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return failed(fmt.Errorf("adding region %s: %w", region.NOC, classify(err)))
	}
	return nil
}
