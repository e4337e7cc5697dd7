package service

import (
	"context"
	"fmt"

	"district-analytics-api/internal/models"
)

// IndustryService resolves industry names to their precomputed cluster
// assignments.
type IndustryService struct {
	repo IndustryRepository
}

// Repository interface for dependency injection
type IndustryRepository interface {
	GetIndustryByName(ctx context.Context, name string) (*models.IndustryCluster, error)
	SearchIndustriesByName(ctx context.Context, fragment string, limit int) ([]models.IndustryCluster, error)
}

// NewIndustryService creates a new industry service
func NewIndustryService(repo IndustryRepository) *IndustryService {
	return &IndustryService{repo: repo}
}

// Lookup resolves an industry name by exact match. Free-text names that do
// not match any row yield a nil result, not an error.
func (s *IndustryService) Lookup(ctx context.Context, name string) (*models.IndustryMatch, error) {
	industry, err := s.repo.GetIndustryByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service: failed to look up industry: %w", err)
	}
	if industry == nil {
		return nil, nil
	}

	return &models.IndustryMatch{
		ClusterLabel:     industry.ClusterLabel,
		IndustryTypeCode: industry.IndustryTypeCode,
	}, nil
}

const similarIndustryLimit = 5

// SearchSimilar finds industries whose name contains the given fragment.
// Diagnostic only; carries no behavioral contract.
func (s *IndustryService) SearchSimilar(ctx context.Context, fragment string) ([]models.IndustryCluster, error) {
	industries, err := s.repo.SearchIndustriesByName(ctx, fragment, similarIndustryLimit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search industries: %w", err)
	}
	return industries, nil
}
