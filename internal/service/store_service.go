package service

import (
	"context"
	"fmt"
	"math"

	"district-analytics-api/internal/apperr"
	"district-analytics-api/internal/models"
)

// StoreService provides read projections and updates for the caller's own
// store record.
type StoreService struct {
	repo       StoreRepository
	districts  DistrictAnalyzer
	industries IndustryLookup
}

// Repository interface for dependency injection
type StoreRepository interface {
	GetStoreByUserID(ctx context.Context, userID int64) (*models.Store, error)
	GetStoreByID(ctx context.Context, id int64) (*models.Store, error)
	UpdateStore(ctx context.Context, s *models.Store) error
	CountStoresInDistrict(ctx context.Context, districtCode string) (int, error)
	CountStoresInDistrictByIndustry(ctx context.Context, districtCode, industryName string) (int, error)
}

// DistrictAnalyzer exposes the district detail lookup used by the analysis
// projection.
type DistrictAnalyzer interface {
	GetDistrictInfo(ctx context.Context, code string) (*DistrictInfo, error)
}

// NewStoreService creates a new store service
func NewStoreService(repo StoreRepository, districts DistrictAnalyzer, industries IndustryLookup) *StoreService {
	return &StoreService{repo: repo, districts: districts, industries: industries}
}

// MyDistrictOut is the read-only district projection of a store.
type MyDistrictOut struct {
	DistrictCode         *string             `json:"district_code"`
	DistrictName         *string             `json:"district_name"`
	DistrictClusterLabel *int                `json:"district_cluster_label"`
	DistrictClusterType  *string             `json:"district_cluster_type"`
	Coordinates          NullableCoordinates `json:"coordinates"`
}

// MyDistrict returns the denormalized district fields of the caller's store.
func (s *StoreService) MyDistrict(ctx context.Context, userID int64) (*MyDistrictOut, error) {
	store, err := s.repo.GetStoreByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load store: %w", err)
	}
	if store == nil {
		return nil, apperr.NotFound("no store registered")
	}

	return &MyDistrictOut{
		DistrictCode:         store.DistrictCode,
		DistrictName:         store.DistrictName,
		DistrictClusterLabel: store.DistrictClusterLabel,
		DistrictClusterType:  store.DistrictClusterType,
		Coordinates: NullableCoordinates{
			Latitude:  store.Latitude,
			Longitude: store.Longitude,
		},
	}, nil
}

// MyIndustryOut is the read-only industry projection of a store.
type MyIndustryOut struct {
	IndustryName         *string `json:"industry_name"`
	IndustryClusterLabel *int    `json:"industry_cluster_label"`
	IndustryClusterType  *string `json:"industry_cluster_type"`
}

// MyIndustry returns the denormalized industry fields of the caller's store.
func (s *StoreService) MyIndustry(ctx context.Context, userID int64) (*MyIndustryOut, error) {
	store, err := s.repo.GetStoreByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load store: %w", err)
	}
	if store == nil {
		return nil, apperr.NotFound("no store registered")
	}

	return &MyIndustryOut{
		IndustryName:         store.IndustryName,
		IndustryClusterLabel: store.IndustryClusterLabel,
		IndustryClusterType:  store.IndustryClusterType,
	}, nil
}

// StoreUpdate is a partial update of a store's mutable fields.
type StoreUpdate struct {
	StoreName        *string `json:"storeName"`
	StoreDescription *string `json:"storeDescription"`
	IndustryName     *string `json:"industryName"`
	Phone            *string `json:"phone"`
}

// Update applies a partial update to the caller's store. Changing the
// industry re-resolves its cluster assignment; this is the only time the
// denormalized industry fields are refreshed.
func (s *StoreService) Update(ctx context.Context, userID, storeID int64, patch StoreUpdate) (*models.Store, error) {
	store, err := s.repo.GetStoreByID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load store: %w", err)
	}
	if store == nil {
		return nil, apperr.NotFound("store not found")
	}
	if store.UserID != userID {
		return nil, apperr.Forbidden("cannot modify another user's store")
	}

	if patch.StoreName != nil {
		store.Name = *patch.StoreName
	}
	if patch.StoreDescription != nil {
		store.Description = patch.StoreDescription
	}
	if patch.Phone != nil {
		store.Phone = patch.Phone
	}
	if patch.IndustryName != nil {
		store.IndustryName = patch.IndustryName
		store.IndustryClusterLabel = nil
		store.IndustryClusterType = nil

		match, err := s.industries.Lookup(ctx, *patch.IndustryName)
		if err != nil {
			return nil, fmt.Errorf("service: failed to resolve industry: %w", err)
		}
		if match != nil {
			store.IndustryClusterLabel = &match.ClusterLabel
			store.IndustryClusterType = match.IndustryTypeCode
		}
	}

	if err := s.repo.UpdateStore(ctx, store); err != nil {
		return nil, fmt.Errorf("service: failed to update store: %w", err)
	}

	return store, nil
}

// MarketPosition situates a store among its district's registered peers.
type MarketPosition struct {
	StoresInDistrict       int     `json:"stores_in_district"`
	SameIndustryInDistrict int     `json:"same_industry_in_district"`
	MarketShare            float64 `json:"market_share"`
}

// MyStoreSummary is the store portion of the district analysis.
type MyStoreSummary struct {
	StoreName    string              `json:"store_name"`
	IndustryName *string             `json:"industry_name"`
	Address      *string             `json:"address"`
	Coordinates  NullableCoordinates `json:"coordinates"`
}

// DistrictAnalysis combines the caller's store, its district and industry
// details, and its market position.
type DistrictAnalysis struct {
	MyStore          MyStoreSummary        `json:"my_store"`
	DistrictAnalysis *DistrictInfo         `json:"district_analysis"`
	IndustryAnalysis *models.IndustryMatch `json:"industry_analysis"`
	MarketPosition   MarketPosition        `json:"market_position"`
}

// MyDistrictAnalysis returns the full analysis of the caller's district.
func (s *StoreService) MyDistrictAnalysis(ctx context.Context, userID int64) (*DistrictAnalysis, error) {
	store, err := s.repo.GetStoreByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load store: %w", err)
	}
	if store == nil {
		return nil, apperr.NotFound("no store registered")
	}
	if store.DistrictCode == nil {
		return nil, apperr.NotFound("no district assigned to store")
	}

	districtInfo, err := s.districts.GetDistrictInfo(ctx, *store.DistrictCode)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load district info: %w", err)
	}

	var industryInfo *models.IndustryMatch
	if store.IndustryName != nil {
		industryInfo, err = s.industries.Lookup(ctx, *store.IndustryName)
		if err != nil {
			return nil, fmt.Errorf("service: failed to load industry info: %w", err)
		}
	}

	inDistrict, err := s.repo.CountStoresInDistrict(ctx, *store.DistrictCode)
	if err != nil {
		return nil, fmt.Errorf("service: failed to count district stores: %w", err)
	}

	sameIndustry := 0
	if store.IndustryName != nil {
		sameIndustry, err = s.repo.CountStoresInDistrictByIndustry(ctx, *store.DistrictCode, *store.IndustryName)
		if err != nil {
			return nil, fmt.Errorf("service: failed to count industry stores: %w", err)
		}
	}

	denominator := inDistrict
	if denominator < 1 {
		denominator = 1
	}

	return &DistrictAnalysis{
		MyStore: MyStoreSummary{
			StoreName:    store.Name,
			IndustryName: store.IndustryName,
			Address:      store.RoadAddress,
			Coordinates: NullableCoordinates{
				Latitude:  store.Latitude,
				Longitude: store.Longitude,
			},
		},
		DistrictAnalysis: districtInfo,
		IndustryAnalysis: industryInfo,
		MarketPosition: MarketPosition{
			StoresInDistrict:       inDistrict,
			SameIndustryInDistrict: sameIndustry,
			MarketShare:            math.Round(float64(sameIndustry)/float64(denominator)*100*100) / 100,
		},
	}, nil
}
