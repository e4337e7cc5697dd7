package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"district-analytics-api/internal/apperr"
	"district-analytics-api/internal/geo"
	"district-analytics-api/internal/models"

	"github.com/rs/zerolog/log"
)

// DistrictService contains the district matching and analysis logic
type DistrictService struct {
	repo DistrictRepository
}

// Repository interface for dependency injection
type DistrictRepository interface {
	ListDistrictsWithCoordinates(ctx context.Context) ([]models.District, error)
	GetDistrictByCode(ctx context.Context, code string) (*models.District, error)
	ListDistrictsByCluster(ctx context.Context, clusterLabel, limit int) ([]models.District, error)
}

// NewDistrictService creates a new district service
func NewDistrictService(repo DistrictRepository) *DistrictService {
	return &DistrictService{repo: repo}
}

// FindNearest scans every district with known coordinates and returns the one
// closest to the given point. A nil result with a nil error means no district
// could be assigned; callers must not treat that as a failure. Candidates are
// scanned in district-code order, so distance ties resolve to the lowest code.
func (s *DistrictService) FindNearest(ctx context.Context, lon, lat float64) (*models.DistrictMatch, error) {
	districts, err := s.repo.ListDistrictsWithCoordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load districts: %w", err)
	}
	if len(districts) == 0 {
		return nil, nil
	}

	var nearest *models.District
	minDistance := math.Inf(1)

	for i := range districts {
		d := &districts[i]
		if d.Longitude == nil || d.Latitude == nil {
			log.Warn().Str("district_code", d.Code).Msg("district missing coordinates, skipping")
			continue
		}

		distance := geo.Meters(lat, lon, *d.Latitude, *d.Longitude)
		if distance < minDistance {
			minDistance = distance
			nearest = d
		}
	}

	if nearest == nil {
		return nil, nil
	}

	return &models.DistrictMatch{
		DistrictCode:   nearest.Code,
		DistrictName:   nearest.Name,
		ClusterLabel:   nearest.ClusterLabel,
		ClusterType:    nearest.ClusterType,
		DistanceMeters: math.Round(minDistance*100) / 100,
	}, nil
}

// NearbyResult is the outcome of a radius search around a point.
type NearbyResult struct {
	Center       Point                   `json:"center"`
	RadiusMeters float64                 `json:"radius_meters"`
	Districts    []models.NearbyDistrict `json:"districts"`
	Summary      NearbySummary           `json:"summary"`
}

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbySummary counts radius-search results grouped by cluster type.
type NearbySummary struct {
	TotalCount          int            `json:"total_count"`
	ClusterDistribution map[string]int `json:"cluster_distribution"`
}

const nearbyLimit = 50

// FindWithinRadius returns every district within radiusMeters of the point,
// ordered by ascending distance and capped at 50 results.
func (s *DistrictService) FindWithinRadius(ctx context.Context, lat, lon, radiusMeters float64) (*NearbyResult, error) {
	districts, err := s.repo.ListDistrictsWithCoordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load districts: %w", err)
	}

	result := &NearbyResult{
		Center:       Point{Latitude: lat, Longitude: lon},
		RadiusMeters: radiusMeters,
		Districts:    []models.NearbyDistrict{},
		Summary: NearbySummary{
			ClusterDistribution: map[string]int{},
		},
	}

	for i := range districts {
		d := &districts[i]
		if d.Longitude == nil || d.Latitude == nil {
			continue
		}

		distance := geo.Meters(lat, lon, *d.Latitude, *d.Longitude)
		if distance > radiusMeters {
			continue
		}

		result.Districts = append(result.Districts, models.NearbyDistrict{
			District:       *d,
			DistanceMeters: math.Round(distance*100) / 100,
		})
	}

	sort.SliceStable(result.Districts, func(i, j int) bool {
		return result.Districts[i].DistanceMeters < result.Districts[j].DistanceMeters
	})
	if len(result.Districts) > nearbyLimit {
		result.Districts = result.Districts[:nearbyLimit]
	}

	for _, d := range result.Districts {
		if d.ClusterType != nil {
			result.Summary.ClusterDistribution[*d.ClusterType]++
		}
	}
	result.Summary.TotalCount = len(result.Districts)

	return result, nil
}

// DistrictInfo is the analysis projection of one district.
type DistrictInfo struct {
	DistrictCode  string              `json:"district_code"`
	DistrictName  string              `json:"district_name"`
	ClusterLabel  int                 `json:"cluster_label"`
	ClusterType   *string             `json:"cluster_type"`
	TotalRevenue  int64               `json:"total_revenue"`
	AvgAge        float64             `json:"avg_age"`
	Efficiency    float64             `json:"efficiency"`
	BusinessCount int                 `json:"business_count"`
	Coordinates   NullableCoordinates `json:"coordinates"`
}

// NullableCoordinates mirrors the optional coordinate columns.
type NullableCoordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// GetDistrictInfo returns the analysis projection of the district with the
// given code, or nil when the code is unknown.
func (s *DistrictService) GetDistrictInfo(ctx context.Context, code string) (*DistrictInfo, error) {
	d, err := s.repo.GetDistrictByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get district: %w", err)
	}
	if d == nil {
		return nil, nil
	}

	return &DistrictInfo{
		DistrictCode:  d.Code,
		DistrictName:  d.Name,
		ClusterLabel:  d.ClusterLabel,
		ClusterType:   d.ClusterType,
		TotalRevenue:  d.TotalRevenue,
		AvgAge:        d.AvgAge,
		Efficiency:    d.Efficiency,
		BusinessCount: d.BusinessCount,
		Coordinates: NullableCoordinates{
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
		},
	}, nil
}

// ClusterAnalysis aggregates the districts of one cluster type.
type ClusterAnalysis struct {
	ClusterInfo  ClusterDescription `json:"cluster_info"`
	ClusterType  string             `json:"cluster_type"`
	Statistics   ClusterStatistics  `json:"statistics"`
	TopDistricts []models.District  `json:"top_districts"`
}

// ClusterDescription is the display name and summary of one cluster.
type ClusterDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ClusterStatistics aggregates revenue and demographics over a cluster's districts.
type ClusterStatistics struct {
	TotalDistricts int     `json:"total_districts"`
	TotalRevenue   int64   `json:"total_revenue"`
	AvgAge         float64 `json:"avg_age"`
	AvgEfficiency  float64 `json:"avg_efficiency"`
}

var clusterTypeLabels = map[string]int{
	"red":    0,
	"orange": 1,
	"green":  2,
	"blue":   3,
}

var clusterDescriptions = map[int]ClusterDescription{
	0: {Name: "☕️ 2030 여성 타겟 상권", Description: "카페, 뷰티 등 젊은 여성층 중심 상권"},
	1: {Name: "🍺 4050 남성 타겟 상권", Description: "주점, 식당 등 중년 남성층 중심 상권"},
	2: {Name: "🛍️ 4050 여성 타겟 상권", Description: "쇼핑, 생활편의 등 중년 여성층 중심 상권"},
	3: {Name: "🎮 2030 남성 타겟 상권", Description: "PC방, 오락 등 젊은 남성층 중심 상권"},
}

const clusterAnalysisLimit = 20

// AnalyzeCluster returns the top districts and aggregate statistics of one
// cluster type (red/orange/green/blue).
func (s *DistrictService) AnalyzeCluster(ctx context.Context, clusterType string) (*ClusterAnalysis, error) {
	label, ok := clusterTypeLabels[clusterType]
	if !ok {
		return nil, apperr.Validation("invalid cluster type")
	}

	districts, err := s.repo.ListDistrictsByCluster(ctx, label, clusterAnalysisLimit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list cluster districts: %w", err)
	}
	if len(districts) == 0 {
		return nil, apperr.NotFound("no districts found for cluster")
	}

	var totalRevenue int64
	var sumAge, sumEfficiency float64
	for _, d := range districts {
		totalRevenue += d.TotalRevenue
		sumAge += d.AvgAge
		sumEfficiency += d.Efficiency
	}
	n := float64(len(districts))

	top := districts
	if len(top) > 10 {
		top = top[:10]
	}

	return &ClusterAnalysis{
		ClusterInfo: clusterDescriptions[label],
		ClusterType: clusterType,
		Statistics: ClusterStatistics{
			TotalDistricts: len(districts),
			TotalRevenue:   totalRevenue,
			AvgAge:         math.Round(sumAge/n*100) / 100,
			AvgEfficiency:  math.Round(sumEfficiency/n*100) / 100,
		},
		TopDistricts: top,
	}, nil
}
