package models

import "time"

// Store is the single business location registered by a user. The district
// and industry cluster fields are denormalized copies resolved once at
// registration time; they are not re-derived when the underlying cluster
// tables change.
type Store struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"user_id"`
	PlaceID      *string  `json:"place_id"`
	Name         string   `json:"store_name"`
	PlaceURL     *string  `json:"place_url"`
	Phone        *string  `json:"phone"`
	RoadAddress  *string  `json:"road_address_name"`
	IndustryName *string  `json:"industry_name"`
	Longitude    *float64 `json:"longitude"`
	Latitude     *float64 `json:"latitude"`

	DistrictCode         *string `json:"district_code"`
	DistrictName         *string `json:"district_name"`
	DistrictClusterLabel *int    `json:"district_cluster_label"`
	DistrictClusterType  *string `json:"district_cluster_type"`

	IndustryClusterLabel *int    `json:"industry_cluster_label"`
	IndustryClusterType  *string `json:"industry_cluster_type"`

	Description *string   `json:"store_description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
