package models

// District represents a commercial district with its precomputed cluster
// assignment and aggregate sales statistics. Rows are produced by an offline
// batch process and are read-only to this service.
type District struct {
	Code          string   `json:"district_code"`
	Name          string   `json:"district_name"`
	TotalRevenue  int64    `json:"total_revenue"`
	AvgAge        float64  `json:"avg_age"`
	Efficiency    float64  `json:"efficiency"`
	BusinessCount int      `json:"business_count"`
	ClusterLabel  int      `json:"cluster_label"`
	ClusterType   *string  `json:"cluster_type"`
	Longitude     *float64 `json:"longitude"`
	Latitude      *float64 `json:"latitude"`
}

// DistrictMatch is the result of a nearest-district lookup.
type DistrictMatch struct {
	DistrictCode   string  `json:"district_code"`
	DistrictName   string  `json:"district_name"`
	ClusterLabel   int     `json:"district_cluster_label"`
	ClusterType    *string `json:"district_cluster_type"`
	DistanceMeters float64 `json:"distance_meters"`
}

// NearbyDistrict is one entry of a radius search, a district annotated with
// its distance from the query point.
type NearbyDistrict struct {
	District
	DistanceMeters float64 `json:"distance_meters"`
}
